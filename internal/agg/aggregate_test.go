//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package agg

import (
	"testing"

	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/smartystreets/goconvey/convey"
)

func doc(topic int, c str.Category) str.Document {
	return str.Document{Text: string(c), Category: c, Topic: topic}
}

func TestDominantCategories(t *testing.T) {
	convey.Convey("Given the documents of a single topic", t, func() {
		convey.Convey("When one category is in the majority", func() {
			d := []str.Document{doc(0, str.CatWork), doc(0, str.CatFamily), doc(0, str.CatWork)}
			convey.So(DominantCategories(d)[0], convey.ShouldEqual, str.CatWork)
		})

		convey.Convey("When two categories tie", func() {
			convey.Convey("Then the one seen first wins", func() {
				d := []str.Document{doc(0, str.CatWork), doc(0, str.CatFamily)}
				convey.So(DominantCategories(d)[0], convey.ShouldEqual, str.CatWork)

				d = []str.Document{doc(0, str.CatFamily), doc(0, str.CatWork), doc(0, str.CatWork), doc(0, str.CatFamily)}
				convey.So(DominantCategories(d)[0], convey.ShouldEqual, str.CatFamily)
			})
			convey.Convey("And a later category needs strictly more to take over", func() {
				d := []str.Document{doc(3, str.CatOther), doc(3, str.CatWork), doc(3, str.CatWork), doc(3, str.CatOther), doc(3, str.CatWork)}
				convey.So(DominantCategories(d)[3], convey.ShouldEqual, str.CatWork)
			})
		})
	})

	convey.Convey("Given documents spread over several topics", t, func() {
		d := []str.Document{
			doc(1, str.CatWork), doc(-1, str.CatOther), doc(0, str.CatFamily),
			doc(1, str.CatWork), doc(0, str.CatRelationship), doc(-1, str.CatOther),
		}
		dom := DominantCategories(d)
		convey.So(len(dom), convey.ShouldEqual, 3)
		convey.So(dom[0], convey.ShouldEqual, str.CatFamily)
		convey.So(dom[1], convey.ShouldEqual, str.CatWork)
		convey.So(dom[-1], convey.ShouldEqual, str.CatOther)
	})
}

func TestAggregate(t *testing.T) {
	convey.Convey("Given three documents over two topics", t, func() {
		docs := []str.Document{
			{Text: "my mother and I had a fight", Category: str.CatFamily, Topic: 0},
			{Text: "work exam stress", Category: str.CatWork, Topic: 1},
			{Text: "my mother yelled at me", Category: str.CatFamily, Topic: 0},
		}
		topics := []str.TopicSummary{
			{TopicID: 0, TopicName: "topic_0_family", Count: 2},
			{TopicID: 1, TopicName: "topic_1_work", Count: 1},
		}

		ed, et := Aggregate(docs, topics)

		convey.Convey("Then every topic gets its dominant category", func() {
			convey.So(len(et), convey.ShouldEqual, 2)
			convey.So(et[0].DominantCategory, convey.ShouldEqual, str.CatFamily)
			convey.So(et[1].DominantCategory, convey.ShouldEqual, str.CatWork)
			convey.So(et[0].Count, convey.ShouldEqual, 2)
		})

		convey.Convey("And every document row is populated in input order", func() {
			convey.So(len(ed), convey.ShouldEqual, 3)
			convey.So(ed[0].TopicName, convey.ShouldEqual, "topic_0_family")
			convey.So(ed[0].DominantCategory, convey.ShouldEqual, str.CatFamily)
			convey.So(ed[1].TopicName, convey.ShouldEqual, "topic_1_work")
			convey.So(ed[1].DominantCategory, convey.ShouldEqual, str.CatWork)
			convey.So(ed[2].Text, convey.ShouldEqual, "my mother yelled at me")
			for _, r := range ed {
				convey.So(r.Matched, convey.ShouldBeTrue)
			}
		})
	})

	convey.Convey("Given a topic that no document carries", t, func() {
		docs := []str.Document{doc(0, str.CatWork)}
		topics := []str.TopicSummary{{TopicID: 0, TopicName: "0_a"}, {TopicID: 7, TopicName: "7_b"}}
		_, et := Aggregate(docs, topics)
		convey.So(et[1].DominantCategory, convey.ShouldEqual, str.NoCategory)
		convey.So(et[1].DominantCategory.IsSet(), convey.ShouldBeFalse)
	})

	convey.Convey("Given a document whose topic has no summary row", t, func() {
		docs := []str.Document{doc(0, str.CatWork), doc(4, str.CatFamily)}
		topics := []str.TopicSummary{{TopicID: 0, TopicName: "0_a"}}
		ed, _ := Aggregate(docs, topics)

		convey.Convey("Then the row is kept with unset name and category", func() {
			convey.So(len(ed), convey.ShouldEqual, 2)
			convey.So(ed[1].Topic, convey.ShouldEqual, 4)
			convey.So(ed[1].Category, convey.ShouldEqual, str.CatFamily)
			convey.So(ed[1].TopicName, convey.ShouldEqual, "")
			convey.So(ed[1].DominantCategory, convey.ShouldEqual, str.NoCategory)
			convey.So(ed[1].Matched, convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given outliers", t, func() {
		docs := []str.Document{doc(-1, str.CatOther), doc(-1, str.CatWork), doc(0, str.CatWork)}
		topics := []str.TopicSummary{{TopicID: -1, TopicName: "-1_x"}, {TopicID: 0, TopicName: "0_y"}}
		ed, et := Aggregate(docs, topics)
		convey.So(et[0].DominantCategory, convey.ShouldEqual, str.CatOther)
		convey.So(ed[1].TopicName, convey.ShouldEqual, "-1_x")
	})

	convey.Convey("Given a topic table with a repeated id", t, func() {
		docs := []str.Document{doc(0, str.CatWork)}
		topics := []str.TopicSummary{{TopicID: 0, TopicName: "0_a"}, {TopicID: 0, TopicName: "0_b"}}
		ed, _ := Aggregate(docs, topics)
		convey.Convey("Then the join fans out", func() {
			convey.So(len(ed), convey.ShouldEqual, 2)
			convey.So(ed[0].TopicName, convey.ShouldEqual, "0_a")
			convey.So(ed[1].TopicName, convey.ShouldEqual, "0_b")
		})
	})

	convey.Convey("Given nothing at all", t, func() {
		ed, et := Aggregate(nil, nil)
		convey.So(ed, convey.ShouldNotBeNil)
		convey.So(et, convey.ShouldNotBeNil)
		convey.So(ed, convey.ShouldBeEmpty)
		convey.So(et, convey.ShouldBeEmpty)
	})
}
