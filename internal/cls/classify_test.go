//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package cls

import (
	"testing"

	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/smartystreets/goconvey/convey"
)

func TestClassify(t *testing.T) {
	convey.Convey("Given the keyword rules", t, func() {
		convey.Convey("When the text mentions family", func() {
			convey.Convey("Then family wins over every later rule", func() {
				convey.So(Classify("my mother and I had a fight"), convey.ShouldEqual, str.CatFamily)
				convey.So(Classify("my brother betrayed my boyfriend at work"), convey.ShouldEqual, str.CatFamily)
			})
			convey.Convey("And matching ignores case", func() {
				convey.So(Classify("MOTHER"), convey.ShouldEqual, str.CatFamily)
				convey.So(Classify("My Father"), convey.ShouldEqual, str.CatFamily)
			})
		})

		convey.Convey("When the text is about a partner", func() {
			convey.So(Classify("my girlfriend forgot"), convey.ShouldEqual, str.CatRelationship)
			convey.So(Classify("the couple next door"), convey.ShouldEqual, str.CatRelationship)
			convey.So(Classify("my boyfriend and my friend"), convey.ShouldEqual, str.CatRelationship)
		})

		convey.Convey("When the friendship rules overlap", func() {
			convey.Convey("Then conflict comes before fight", func() {
				convey.So(Classify("an argument with a friend"), convey.ShouldEqual, str.CatFriendConflict)
				convey.So(Classify("angry"), convey.ShouldEqual, str.CatFriendConflict)
			})
			convey.Convey("And fight comes before betrayal", func() {
				convey.So(Classify("she hurt me"), convey.ShouldEqual, str.CatFriendFight)
				convey.So(Classify("a punch"), convey.ShouldEqual, str.CatFriendFight)
				convey.So(Classify("I felt betrayed by a friend"), convey.ShouldEqual, str.CatFriendFight)
			})
			convey.Convey("And betrayal catches what is left", func() {
				convey.So(Classify("I was betrayed"), convey.ShouldEqual, str.CatFriendBetrayal)
				convey.So(Classify("so much anger"), convey.ShouldEqual, str.CatFriendBetrayal)
			})
		})

		convey.Convey("When the text is about work", func() {
			convey.So(Classify("work exam stress"), convey.ShouldEqual, str.CatWork)
			convey.So(Classify("homework"), convey.ShouldEqual, str.CatWork)
			convey.So(Classify("the EXAMINATION"), convey.ShouldEqual, str.CatWork)
		})

		convey.Convey("When nothing matches", func() {
			convey.So(Classify(""), convey.ShouldEqual, str.CatOther)
			convey.So(Classify("   "), convey.ShouldEqual, str.CatOther)
			convey.So(Classify("the weather is nice"), convey.ShouldEqual, str.CatOther)
		})

		convey.Convey("When keywords hide inside other words", func() {
			// substring matching is deliberate: "grandmother" is family, "friendly" is a fight
			convey.So(Classify("my grandmother"), convey.ShouldEqual, str.CatFamily)
			convey.So(Classify("a friendly chat"), convey.ShouldEqual, str.CatFriendFight)
		})
	})
}

func TestClassifyAll(t *testing.T) {
	convey.Convey("Given a batch of texts", t, func() {
		in := []string{"my mother and I had a fight", "work exam stress", "my mother yelled at me", ""}
		convey.Convey("Then labels come back in input order", func() {
			convey.So(ClassifyAll(in), convey.ShouldResemble,
				[]str.Category{str.CatFamily, str.CatWork, str.CatFamily, str.CatOther})
		})
		convey.Convey("And an empty batch yields an empty slice", func() {
			convey.So(ClassifyAll(nil), convey.ShouldBeEmpty)
		})
	})
}

func TestRulesIsACopy(t *testing.T) {
	convey.Convey("Given the exported rule table", t, func() {
		rr := Rules()
		convey.So(len(rr), convey.ShouldEqual, 6)
		convey.So(rr[0].Cat, convey.ShouldEqual, str.CatFamily)
		convey.So(rr[5].Cat, convey.ShouldEqual, str.CatWork)

		convey.Convey("Then editing it does not change classification", func() {
			rr[0].Keywords[0] = "zzz"
			convey.So(Classify("mother"), convey.ShouldEqual, str.CatFamily)
		})
	})
}
