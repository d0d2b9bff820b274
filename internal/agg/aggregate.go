//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package agg

import (
	"github.com/e-gun/TopicMapServer/internal/str"
)

//
// TOPIC/CATEGORY AGGREGATION
//

// Aggregate - attach the dominant category of each topic to the topic table and join that table back onto the documents
func Aggregate(docs []str.Document, topics []str.TopicSummary) ([]str.EnrichedDocument, []str.EnrichedTopicSummary) {
	dominant := DominantCategories(docs)

	// [a] the topic table gains a column; topics nobody was assigned to stay unset
	et := make([]str.EnrichedTopicSummary, len(topics))
	for i, t := range topics {
		et[i] = str.EnrichedTopicSummary{
			TopicSummary:     t,
			DominantCategory: dominant[t.TopicID], // zero value is NoCategory
		}
	}

	// [b] left join on topic id; an id repeated in the topic table fans out exactly as a relational join would
	byid := make(map[int][]int, len(et))
	for i, t := range et {
		byid[t.TopicID] = append(byid[t.TopicID], i)
	}

	ed := make([]str.EnrichedDocument, 0, len(docs))
	for _, d := range docs {
		hits, ok := byid[d.Topic]
		if !ok {
			ed = append(ed, str.EnrichedDocument{Document: d})
			continue
		}
		for _, h := range hits {
			ed = append(ed, str.EnrichedDocument{
				Document:         d,
				TopicName:        et[h].TopicName,
				DominantCategory: et[h].DominantCategory,
				Matched:          true,
			})
		}
	}

	return ed, et
}

// DominantCategories - the modal category per topic; ties go to whichever category showed up first in that topic
func DominantCategories(docs []str.Document) map[int]str.Category {
	type tally struct {
		order  []str.Category
		counts map[str.Category]int
	}

	groups := make(map[int]*tally)
	for _, d := range docs {
		g, ok := groups[d.Topic]
		if !ok {
			g = &tally{counts: make(map[str.Category]int)}
			groups[d.Topic] = g
		}
		if _, seen := g.counts[d.Category]; !seen {
			g.order = append(g.order, d.Category)
		}
		g.counts[d.Category]++
	}

	dominant := make(map[int]str.Category, len(groups))
	for topic, g := range groups {
		best := g.order[0]
		for _, c := range g.order[1:] {
			// strictly greater: an equal count never displaces the earlier category
			if g.counts[c] > g.counts[best] {
				best = c
			}
		}
		dominant[topic] = best
	}
	return dominant
}
