//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vec

import (
	"github.com/e-gun/TopicMapServer/internal/gen"
)

//
// STOPWORDS
//

var (
	// English150 - function words that would otherwise dominate every topic
	English150 = []string{"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and", "any",
		"are", "aren", "as", "at", "be", "because", "been", "before", "being", "below", "between", "both", "but", "by",
		"can", "cannot", "could", "couldn", "did", "didn", "do", "does", "doesn", "doing", "don", "down", "during",
		"each", "even", "ever", "every", "few", "for", "from", "further", "get", "got", "had", "hadn", "has", "hasn",
		"have", "haven", "having", "he", "her", "here", "hers", "herself", "him", "himself", "his", "how", "i", "if",
		"in", "into", "is", "isn", "it", "its", "itself", "just", "let", "ll", "me", "might", "more", "most", "much",
		"must", "my", "myself", "no", "nor", "not", "now", "of", "off", "on", "once", "only", "or", "other", "ought",
		"our", "ours", "ourselves", "out", "over", "own", "re", "really", "same", "shall", "she", "should", "shouldn",
		"so", "some", "such", "than", "that", "the", "their", "theirs", "them", "themselves", "then", "there", "these",
		"they", "this", "those", "through", "to", "too", "under", "until", "up", "us", "ve", "very", "was", "wasn",
		"we", "were", "weren", "what", "when", "where", "which", "while", "who", "whom", "why", "will", "with", "won",
		"would", "wouldn", "you", "your", "yours", "yourself", "yourselves"}
	// EnglishExtra - chatter that survives the list above
	EnglishExtra = []string{"im", "ive", "id", "dont", "didnt", "cant", "wont", "yeah", "ok", "okay", "oh", "like",
		"thing", "things", "lot", "still", "back", "way", "one", "two", "said", "says", "say"}
	// EnglishKeep - members of the lists above that we will not toss
	EnglishKeep = []string{"against", "over"}
	EnglishStop = append(append([]string{}, English150...), EnglishExtra...)
)

var stopset = getenglishstops()

func getenglishstops() map[string]struct{} {
	return gen.ToSet(gen.SetSubtraction(EnglishStop, EnglishKeep))
}

// EnglishStops - the effective stop list, sorted
func EnglishStops() []string {
	return gen.StringMapKeysIntoSlice(stopset)
}

// IsStop - is this (already lowercased) word on the stop list?
func IsStop(w string) bool {
	_, ok := stopset[w]
	return ok
}
