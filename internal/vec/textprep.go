//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vec

import (
	"github.com/e-gun/TopicMapServer/internal/gen"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	urlpattern    = regexp.MustCompile(`(https?://|www\.)\S+`)
	nonletterpatt = regexp.MustCompile(`[^\p{L}\s]+`)
)

// Prep - turn a line of user input into the bag of words the vectoriser sees
func Prep(text string) string {
	// "My MOTHER's café!! https://x.y" ==> "mother cafe"
	lc := strings.ToLower(text)
	lc = urlpattern.ReplaceAllString(lc, " ")
	lc = gen.StripaccentsSTR(lc)
	lc = nonletterpatt.ReplaceAllString(lc, " ")

	words := strings.Fields(lc)
	kept := words[:0]
	for _, w := range words {
		if utf8.RuneCountInString(w) < 2 || IsStop(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// PrepAll - Prep every text; also report how many came out non-empty
func PrepAll(texts []string) ([]string, int) {
	corpus := make([]string, len(texts))
	nonempty := 0
	for i, t := range texts {
		corpus[i] = Prep(t)
		if corpus[i] != "" {
			nonempty++
		}
	}
	return corpus, nonempty
}
