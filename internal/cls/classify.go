//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package cls

import (
	"github.com/e-gun/TopicMapServer/internal/str"
	"strings"
)

// Rule - if any keyword is a substring of the lowercased text, the text gets Cat
type Rule struct {
	Keywords []string
	Cat      str.Category
}

// the order matters: first match wins; "mother" beats "friend", "angry" beats "anger", etc.
var rules = []Rule{
	{[]string{"mother", "father", "sister", "brother"}, str.CatFamily},
	{[]string{"boyfriend", "girlfriend", "couple"}, str.CatRelationship},
	{[]string{"angry", "argument"}, str.CatFriendConflict},
	{[]string{"fight", "punch", "friend", "hurt"}, str.CatFriendFight},
	{[]string{"betrayed", "anger"}, str.CatFriendBetrayal},
	{[]string{"exam", "work"}, str.CatWork},
}

// Classify - assign exactly one category to a description; total and pure
func Classify(description string) str.Category {
	lc := strings.ToLower(description)
	for _, r := range rules {
		for _, k := range r.Keywords {
			if strings.Contains(lc, k) {
				return r.Cat
			}
		}
	}
	return str.CatOther
}

// ClassifyAll - Classify every description, preserving order
func ClassifyAll(descriptions []string) []str.Category {
	cc := make([]str.Category, len(descriptions))
	for i, d := range descriptions {
		cc[i] = Classify(d)
	}
	return cc
}

// Rules - a copy of the rule table in evaluation order
func Rules() []Rule {
	rr := make([]Rule, len(rules))
	for i, r := range rules {
		kk := make([]string, len(r.Keywords))
		copy(kk, r.Keywords)
		rr[i] = Rule{Keywords: kk, Cat: r.Cat}
	}
	return rr
}
