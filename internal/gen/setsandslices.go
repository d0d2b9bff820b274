//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package gen

import (
	"golang.org/x/exp/slices"
)

//
// SETS AND SLICES
//

// ToSet - returns a blank map of a slice
func ToSet[T comparable](sl []T) map[T]struct{} {
	m := make(map[T]struct{}, len(sl))
	for i := 0; i < len(sl); i++ {
		m[sl[i]] = struct{}{}
	}
	return m
}

// SetSubtraction - aa minus anything in bb; order of aa preserved
func SetSubtraction[T comparable](aa []T, bb []T) []T {
	// 	aa := []string{"a", "b", "c", "d", "g", "h"}
	//	bb := []string{"a", "b", "e", "f", "g"}
	//	dd := SetSubtraction(aa, bb)
	//  [c d h]
	drop := ToSet(bb)
	out := make([]T, 0, len(aa))
	for _, a := range aa {
		if _, ok := drop[a]; !ok {
			out = append(out, a)
		}
	}
	return out
}

// StringMapKeysIntoSlice - sorted keys of a map[string]T
func StringMapKeysIntoSlice[T any](mp map[string]T) []string {
	sl := make([]string, 0, len(mp))
	for k := range mp {
		sl = append(sl, k)
	}
	slices.Sort(sl)
	return sl
}

// FirstN - the first n items of a slice, or all of it if it is shorter
func FirstN[T any](sl []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(sl) < n {
		n = len(sl)
	}
	return sl[:n]
}
