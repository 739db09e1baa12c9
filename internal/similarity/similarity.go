// Package similarity scores how alike two strings are on a 0-100 scale.
package similarity

import (
	"github.com/agnivade/levenshtein"
)

// Ratio returns a normalized edit-distance similarity between a and b:
// 100 means identical, 0 means nothing in common. The score is
// rune-aware, so CJK names compare by character rather than by byte.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	longest := runeLen(a)
	if l := runeLen(b); l > longest {
		longest = l
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return (longest - dist) * 100 / longest
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
