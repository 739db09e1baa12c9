// Package normalize canonicalizes text before records are compared.
// It unifies full-width/half-width and compatibility characters, strips
// invisible characters that leak out of spreadsheet exports, and
// optionally case-folds names for case-insensitive matching.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes arbitrary cell text. It applies Unicode NFKC
// normalization, then removes zero-width characters, byte-order marks,
// control characters, and every whitespace class including non-breaking
// spaces. The result is idempotent: Normalize(Normalize(s)) == Normalize(s).
//
// Normalize never fails; if the normalization step cannot process the
// input, the original string is returned unchanged.
func Normalize(s string) string {
	out := nfkc(s)
	return strings.Map(func(r rune) rune {
		if stripped(r) {
			return -1
		}
		return r
	}, out)
}

// Clean normalizes like Normalize but keeps word boundaries: interior
// whitespace runs collapse to a single space instead of being removed.
// Used for values whose parsing is whitespace-sensitive, such as dates
// with a time-of-day part.
func Clean(s string) string {
	out := nfkc(s)
	out = strings.Map(func(r rune) rune {
		if invisible(r) {
			return -1
		}
		return r
	}, out)
	return strings.Join(strings.Fields(out), " ")
}

// Fold case-folds already-normalized text for case-insensitive comparison.
// It is applied to name fields only, never to room types or other values.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// nfkc applies canonical-compatibility normalization, falling back to the
// input on any failure so normalization can never abort a run.
func nfkc(s string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = s
		}
	}()
	return norm.NFKC.String(s)
}

// stripped reports whether a rune is removed during normalization.
func stripped(r rune) bool {
	return invisible(r) || unicode.IsSpace(r)
}

// invisible reports whether a rune carries no visible content at all:
// zero-width characters, byte-order marks and control characters.
func invisible(r rune) bool {
	switch r {
	case '\u200b', // zero-width space
		'\u200c', // zero-width non-joiner
		'\u200d', // zero-width joiner
		'\u2060', // word joiner
		'\ufeff': // byte-order mark
		return true
	}
	return unicode.IsControl(r) && !unicode.IsSpace(r)
}
