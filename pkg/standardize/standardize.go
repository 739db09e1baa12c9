// Package standardize converts raw mapped cells into typed record
// fields. Every standardizer is a pure per-cell function: unparseable
// input becomes nil rather than an error, so one bad cell never aborts
// a run.
package standardize

import (
	"regexp"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"

	"github.com/rosterly/rosterly/pkg/normalize"
)

// Equivalences declares room-type synonym groups: canonical label to
// the source-specific spellings that should collapse into it.
type Equivalences map[string][]string

// Standardizer converts raw cell values into typed fields.
type Standardizer struct {
	// DefaultYear is assumed for dates written as "month/day" with no year.
	DefaultYear int

	// roomTypes maps normalized synonym to canonical label.
	roomTypes map[string]string
}

// New creates a Standardizer. The equivalence map is inverted once so
// room-type lookup is O(1) per cell.
func New(equiv Equivalences, defaultYear int) *Standardizer {
	if defaultYear == 0 {
		defaultYear = time.Now().Year()
	}

	inverted := make(map[string]string)
	for canonical, synonyms := range equiv {
		for _, syn := range synonyms {
			inverted[normalize.Normalize(syn)] = canonical
		}
		// A canonical label maps to itself.
		inverted[normalize.Normalize(canonical)] = canonical
	}

	return &Standardizer{
		DefaultYear: defaultYear,
		roomTypes:   inverted,
	}
}

// partialDate matches "month/day" or "month-day" with an optional
// time of day but no year.
var partialDate = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})(?:\s+\d{1,2}:\d{2}(?::\d{2})?)?$`)

// Date parses a raw date cell into an ISO YYYY-MM-DD string. Parsing is
// layered: a yearless month/day form is completed with DefaultYear
// first, then anything else goes through a flexible general parse.
// Time of day is discarded. Unparseable input yields nil.
//
// The partial form must be checked before the general parse: dateparse
// accepts yearless input and fills in year zero instead of erroring.
// Year-zero results from the general parse are rejected for the same
// reason.
func (s *Standardizer) Date(raw string) *string {
	trimmed := normalize.Clean(raw)
	if trimmed == "" {
		return nil
	}

	if m := partialDate.FindStringSubmatch(trimmed); m != nil {
		month, day := atoi(m[1]), atoi(m[2])
		if month >= 1 && month <= 12 && day >= 1 && day <= daysIn(s.DefaultYear, month) {
			iso := time.Date(s.DefaultYear, time.Month(month), day, 0, 0, 0, 0, time.UTC).
				Format("2006-01-02")
			return &iso
		}
		return nil
	}

	t, err := dateparse.ParseAny(trimmed)
	if err != nil || t.Year() == 0 {
		return nil
	}
	iso := t.Format("2006-01-02")
	return &iso
}

// Price parses a raw price cell as a signed decimal number.
// Unparseable input yields nil.
func (s *Standardizer) Price(raw string) *decimal.Decimal {
	trimmed := normalize.Normalize(raw)
	if trimmed == "" {
		return nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil
	}
	return &d
}

// RoomType normalizes a raw room-type cell and replaces it with its
// canonical label when the equivalence map knows it. Unknown values
// are kept normalized as-is.
func (s *Standardizer) RoomType(raw string) *string {
	cleaned := normalize.Normalize(raw)
	if cleaned == "" {
		return nil
	}
	if canonical, ok := s.roomTypes[cleaned]; ok {
		return &canonical
	}
	return &cleaned
}

// trailingZero matches integer-like values with the ".0" suffix that
// spreadsheet exports append to numeric cells.
var trailingZero = regexp.MustCompile(`^(\d+)\.0$`)

// RoomNumber normalizes a raw room-number cell and strips the trailing
// ".0" artifact from numeric-looking values.
func (s *Standardizer) RoomNumber(raw string) *string {
	cleaned := normalize.Normalize(raw)
	if cleaned == "" {
		return nil
	}
	if m := trailingZero.FindStringSubmatch(cleaned); m != nil {
		cleaned = m[1]
	}
	return &cleaned
}

// atoi converts a digits-only string already vetted by a regexp.
func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// daysIn returns the number of days in a month.
func daysIn(year int, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
