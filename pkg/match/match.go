// Package match pairs standardized records between the two sources,
// either by exact canonical-name equality or by approximate string
// similarity with greedy one-to-one assignment.
package match

import (
	"context"
	"fmt"

	"github.com/rosterly/rosterly/internal/similarity"
	"github.com/rosterly/rosterly/pkg/errors"
	"github.com/rosterly/rosterly/pkg/roster"
)

// Mode selects the matching strategy.
type Mode string

const (
	// ModeExact requires byte-for-byte canonical-name equality.
	ModeExact Mode = "exact"
	// ModeFuzzy accepts the best similarity-scored candidate at or
	// above a threshold.
	ModeFuzzy Mode = "fuzzy"
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeExact, ModeFuzzy:
		return Mode(s), nil
	}
	return "", errors.NewConfigError("matcher", fmt.Sprintf("unsupported match mode %q", s), nil)
}

// Pair is the outcome of matching one record. Both sides present means
// a matched pair; exactly one side present means the record has no
// counterpart in the other source.
type Pair struct {
	Left  *roster.Record
	Right *roster.Record
}

// Matched reports whether both sides are present.
func (p Pair) Matched() bool { return p.Left != nil && p.Right != nil }

// LeftOnly reports whether only the left side is present.
func (p Pair) LeftOnly() bool { return p.Left != nil && p.Right == nil }

// RightOnly reports whether only the right side is present.
func (p Pair) RightOnly() bool { return p.Left == nil && p.Right != nil }

// Validate checks the matcher configuration before any matching begins.
// A bad mode or, in fuzzy mode, a threshold outside [0,100] is a fatal
// configuration error.
func Validate(mode Mode, threshold int) error {
	if mode != ModeExact && mode != ModeFuzzy {
		return errors.NewConfigError("matcher", fmt.Sprintf("unsupported match mode %q", mode), nil)
	}
	if mode == ModeFuzzy && (threshold < 0 || threshold > 100) {
		return errors.NewConfigError("matcher",
			fmt.Sprintf("similarity threshold %d is outside [0,100]", threshold), nil)
	}
	return nil
}

// Match pairs the two record sets. Every input record appears in
// exactly one returned Pair.
//
// In fuzzy mode the context is checked once per outer-loop iteration;
// on cancellation the pairs committed so far stay valid, every record
// not yet consumed is flushed as a single-source pair, and the error
// wraps both errors.ErrIncomplete and the context's error.
func Match(ctx context.Context, left, right []roster.Record, mode Mode, threshold int) ([]Pair, error) {
	if err := Validate(mode, threshold); err != nil {
		return nil, err
	}

	if mode == ModeExact {
		return exact(left, right), nil
	}
	return fuzzy(ctx, left, right, threshold)
}

// group collects the records sharing one canonical name, in encounter
// order.
type group struct {
	name    string
	records []*roster.Record

	// consumed marks a group already paired with the other side.
	consumed bool
}

// groupRecords buckets records by canonical name, preserving first-
// encounter order of names and row order within each name.
func groupRecords(records []roster.Record) ([]*group, map[string]*group) {
	ordered := make([]*group, 0, len(records))
	index := make(map[string]*group, len(records))

	for i := range records {
		r := &records[i]
		g, ok := index[r.CanonicalName]
		if !ok {
			g = &group{name: r.CanonicalName}
			index[r.CanonicalName] = g
			ordered = append(ordered, g)
		}
		g.records = append(g.records, r)
	}

	return ordered, index
}

// pairGroups order-pairs a left group with a right group: first-left
// with first-right and so on, surplus records beyond the smaller count
// becoming single-source pairs. Either group may be nil. Duplicate
// same-name rows are not distinguishable, so surplus is surfaced
// rather than silently dropped.
func pairGroups(l, r *group) []Pair {
	var ln, rn int
	if l != nil {
		ln = len(l.records)
	}
	if r != nil {
		rn = len(r.records)
	}

	n := ln
	if rn < n {
		n = rn
	}

	pairs := make([]Pair, 0, ln+rn-n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, Pair{Left: l.records[i], Right: r.records[i]})
	}
	for i := n; i < ln; i++ {
		pairs = append(pairs, Pair{Left: l.records[i]})
	}
	for i := n; i < rn; i++ {
		pairs = append(pairs, Pair{Right: r.records[i]})
	}
	return pairs
}

// exact pairs records by canonical-name equality. Matched names are
// emitted in left-encounter order, then right-only names in right-
// encounter order, so the result is reproducible for identical inputs.
func exact(left, right []roster.Record) []Pair {
	leftGroups, _ := groupRecords(left)
	rightGroups, rightIndex := groupRecords(right)

	var pairs []Pair
	for _, lg := range leftGroups {
		rg := rightIndex[lg.name]
		if rg != nil {
			rg.consumed = true
		}
		pairs = append(pairs, pairGroups(lg, rg)...)
	}
	for _, rg := range rightGroups {
		if !rg.consumed {
			pairs = append(pairs, pairGroups(nil, rg)...)
		}
	}
	return pairs
}

// fuzzy greedily assigns unique names one-to-one. The shorter of the
// two unique-name lists drives iteration (ties go to the left list);
// each driver name consumes its best-scoring candidate when the score
// meets the threshold. This is a greedy approximation, not a global
// optimum: results can differ depending on which side drives.
func fuzzy(ctx context.Context, left, right []roster.Record, threshold int) ([]Pair, error) {
	leftGroups, _ := groupRecords(left)
	rightGroups, _ := groupRecords(right)

	driver, other := leftGroups, rightGroups
	swapped := false
	if len(rightGroups) < len(leftGroups) {
		driver, other = rightGroups, leftGroups
		swapped = true
	}

	matches := make(map[*group]*group, len(driver))
	var canceled error
	for _, dg := range driver {
		if err := ctx.Err(); err != nil {
			canceled = err
			break
		}

		best := -1
		bestScore := -1
		for j, cand := range other {
			if cand.consumed {
				continue
			}
			// First-seen wins ties, keeping results stable for
			// identical inputs.
			if score := similarity.Ratio(dg.name, cand.name); score > bestScore {
				bestScore = score
				best = j
			}
		}

		if best >= 0 && bestScore >= threshold {
			other[best].consumed = true
			dg.consumed = true
			matches[dg] = other[best]
		}
	}

	var pairs []Pair
	for _, dg := range driver {
		mg := matches[dg]
		l, r := dg, mg
		if swapped {
			l, r = mg, dg
		}
		pairs = append(pairs, pairGroups(l, r)...)
	}
	for _, og := range other {
		if og.consumed {
			continue
		}
		l, r := (*group)(nil), og
		if swapped {
			l, r = og, nil
		}
		pairs = append(pairs, pairGroups(l, r)...)
	}

	if canceled != nil {
		return pairs, fmt.Errorf("fuzzy matching aborted: %w: %w", errors.ErrIncomplete, canceled)
	}
	return pairs, nil
}
