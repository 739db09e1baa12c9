// Package report classifies match pairs into the four reconciliation
// buckets and assembles the final report returned to the caller.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/rosterly/rosterly/pkg/diff"
	"github.com/rosterly/rosterly/pkg/match"
	"github.com/rosterly/rosterly/pkg/roster"
)

// MatchDiff couples a matched pair with its field differences.
type MatchDiff struct {
	Pair match.Pair
	Diff diff.Result
}

// Report is the immutable outcome of one reconciliation run. The four
// buckets partition every standardized record from both sources:
// each record appears in exactly one of them.
type Report struct {
	// RunID uniquely identifies this run.
	RunID uuid.UUID

	// MatchedIdentical holds pairs whose compared fields all agree.
	MatchedIdentical []match.Pair

	// MatchedWithDiffs holds pairs with at least one differing field.
	MatchedWithDiffs []MatchDiff

	// LeftOnly holds records with no counterpart in the right source.
	LeftOnly []roster.Record

	// RightOnly holds records with no counterpart in the left source.
	RightOnly []roster.Record

	// LeftParseErrors and RightParseErrors count the rows dropped per
	// source because a required field failed to standardize.
	LeftParseErrors  int
	RightParseErrors int

	// Incomplete marks a run aborted during fuzzy matching; committed
	// pairs are still valid but later candidates were never scored.
	Incomplete bool

	// Metadata about the run.
	Metadata Metadata
}

// Metadata describes how and when a report was produced.
type Metadata struct {
	LeftSource  string
	RightSource string
	Mode        match.Mode
	Threshold   int
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}

// Summary holds the per-bucket counts surfaced to callers.
type Summary struct {
	MatchedIdentical int `json:"matched_identical" yaml:"matched_identical"`
	MatchedWithDiffs int `json:"matched_with_diffs" yaml:"matched_with_diffs"`
	LeftOnly         int `json:"left_only" yaml:"left_only"`
	RightOnly        int `json:"right_only" yaml:"right_only"`
	LeftParseErrors  int `json:"left_parse_errors" yaml:"left_parse_errors"`
	RightParseErrors int `json:"right_parse_errors" yaml:"right_parse_errors"`
}

// Summary returns the bucket and parse-error counts.
func (r *Report) Summary() Summary {
	return Summary{
		MatchedIdentical: len(r.MatchedIdentical),
		MatchedWithDiffs: len(r.MatchedWithDiffs),
		LeftOnly:         len(r.LeftOnly),
		RightOnly:        len(r.RightOnly),
		LeftParseErrors:  r.LeftParseErrors,
		RightParseErrors: r.RightParseErrors,
	}
}

// Differ computes the field differences for one matched pair.
type Differ interface {
	Diff(p match.Pair) diff.Result
}

// Classify partitions pairs into the four report buckets. Matched pairs
// are diffed: an empty result files them under MatchedIdentical,
// anything else under MatchedWithDiffs. Single-source pairs go to
// LeftOnly or RightOnly. No pair is dropped.
func Classify(pairs []match.Pair, differ Differ) *Report {
	r := &Report{
		RunID:            uuid.New(),
		MatchedIdentical: []match.Pair{},
		MatchedWithDiffs: []MatchDiff{},
		LeftOnly:         []roster.Record{},
		RightOnly:        []roster.Record{},
	}

	for _, p := range pairs {
		switch {
		case p.Matched():
			result := differ.Diff(p)
			if result.Identical() {
				r.MatchedIdentical = append(r.MatchedIdentical, p)
			} else {
				r.MatchedWithDiffs = append(r.MatchedWithDiffs, MatchDiff{Pair: p, Diff: result})
			}
		case p.LeftOnly():
			r.LeftOnly = append(r.LeftOnly, *p.Left)
		case p.RightOnly():
			r.RightOnly = append(r.RightOnly, *p.Right)
		}
	}

	return r
}
