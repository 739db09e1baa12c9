// Package rosterly reconciles two independently-sourced tabular records
// of people, such as a sales roster and a hotel-system export, that
// describe the same real-world stays but differ in schema, formatting
// and data quality.
//
// The engine is a pure, stateless transformation: two raw tables plus
// their column mappings go in, a classified reconciliation report comes
// out. Nothing is shared between invocations, so callers may run any
// number of reconciliations concurrently.
package rosterly

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rosterly/rosterly/pkg/diff"
	"github.com/rosterly/rosterly/pkg/errors"
	"github.com/rosterly/rosterly/pkg/logging"
	"github.com/rosterly/rosterly/pkg/match"
	"github.com/rosterly/rosterly/pkg/report"
	"github.com/rosterly/rosterly/pkg/roster"
	"github.com/rosterly/rosterly/pkg/standardize"
)

// Reconcile runs the full pipeline: standardize both tables, match the
// resulting records, diff every matched pair, and classify the outcome
// into the four report buckets.
//
// Configuration problems (a mapping missing a required column, a bad
// match mode or threshold) are fatal and reported before any row is
// processed. Per-cell parse failures are not: the offending value
// becomes null, rows losing a required field are dropped, and every
// drop is tallied in the report's parse-error counts.
//
// If ctx is canceled during a fuzzy match pass the committed pairs are
// kept, the report is marked Incomplete, and the returned error wraps
// both errors.ErrIncomplete and the context's error.
func Reconcile(ctx context.Context, left, right roster.Table, leftMap, rightMap roster.FieldMapping, opts ...Option) (*report.Report, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := leftMap.Validate(sourceLabel(left, roster.Left)); err != nil {
		return nil, err
	}
	if err := rightMap.Validate(sourceLabel(right, roster.Right)); err != nil {
		return nil, err
	}
	if err := match.Validate(cfg.mode, cfg.threshold); err != nil {
		return nil, err
	}

	runID := uuid.New()
	if cfg.logger != nil {
		ctx = logging.WithLogger(ctx, cfg.logger)
	}
	ctx = logging.WithRun(ctx, runID.String())
	log := logging.FromContext(ctx)
	started := time.Now()

	std := standardize.New(cfg.equivalences, cfg.defaultYear)

	leftRecords, leftDropped := roster.BuildRecords(left, leftMap, std, roster.Left, cfg.caseInsensitiveNames)
	rightRecords, rightDropped := roster.BuildRecords(right, rightMap, std, roster.Right, cfg.caseInsensitiveNames)
	logging.FromContext(logging.WithStage(ctx, "standardize")).Debug().
		Int("left_records", len(leftRecords)).
		Int("right_records", len(rightRecords)).
		Int("left_dropped", leftDropped).
		Int("right_dropped", rightDropped).
		Msg("standardized records built")

	pairs, matchErr := match.Match(logging.WithStage(ctx, "match"), leftRecords, rightRecords, cfg.mode, cfg.threshold)
	if matchErr != nil && !errors.IsIncomplete(matchErr) {
		return nil, matchErr
	}

	engine := diff.NewEngine(cfg.compareFields, leftMap, rightMap)
	rep := report.Classify(pairs, engine)
	rep.RunID = runID
	rep.LeftParseErrors = leftDropped
	rep.RightParseErrors = rightDropped
	rep.Incomplete = matchErr != nil
	rep.Metadata = report.Metadata{
		LeftSource:  left.Name,
		RightSource: right.Name,
		Mode:        cfg.mode,
		Threshold:   cfg.threshold,
		StartTime:   started,
		EndTime:     time.Now(),
	}
	rep.Metadata.Duration = rep.Metadata.EndTime.Sub(started)

	summary := rep.Summary()
	log.Debug().
		Str("run_id", rep.RunID.String()).
		Int("matched_identical", summary.MatchedIdentical).
		Int("matched_with_diffs", summary.MatchedWithDiffs).
		Int("left_only", summary.LeftOnly).
		Int("right_only", summary.RightOnly).
		Bool("incomplete", rep.Incomplete).
		Msg("reconciliation classified")

	return rep, matchErr
}

// sourceLabel names a source for error messages, preferring the table
// name the caller supplied.
func sourceLabel(t roster.Table, side roster.Side) string {
	if t.Name != "" {
		return t.Name
	}
	return side.String()
}
