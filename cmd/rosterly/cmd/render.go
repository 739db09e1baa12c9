package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"

	"github.com/rosterly/rosterly/pkg/errors"
	"github.com/rosterly/rosterly/pkg/report"
	"github.com/rosterly/rosterly/pkg/roster"
)

// render writes a report to w in the requested format.
func render(w io.Writer, rep *report.Report, format string) error {
	switch strings.ToLower(format) {
	case "table", "":
		return renderTable(w, rep)
	case "json":
		return renderJSON(w, rep)
	case "yaml":
		return renderYAML(w, rep)
	default:
		return errors.NewValidationError("format", format, "must be one of: table, json, yaml")
	}
}

// View types flatten the report for serialization. Records carry decimal
// prices and typed fields internally; the rendered form is all strings.

type reportView struct {
	RunID            string         `json:"run_id" yaml:"run_id"`
	Summary          report.Summary `json:"summary" yaml:"summary"`
	MatchedIdentical []pairView     `json:"matched_identical" yaml:"matched_identical"`
	MatchedWithDiffs []diffView     `json:"matched_with_diffs" yaml:"matched_with_diffs"`
	LeftOnly         []recordView   `json:"left_only" yaml:"left_only"`
	RightOnly        []recordView   `json:"right_only" yaml:"right_only"`
	Incomplete       bool           `json:"incomplete" yaml:"incomplete"`
	Metadata         metadataView   `json:"metadata" yaml:"metadata"`
}

type recordView struct {
	Name       string  `json:"name" yaml:"name"`
	Source     string  `json:"source" yaml:"source"`
	StartDate  *string `json:"start_date" yaml:"start_date"`
	EndDate    *string `json:"end_date" yaml:"end_date"`
	RoomType   *string `json:"room_type,omitempty" yaml:"room_type,omitempty"`
	RoomNumber *string `json:"room_number,omitempty" yaml:"room_number,omitempty"`
	Price      *string `json:"price,omitempty" yaml:"price,omitempty"`
}

type pairView struct {
	Left  recordView `json:"left" yaml:"left"`
	Right recordView `json:"right" yaml:"right"`
}

type changeView struct {
	Field string  `json:"field" yaml:"field"`
	Left  *string `json:"left" yaml:"left"`
	Right *string `json:"right" yaml:"right"`
}

type diffView struct {
	Left    recordView   `json:"left" yaml:"left"`
	Right   recordView   `json:"right" yaml:"right"`
	Changes []changeView `json:"changes" yaml:"changes"`
}

type metadataView struct {
	LeftSource  string `json:"left_source" yaml:"left_source"`
	RightSource string `json:"right_source" yaml:"right_source"`
	Mode        string `json:"mode" yaml:"mode"`
	Threshold   int    `json:"threshold" yaml:"threshold"`
	Duration    string `json:"duration" yaml:"duration"`
}

func newReportView(rep *report.Report) reportView {
	v := reportView{
		RunID:            rep.RunID.String(),
		Summary:          rep.Summary(),
		MatchedIdentical: make([]pairView, 0, len(rep.MatchedIdentical)),
		MatchedWithDiffs: make([]diffView, 0, len(rep.MatchedWithDiffs)),
		LeftOnly:         make([]recordView, 0, len(rep.LeftOnly)),
		RightOnly:        make([]recordView, 0, len(rep.RightOnly)),
		Incomplete:       rep.Incomplete,
		Metadata: metadataView{
			LeftSource:  rep.Metadata.LeftSource,
			RightSource: rep.Metadata.RightSource,
			Mode:        string(rep.Metadata.Mode),
			Threshold:   rep.Metadata.Threshold,
			Duration:    rep.Metadata.Duration.String(),
		},
	}

	for _, p := range rep.MatchedIdentical {
		v.MatchedIdentical = append(v.MatchedIdentical, pairView{
			Left:  newRecordView(*p.Left),
			Right: newRecordView(*p.Right),
		})
	}
	for _, md := range rep.MatchedWithDiffs {
		dv := diffView{
			Left:    newRecordView(*md.Pair.Left),
			Right:   newRecordView(*md.Pair.Right),
			Changes: make([]changeView, 0, len(md.Diff)),
		}
		for _, c := range md.Diff {
			dv.Changes = append(dv.Changes, changeView{
				Field: string(c.Field),
				Left:  c.Left,
				Right: c.Right,
			})
		}
		v.MatchedWithDiffs = append(v.MatchedWithDiffs, dv)
	}
	for _, r := range rep.LeftOnly {
		v.LeftOnly = append(v.LeftOnly, newRecordView(r))
	}
	for _, r := range rep.RightOnly {
		v.RightOnly = append(v.RightOnly, newRecordView(r))
	}
	return v
}

func newRecordView(r roster.Record) recordView {
	v := recordView{
		Name:       r.OriginalName,
		Source:     r.Source,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		RoomType:   r.RoomType,
		RoomNumber: r.RoomNumber,
	}
	if r.Price != nil {
		s := r.Price.String()
		v.Price = &s
	}
	return v
}

func renderJSON(w io.Writer, rep *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newReportView(rep))
}

func renderYAML(w io.Writer, rep *report.Report) error {
	data, err := yaml.MarshalWithOptions(newReportView(rep),
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func renderTable(w io.Writer, rep *report.Report) error {
	sum := rep.Summary()
	fmt.Fprintf(w, "Run %s  (%s vs %s, mode=%s)\n",
		rep.RunID, rep.Metadata.LeftSource, rep.Metadata.RightSource, rep.Metadata.Mode)
	fmt.Fprintf(w, "matched identical: %d   matched with diffs: %d   %s only: %d   %s only: %d\n",
		sum.MatchedIdentical, sum.MatchedWithDiffs,
		rep.Metadata.LeftSource, sum.LeftOnly,
		rep.Metadata.RightSource, sum.RightOnly)
	if sum.LeftParseErrors > 0 || sum.RightParseErrors > 0 {
		fmt.Fprintf(w, "rows dropped for unparseable dates: %s=%d %s=%d\n",
			rep.Metadata.LeftSource, sum.LeftParseErrors,
			rep.Metadata.RightSource, sum.RightParseErrors)
	}
	if rep.Incomplete {
		fmt.Fprintln(w, "WARNING: run was interrupted, results are partial")
	}
	fmt.Fprintln(w)

	if len(rep.MatchedWithDiffs) > 0 {
		fmt.Fprintln(w, "Matched with differences:")
		table := tablewriter.NewTable(w)
		table.Header("Name", "Field", rep.Metadata.LeftSource, rep.Metadata.RightSource)
		for _, md := range rep.MatchedWithDiffs {
			for _, c := range md.Diff {
				if err := table.Append(
					md.Pair.Left.OriginalName,
					string(c.Field),
					deref(c.Left),
					deref(c.Right),
				); err != nil {
					return err
				}
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if err := renderSingles(w, rep.Metadata.LeftSource+" only:", rep.LeftOnly); err != nil {
		return err
	}
	return renderSingles(w, rep.Metadata.RightSource+" only:", rep.RightOnly)
}

func renderSingles(w io.Writer, title string, records []roster.Record) error {
	if len(records) == 0 {
		return nil
	}
	fmt.Fprintln(w, title)
	table := tablewriter.NewTable(w)
	table.Header("Name", "Start", "End", "Room Type", "Room", "Price")
	for _, r := range records {
		price := ""
		if r.Price != nil {
			price = r.Price.String()
		}
		if err := table.Append(
			r.OriginalName,
			deref(r.StartDate),
			deref(r.EndDate),
			deref(r.RoomType),
			deref(r.RoomNumber),
			price,
		); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
