package report_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterly/rosterly/pkg/diff"
	"github.com/rosterly/rosterly/pkg/match"
	"github.com/rosterly/rosterly/pkg/report"
	"github.com/rosterly/rosterly/pkg/roster"
)

var mapping = roster.FieldMapping{
	Name:      "name",
	StartDate: "start",
	EndDate:   "end",
}

func ptr(s string) *string { return &s }

func rec(name string, start, end string) *roster.Record {
	return &roster.Record{
		CanonicalName: name,
		StartDate:     ptr(start),
		EndDate:       ptr(end),
	}
}

func TestClassify(t *testing.T) {
	engine := diff.NewEngine(roster.CompareFields(), mapping, mapping)

	pairs := []match.Pair{
		{Left: rec("张三", "2024-01-01", "2024-01-03"), Right: rec("张三", "2024-01-01", "2024-01-03")},
		{Left: rec("李四", "2024-01-01", "2024-01-03"), Right: rec("李四", "2024-01-01", "2024-01-05")},
		{Left: rec("王五", "2024-01-01", "2024-01-02")},
		{Right: rec("赵六", "2024-01-01", "2024-01-02")},
	}

	r := report.Classify(pairs, engine)

	require.Len(t, r.MatchedIdentical, 1)
	assert.Equal(t, "张三", r.MatchedIdentical[0].Left.CanonicalName)

	require.Len(t, r.MatchedWithDiffs, 1)
	assert.Equal(t, "李四", r.MatchedWithDiffs[0].Pair.Left.CanonicalName)
	assert.Equal(t, []roster.Field{roster.FieldEndDate}, r.MatchedWithDiffs[0].Diff.Fields())

	require.Len(t, r.LeftOnly, 1)
	assert.Equal(t, "王五", r.LeftOnly[0].CanonicalName)
	require.Len(t, r.RightOnly, 1)
	assert.Equal(t, "赵六", r.RightOnly[0].CanonicalName)

	assert.NotEqual(t, uuid.Nil, r.RunID)
}

func TestClassifyPartitionCounts(t *testing.T) {
	engine := diff.NewEngine(roster.CompareFields(), mapping, mapping)

	pairs := []match.Pair{
		{Left: rec("a", "2024-01-01", "2024-01-02"), Right: rec("a", "2024-01-01", "2024-01-02")},
		{Left: rec("b", "2024-01-01", "2024-01-02"), Right: rec("b", "2024-02-01", "2024-02-02")},
		{Left: rec("c", "2024-01-01", "2024-01-02")},
	}

	r := report.Classify(pairs, engine)
	s := r.Summary()

	total := s.MatchedIdentical + s.MatchedWithDiffs + s.LeftOnly + s.RightOnly
	assert.Equal(t, len(pairs), total)
	assert.Equal(t, 1, s.MatchedIdentical)
	assert.Equal(t, 1, s.MatchedWithDiffs)
	assert.Equal(t, 1, s.LeftOnly)
	assert.Equal(t, 0, s.RightOnly)
}

func TestClassifyEmpty(t *testing.T) {
	engine := diff.NewEngine(roster.CompareFields(), mapping, mapping)
	r := report.Classify(nil, engine)

	assert.Empty(t, r.MatchedIdentical)
	assert.Empty(t, r.MatchedWithDiffs)
	assert.Empty(t, r.LeftOnly)
	assert.Empty(t, r.RightOnly)
}
