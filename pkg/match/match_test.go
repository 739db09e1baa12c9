package match_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rosterrors "github.com/rosterly/rosterly/pkg/errors"
	"github.com/rosterly/rosterly/pkg/match"
	"github.com/rosterly/rosterly/pkg/roster"
)

func records(side roster.Side, names ...string) []roster.Record {
	out := make([]roster.Record, 0, len(names))
	for _, n := range names {
		out = append(out, roster.Record{
			CanonicalName: n,
			OriginalName:  n,
			Side:          side,
		})
	}
	return out
}

func counts(pairs []match.Pair) (matched, leftOnly, rightOnly int) {
	for _, p := range pairs {
		switch {
		case p.Matched():
			matched++
		case p.LeftOnly():
			leftOnly++
		default:
			rightOnly++
		}
	}
	return
}

func TestValidate(t *testing.T) {
	assert.NoError(t, match.Validate(match.ModeExact, 0))
	assert.NoError(t, match.Validate(match.ModeFuzzy, 85))
	assert.NoError(t, match.Validate(match.ModeFuzzy, 0))
	assert.NoError(t, match.Validate(match.ModeFuzzy, 100))

	assert.True(t, rosterrors.IsConfigError(match.Validate(match.Mode("soundex"), 50)))
	assert.True(t, rosterrors.IsConfigError(match.Validate(match.ModeFuzzy, -1)))
	assert.True(t, rosterrors.IsConfigError(match.Validate(match.ModeFuzzy, 101)))
}

func TestParseMode(t *testing.T) {
	m, err := match.ParseMode("exact")
	require.NoError(t, err)
	assert.Equal(t, match.ModeExact, m)

	m, err = match.ParseMode("fuzzy")
	require.NoError(t, err)
	assert.Equal(t, match.ModeFuzzy, m)

	_, err = match.ParseMode("approx")
	assert.True(t, rosterrors.IsConfigError(err))
}

func TestExactBasic(t *testing.T) {
	ctx := context.Background()
	left := records(roster.Left, "张三", "李四", "王五")
	right := records(roster.Right, "李四", "赵六", "张三")

	pairs, err := match.Match(ctx, left, right, match.ModeExact, 0)
	require.NoError(t, err)

	matched, leftOnly, rightOnly := counts(pairs)
	assert.Equal(t, 2, matched)
	assert.Equal(t, 1, leftOnly)
	assert.Equal(t, 1, rightOnly)
	assert.Len(t, pairs, 4)
}

func TestExactDuplicateNamesOrderPaired(t *testing.T) {
	ctx := context.Background()

	// Three left rows for the same name, one right row: one matched
	// pair in row order, two left-only surplus records.
	left := records(roster.Left, "张三", "张三", "张三")
	left[0].RoomNumber = ptr("101")
	left[1].RoomNumber = ptr("102")
	left[2].RoomNumber = ptr("103")
	right := records(roster.Right, "张三")

	pairs, err := match.Match(ctx, left, right, match.ModeExact, 0)
	require.NoError(t, err)
	require.Len(t, pairs, 3)

	assert.True(t, pairs[0].Matched())
	require.NotNil(t, pairs[0].Left.RoomNumber)
	assert.Equal(t, "101", *pairs[0].Left.RoomNumber)

	assert.True(t, pairs[1].LeftOnly())
	assert.Equal(t, "102", *pairs[1].Left.RoomNumber)
	assert.True(t, pairs[2].LeftOnly())
	assert.Equal(t, "103", *pairs[2].Left.RoomNumber)
}

func TestExactEverySideEmpty(t *testing.T) {
	ctx := context.Background()

	pairs, err := match.Match(ctx, nil, records(roster.Right, "a", "b"), match.ModeExact, 0)
	require.NoError(t, err)
	matched, leftOnly, rightOnly := counts(pairs)
	assert.Equal(t, 0, matched)
	assert.Equal(t, 0, leftOnly)
	assert.Equal(t, 2, rightOnly)

	pairs, err = match.Match(ctx, nil, nil, match.ModeExact, 0)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestExactDeterministicOrder(t *testing.T) {
	ctx := context.Background()
	left := records(roster.Left, "c", "a", "b")
	right := records(roster.Right, "b", "a", "d")

	first, err := match.Match(ctx, left, right, match.ModeExact, 0)
	require.NoError(t, err)
	second, err := match.Match(ctx, left, right, match.ModeExact, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Matched pairs follow left-encounter order.
	assert.Equal(t, "c", first[0].Left.CanonicalName)
	assert.Equal(t, "a", first[1].Left.CanonicalName)
	assert.Equal(t, "b", first[2].Left.CanonicalName)
	assert.True(t, first[3].RightOnly())
	assert.Equal(t, "d", first[3].Right.CanonicalName)
}

func TestFuzzyThreshold(t *testing.T) {
	ctx := context.Background()
	left := records(roster.Left, "Smith")
	right := records(roster.Right, "Smyth")

	// Similarity of Smith/Smyth is 80: no match at 90.
	pairs, err := match.Match(ctx, left, right, match.ModeFuzzy, 90)
	require.NoError(t, err)
	matched, leftOnly, rightOnly := counts(pairs)
	assert.Equal(t, 0, matched)
	assert.Equal(t, 1, leftOnly)
	assert.Equal(t, 1, rightOnly)

	// Lowering the threshold to 80 makes them match.
	pairs, err = match.Match(ctx, left, right, match.ModeFuzzy, 80)
	require.NoError(t, err)
	matched, _, _ = counts(pairs)
	assert.Equal(t, 1, matched)
}

func TestFuzzyConsumeOnce(t *testing.T) {
	ctx := context.Background()

	// Both left names are close to the single right name; only one
	// may consume it.
	left := records(roster.Left, "Jon", "John")
	right := records(roster.Right, "Johan")

	pairs, err := match.Match(ctx, left, right, match.ModeFuzzy, 50)
	require.NoError(t, err)

	seen := map[*roster.Record]int{}
	for _, p := range pairs {
		if p.Right != nil {
			seen[p.Right]++
		}
	}
	for r, n := range seen {
		assert.Equal(t, 1, n, "right record %s paired %d times", r.CanonicalName, n)
	}

	matched, leftOnly, _ := counts(pairs)
	assert.Equal(t, 1, matched)
	assert.Equal(t, 1, leftOnly)
}

func TestFuzzyThresholdMonotonicity(t *testing.T) {
	ctx := context.Background()
	left := records(roster.Left, "Smith", "Johnson", "Müller", "张三")
	right := records(roster.Right, "Smyth", "Jonson", "Mueller", "张四", "Extra")

	prev := -1
	for threshold := 100; threshold >= 0; threshold -= 10 {
		pairs, err := match.Match(ctx, left, right, match.ModeFuzzy, threshold)
		require.NoError(t, err)
		matched, _, _ := counts(pairs)
		if prev >= 0 {
			assert.GreaterOrEqual(t, matched, prev,
				"matches shrank when threshold dropped to %d", threshold)
		}
		prev = matched
	}
}

func TestFuzzyExactNamesStillMatch(t *testing.T) {
	ctx := context.Background()
	pairs, err := match.Match(ctx,
		records(roster.Left, "张三"), records(roster.Right, "张三"),
		match.ModeFuzzy, 100)
	require.NoError(t, err)
	matched, _, _ := counts(pairs)
	assert.Equal(t, 1, matched)
}

func TestFuzzyCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	left := records(roster.Left, "a", "b", "c")
	right := records(roster.Right, "a", "b", "c")

	pairs, err := match.Match(ctx, left, right, match.ModeFuzzy, 90)
	require.Error(t, err)
	assert.True(t, rosterrors.IsIncomplete(err))
	assert.True(t, errors.Is(err, context.Canceled))

	// Every record is still accounted for as a single-source pair.
	matched, leftOnly, rightOnly := counts(pairs)
	assert.Equal(t, 0, matched)
	assert.Equal(t, 3, leftOnly)
	assert.Equal(t, 3, rightOnly)
}

func TestMatchPartitionCompleteness(t *testing.T) {
	ctx := context.Background()
	left := records(roster.Left, "张三", "张三", "李四", "王五")
	right := records(roster.Right, "张三", "李四", "李四", "赵六")

	for _, mode := range []match.Mode{match.ModeExact, match.ModeFuzzy} {
		pairs, err := match.Match(ctx, left, right, mode, 100)
		require.NoError(t, err)

		leftSeen := map[*roster.Record]int{}
		rightSeen := map[*roster.Record]int{}
		for _, p := range pairs {
			if p.Left != nil {
				leftSeen[p.Left]++
			}
			if p.Right != nil {
				rightSeen[p.Right]++
			}
		}
		assert.Len(t, leftSeen, len(left), "mode %s", mode)
		assert.Len(t, rightSeen, len(right), "mode %s", mode)
		for _, n := range leftSeen {
			assert.Equal(t, 1, n)
		}
		for _, n := range rightSeen {
			assert.Equal(t, 1, n)
		}
	}
}

func ptr(s string) *string { return &s }
