// Package diff computes null-aware field-level differences for a
// matched pair of records.
package diff

import (
	"github.com/rosterly/rosterly/pkg/match"
	"github.com/rosterly/rosterly/pkg/roster"
)

// Change records one differing field with both sides' values.
// A nil value means the side had no usable value for the field.
type Change struct {
	Field roster.Field
	Left  *string
	Right *string
}

// Result is the ordered list of differing fields for one matched pair.
// An empty Result means the pair is identical over the compared fields.
type Result []Change

// Identical reports whether no compared field differs.
func (r Result) Identical() bool { return len(r) == 0 }

// Fields returns the differing field names in order.
func (r Result) Fields() []roster.Field {
	out := make([]roster.Field, len(r))
	for i, c := range r {
		out[i] = c.Field
	}
	return out
}

// Engine compares matched pairs over a caller-selected field set.
// Fields not mapped on either side are skipped entirely, never treated
// as mismatches.
type Engine struct {
	fields   []roster.Field
	leftMap  roster.FieldMapping
	rightMap roster.FieldMapping
}

// NewEngine creates an Engine comparing the given fields. The field set
// is deduplicated and reordered into canonical field order so Results
// are stable regardless of how the caller listed them.
func NewEngine(fields []roster.Field, leftMap, rightMap roster.FieldMapping) *Engine {
	selected := make(map[roster.Field]bool, len(fields))
	for _, f := range fields {
		selected[f] = true
	}

	ordered := make([]roster.Field, 0, len(selected))
	for _, f := range roster.CompareFields() {
		if selected[f] {
			ordered = append(ordered, f)
		}
	}

	return &Engine{
		fields:   ordered,
		leftMap:  leftMap,
		rightMap: rightMap,
	}
}

// Diff compares both sides of a matched pair with null-aware equality:
// two nils are equal, one nil and one value differ, two values compare
// by exact value equality.
func (e *Engine) Diff(p match.Pair) Result {
	if !p.Matched() {
		return nil
	}

	var result Result
	for _, f := range e.fields {
		if !e.leftMap.Mapped(f) || !e.rightMap.Mapped(f) {
			continue
		}
		if fieldEqual(p.Left, p.Right, f) {
			continue
		}
		result = append(result, Change{
			Field: f,
			Left:  fieldValue(p.Left, f),
			Right: fieldValue(p.Right, f),
		})
	}
	return result
}

// fieldEqual compares one field of two records. Prices compare by
// decimal value so 2 and 2.00 are equal; everything else compares by
// string equality.
func fieldEqual(l, r *roster.Record, f roster.Field) bool {
	if f == roster.FieldPrice {
		switch {
		case l.Price == nil && r.Price == nil:
			return true
		case l.Price == nil || r.Price == nil:
			return false
		default:
			return l.Price.Equal(*r.Price)
		}
	}

	lv, rv := stringField(l, f), stringField(r, f)
	switch {
	case lv == nil && rv == nil:
		return true
	case lv == nil || rv == nil:
		return false
	default:
		return *lv == *rv
	}
}

// fieldValue renders one field of a record for reporting, nil when the
// record has no value.
func fieldValue(r *roster.Record, f roster.Field) *string {
	if f == roster.FieldPrice {
		if r.Price == nil {
			return nil
		}
		s := r.Price.String()
		return &s
	}
	return stringField(r, f)
}

func stringField(r *roster.Record, f roster.Field) *string {
	switch f {
	case roster.FieldStartDate:
		return r.StartDate
	case roster.FieldEndDate:
		return r.EndDate
	case roster.FieldRoomType:
		return r.RoomType
	case roster.FieldRoomNumber:
		return r.RoomNumber
	}
	return nil
}
