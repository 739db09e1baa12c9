// Package roster defines the data model for a reconciliation run: raw
// tables as supplied by a parsing collaborator, the per-source column
// mapping, and the standardized records the engine compares.
package roster

import (
	"github.com/shopspring/decimal"

	"github.com/rosterly/rosterly/pkg/errors"
)

// Row is one raw table row, mapping source column names to raw cell values.
type Row map[string]string

// Table is an ordered sequence of raw rows from one source.
type Table struct {
	// Name identifies the source, e.g. the uploaded file name.
	Name string

	// Rows in original encounter order. Order matters: exact-mode
	// pairing of duplicate names follows it.
	Rows []Row
}

// Side identifies which of the two sources a record came from.
type Side int

const (
	// Left is the first source of a reconciliation run.
	Left Side = iota
	// Right is the second source.
	Right
)

// String returns the side's name.
func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Field names a comparable record attribute.
type Field string

// Comparable record fields.
const (
	FieldStartDate  Field = "start_date"
	FieldEndDate    Field = "end_date"
	FieldRoomType   Field = "room_type"
	FieldRoomNumber Field = "room_number"
	FieldPrice      Field = "price"
)

// CompareFields returns every comparable field in canonical order.
func CompareFields() []Field {
	return []Field{FieldStartDate, FieldEndDate, FieldRoomType, FieldRoomNumber, FieldPrice}
}

// ParseField converts a string to a Field.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldStartDate, FieldEndDate, FieldRoomType, FieldRoomNumber, FieldPrice:
		return Field(s), nil
	}
	return "", errors.NewValidationError("compare_fields", s, "unknown field")
}

// FieldMapping selects which source columns feed each record field.
// Name, StartDate and EndDate are required; the rest are optional and
// an empty column name means the field is not mapped for this source.
type FieldMapping struct {
	Name       string
	StartDate  string
	EndDate    string
	RoomType   string
	RoomNumber string
	Price      string
}

// Validate reports a fatal configuration error when a required column
// is missing. It runs once at the start of a run; later stages rely on
// the mapping being complete.
func (m FieldMapping) Validate(source string) error {
	required := []struct {
		column string
		field  string
	}{
		{m.Name, "name"},
		{m.StartDate, "start_date"},
		{m.EndDate, "end_date"},
	}
	for _, r := range required {
		if r.column == "" {
			return errors.NewConfigError("mapping",
				"source "+source+" has no column mapped for required field "+r.field, nil)
		}
	}
	return nil
}

// Column returns the source column mapped to a field, or "" if unmapped.
func (m FieldMapping) Column(f Field) string {
	switch f {
	case FieldStartDate:
		return m.StartDate
	case FieldEndDate:
		return m.EndDate
	case FieldRoomType:
		return m.RoomType
	case FieldRoomNumber:
		return m.RoomNumber
	case FieldPrice:
		return m.Price
	}
	return ""
}

// Mapped reports whether a field has a source column.
func (m FieldMapping) Mapped(f Field) bool {
	return m.Column(f) != ""
}

// Record is one person's stay, derived from one raw row. Multi-person
// name cells produce one Record per person; the sibling records share
// every non-name field.
type Record struct {
	// CanonicalName is the name after normalization, exploding and
	// optional case folding. Never empty.
	CanonicalName string

	// OriginalName is the raw, unsplit name cell this record came from.
	OriginalName string

	// Source is the name of the table that produced the record.
	Source string

	// Side the record belongs to.
	Side Side

	// Stay attributes. Nil means the source had no usable value.
	StartDate  *string // ISO YYYY-MM-DD
	EndDate    *string // ISO YYYY-MM-DD
	RoomType   *string
	RoomNumber *string
	Price      *decimal.Decimal
}
