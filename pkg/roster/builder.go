package roster

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rosterly/rosterly/pkg/normalize"
	"github.com/rosterly/rosterly/pkg/standardize"
)

// nameDelimiter reports whether a rune separates co-occupant names
// inside one name cell.
func nameDelimiter(r rune) bool {
	switch r {
	case '、', ',', '，', '/':
		return true
	}
	return false
}

// BuildRecords converts a raw table into standardized records. Each raw
// row's name cell is split into one record per person; the non-name
// fields are standardized once per row and shared by the siblings.
//
// Rows whose required fields (start or end date) standardize to nil are
// dropped and counted in the returned parse-error tally. Name tokens
// that are empty after cleaning are dropped silently; a name cell of
// only delimiters produces zero records.
func BuildRecords(t Table, m FieldMapping, std *standardize.Standardizer, side Side, foldNames bool) ([]Record, int) {
	records := make([]Record, 0, len(t.Rows))
	parseErrors := 0

	for _, row := range t.Rows {
		start := std.Date(row[m.StartDate])
		end := std.Date(row[m.EndDate])
		if start == nil || end == nil {
			parseErrors++
			continue
		}

		var roomType, roomNumber *string
		var price *decimal.Decimal
		if m.RoomType != "" {
			roomType = std.RoomType(row[m.RoomType])
		}
		if m.RoomNumber != "" {
			roomNumber = std.RoomNumber(row[m.RoomNumber])
		}
		if m.Price != "" {
			price = std.Price(row[m.Price])
		}

		rawName := row[m.Name]
		for _, token := range strings.FieldsFunc(rawName, nameDelimiter) {
			canonical := normalize.Normalize(token)
			if canonical == "" {
				continue
			}
			if foldNames {
				canonical = normalize.Fold(canonical)
			}

			records = append(records, Record{
				CanonicalName: canonical,
				OriginalName:  rawName,
				Source:        t.Name,
				Side:          side,
				StartDate:     start,
				EndDate:       end,
				RoomType:      roomType,
				RoomNumber:    roomNumber,
				Price:         price,
			})
		}
	}

	return records, parseErrors
}
