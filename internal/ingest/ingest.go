// Package ingest reads CSV and XLSX roster files into raw tables. It is
// the parsing collaborator of the reconciliation engine: the engine
// itself never touches files.
package ingest

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rosterly/rosterly/pkg/errors"
	"github.com/rosterly/rosterly/pkg/logging"
	"github.com/rosterly/rosterly/pkg/roster"
)

// ReadTable loads a roster file into a raw table, dispatching on the
// file extension. The first row is taken as the header; every later
// row becomes a column-to-cell map keyed by those headers.
func ReadTable(ctx context.Context, path string) (roster.Table, error) {
	var (
		t   roster.Table
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		t, err = readCSV(path)
	case ".xlsx", ".xlsm":
		t, err = readXLSX(path)
	default:
		return roster.Table{}, errors.NewParseError("table", path,
			"unsupported file type (want .csv or .xlsx)", nil)
	}
	if err != nil {
		return roster.Table{}, err
	}

	logging.FromContext(logging.WithSource(ctx, t.Name)).Debug().
		Int("rows", len(t.Rows)).
		Msg("roster file read")
	return t, nil
}

func readCSV(path string) (roster.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return roster.Table{}, errors.WrapIO("open", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	rows, err := reader.ReadAll()
	if err != nil {
		return roster.Table{}, errors.WrapParse("csv", path, err)
	}

	return assemble(path, rows), nil
}

func readXLSX(path string) (roster.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return roster.Table{}, errors.WrapParse("xlsx", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return roster.Table{}, errors.NewParseError("xlsx", path, "workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return roster.Table{}, errors.WrapParse("xlsx", path, err)
	}

	return assemble(path, rows), nil
}

// assemble turns a header row plus data rows into a raw table. Cells
// beyond the header width are ignored; missing trailing cells read as
// empty strings through the row map.
func assemble(path string, rows [][]string) roster.Table {
	t := roster.Table{Name: filepath.Base(path)}
	if len(rows) == 0 {
		return t
	}

	header := rows[0]
	for _, cells := range rows[1:] {
		row := make(roster.Row, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(cells) {
				row[col] = cells[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
