// Package workbook loads plate-reader workbooks into numeric tables. Excel
// 2007+ (.xlsx), legacy Excel (.xls) and delimited text exports are
// supported; every sheet is read eagerly into a grid of strings and numeric
// coercion happens when a table is requested.
package workbook

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carbocation/assaystat"
	"github.com/carbocation/pfx"
)

// Workbook holds the raw cell text of every sheet of one input file.
type Workbook struct {
	Path   string
	sheets []string
	grids  map[string][][]string
}

// Region describes where a table lives inside a sheet.
type Region struct {
	// HeaderRow is the 0-based row holding the column names.
	HeaderRow int

	// NRows limits the number of data rows read below the header. Zero
	// means all remaining rows.
	NRows int

	// NCols limits the number of columns read. Zero means all.
	NCols int

	// SkipTextColumns drops columns holding non-numeric text (row labels)
	// instead of failing.
	SkipTextColumns bool
}

// Open reads a workbook, choosing the reader by file extension.
func Open(path string) (*Workbook, error) {
	path = assaystat.ExpandHome(path)

	var (
		sheets []string
		grids  map[string][][]string
		err    error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		sheets, grids, err = readXLSX(path)
	case ".xls":
		sheets, grids, err = readXLS(path)
	case ".csv", ".tsv", ".txt", ".gz", ".bz2", ".xz":
		sheets, grids, err = readText(path)
	default:
		return nil, &assaystat.ConfigurationError{Kind: "workbook format", Value: filepath.Ext(path)}
	}
	if err != nil {
		return nil, pfx.Err(err)
	}

	return New(path, sheets, grids), nil
}

// New wraps already-read sheets. Sheets are kept in the given order.
func New(path string, sheets []string, grids map[string][][]string) *Workbook {
	return &Workbook{Path: path, sheets: sheets, grids: grids}
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return append([]string(nil), w.sheets...)
}

// Rows returns the raw cell text of a sheet.
func (w *Workbook) Rows(sheet string) ([][]string, error) {
	g, exists := w.grids[sheet]
	if !exists {
		return nil, &assaystat.DataError{Sheet: sheet, Err: assaystat.ErrMissingSheet}
	}
	return g, nil
}

// Table reads a whole sheet with its header on the first row. Every column
// must be numeric; empty cells become NaN.
func (w *Workbook) Table(sheet string) (*assaystat.Table, error) {
	return w.TableAt(sheet, Region{})
}

// TableAt reads the part of a sheet described by r.
func (w *Workbook) TableAt(sheet string, r Region) (*assaystat.Table, error) {
	grid, err := w.Rows(sheet)
	if err != nil {
		return nil, err
	}

	if r.HeaderRow >= len(grid) {
		return nil, &assaystat.DataError{Sheet: sheet, Err: fmt.Errorf("header row %d is beyond the last row (%d)", r.HeaderRow, len(grid))}
	}

	body := grid[r.HeaderRow+1:]
	if r.NRows > 0 && r.NRows < len(body) {
		body = body[:r.NRows]
	}
	body = dropBlankRows(body)

	width := len(grid[r.HeaderRow])
	for _, row := range body {
		if len(row) > width {
			width = len(row)
		}
	}
	if r.NCols > 0 && r.NCols < width {
		width = r.NCols
	}

	headers := make([]string, 0, width)
	columns := make([][]float64, 0, width)

ColLoop:
	for c := 0; c < width; c++ {
		name := cell(grid[r.HeaderRow], c)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", c)
		}

		col := make([]float64, 0, len(body))
		for i, row := range body {
			v, err := parseCell(cell(row, c))
			if err != nil {
				if r.SkipTextColumns {
					continue ColLoop
				}
				return nil, &assaystat.DataError{Sheet: sheet, Column: name, Err: fmt.Errorf("row %d: %w", r.HeaderRow+i+2, err)}
			}
			col = append(col, v)
		}

		headers = append(headers, name)
		columns = append(columns, col)
	}

	return assaystat.NewTable(sheet, headers, columns)
}

// Strings returns the text of one column of a sheet whose header is on the
// first row.
func (w *Workbook) Strings(sheet, column string) ([]string, error) {
	grid, err := w.Rows(sheet)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, &assaystat.DataError{Sheet: sheet, Column: column, Err: assaystat.ErrMissingColumn}
	}

	idx := -1
	for i, h := range grid[0] {
		if strings.TrimSpace(h) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &assaystat.DataError{Sheet: sheet, Column: column, Err: assaystat.ErrMissingColumn}
	}

	out := make([]string, 0, len(grid)-1)
	for _, row := range dropBlankRows(grid[1:]) {
		out = append(out, cell(row, idx))
	}

	return out, nil
}

// Tables reads every sheet whose name satisfies match. A sheet that fails to
// load is reported in the error map and does not stop its siblings.
func (w *Workbook) Tables(match func(sheet string) bool) ([]*assaystat.Table, map[string]error) {
	var out []*assaystat.Table
	failed := make(map[string]error)

	for _, sheet := range w.sheets {
		if match != nil && !match(sheet) {
			continue
		}

		t, err := w.Table(sheet)
		if err != nil {
			failed[sheet] = err
			continue
		}
		out = append(out, t)
	}

	return out, failed
}

func cell(row []string, c int) string {
	if c >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[c])
}

func parseCell(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, assaystat.ErrNotNumeric)
	}

	return v, nil
}

func dropBlankRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		for _, v := range row {
			if strings.TrimSpace(v) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
