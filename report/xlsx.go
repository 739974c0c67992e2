package report

import (
	"math"
	"os"
	"strconv"

	"github.com/carbocation/assaystat"
	"github.com/carbocation/pfx"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Highlight colors for values above a threshold.
const (
	HighlightFill = "FFF9AE"
	HighlightFont = "9C0006"
)

// Writer builds a result workbook one sheet at a time.
type Writer struct {
	f *excelize.File

	// untouched is set while the file still holds only the default sheet
	// that excelize creates.
	untouched bool
}

// NewWriter starts an empty workbook.
func NewWriter() *Writer {
	return &Writer{f: excelize.NewFile(), untouched: true}
}

// OpenWriter opens an existing workbook so that sheets can be added to it. A
// path that does not exist yet gives an empty workbook.
func OpenWriter(path string) (*Writer, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewWriter(), nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &Writer{f: f}, nil
}

// AddSheet writes t as a sheet with a header row. A sheet of the same name is
// replaced. Missing values are left blank and infinities are written as text.
func (w *Writer) AddSheet(name string, t *assaystat.Table) error {
	if err := w.prepareSheet(name); err != nil {
		return pfx.Err(err)
	}

	header := make([]interface{}, 0, t.Width())
	for _, h := range t.Headers {
		header = append(header, h)
	}
	if err := w.f.SetSheetRow(name, "A1", &header); err != nil {
		return pfx.Err(err)
	}

	for i := 0; i < t.Rows(); i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return pfx.Err(err)
		}

		row := make([]interface{}, 0, t.Width())
		for _, v := range t.Row(i) {
			row = append(row, cellValue(v))
		}
		if err := w.f.SetSheetRow(name, cell, &row); err != nil {
			return pfx.Err(err)
		}
	}

	return nil
}

func (w *Writer) prepareSheet(name string) error {
	if w.untouched {
		w.untouched = false
		if name == defaultSheet {
			return nil
		}
		return w.f.SetSheetName(defaultSheet, name)
	}

	idx, err := w.f.GetSheetIndex(name)
	if err != nil {
		return err
	}

	if idx >= 0 {
		// Swap in a fresh sheet so nothing of the old contents survives.
		const scratch = "__replaced__"
		if _, err := w.f.NewSheet(scratch); err != nil {
			return err
		}
		if err := w.f.DeleteSheet(name); err != nil {
			return err
		}
		return w.f.SetSheetName(scratch, name)
	}

	_, err = w.f.NewSheet(name)
	return err
}

func cellValue(v float64) interface{} {
	switch {
	case math.IsNaN(v):
		return nil
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return v
}

// Highlight adds a conditional format to the cells in ref (e.g. "O2:Q125")
// that colors every value greater than threshold.
func (w *Writer) Highlight(sheet, ref string, threshold float64) error {
	format, err := w.f.NewConditionalStyle(&excelize.Style{
		Font: &excelize.Font{Color: HighlightFont},
		Fill: excelize.Fill{Type: "pattern", Color: []string{HighlightFill}, Pattern: 1},
	})
	if err != nil {
		return pfx.Err(err)
	}

	err = w.f.SetConditionalFormat(sheet, ref, []excelize.ConditionalFormatOptions{
		{
			Type:     "cell",
			Criteria: ">",
			Format:   &format,
			Value:    strconv.FormatFloat(threshold, 'f', -1, 64),
		},
	})
	if err != nil {
		return pfx.Err(err)
	}

	return nil
}

// Save writes the workbook to path and releases it.
func (w *Writer) Save(path string) error {
	if err := w.f.SaveAs(path); err != nil {
		return pfx.Err(err)
	}
	return w.f.Close()
}

// AppendSheet adds t as sheet name to the workbook at path, creating the
// workbook if needed. Other sheets already in the file are kept.
func AppendSheet(path, name string, t *assaystat.Table) error {
	w, err := OpenWriter(path)
	if err != nil {
		return err
	}

	if err := w.AddSheet(name, t); err != nil {
		w.f.Close()
		return err
	}

	return w.Save(path)
}
