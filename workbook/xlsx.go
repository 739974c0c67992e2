package workbook

import (
	"github.com/carbocation/pfx"
	"github.com/xuri/excelize/v2"
)

func readXLSX(path string) ([]string, map[string][][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, pfx.Err(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	grids := make(map[string][][]string, len(sheets))

	for _, sheet := range sheets {
		// Raw values, so that number formats (percentages, thousands
		// separators) do not leak into numeric parsing.
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, nil, pfx.Err(err)
		}
		grids[sheet] = rows
	}

	return sheets, grids, nil
}
