package workbook

import (
	"fmt"

	"github.com/carbocation/pfx"
	"github.com/extrame/xls"
)

func readXLS(path string) ([]string, map[string][][]string, error) {
	spreadsheet, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, nil, pfx.Err(err)
	}

	sheetCount := spreadsheet.NumSheets()
	sheets := make([]string, 0, sheetCount)
	grids := make(map[string][][]string, sheetCount)

	for sheetID := 0; sheetID < sheetCount; sheetID++ {
		sheet := spreadsheet.GetSheet(sheetID)
		if sheet == nil {
			return nil, nil, pfx.Err(fmt.Errorf("sheet %d was nil", sheetID))
		}

		grid := make([][]string, 0, int(sheet.MaxRow)+1)
		for rowID := 0; rowID <= int(sheet.MaxRow); rowID++ {
			row := sheet.Row(rowID)
			if row == nil {
				grid = append(grid, nil)
				continue
			}

			values := make([]string, 0, row.LastCol()+1)
			for colID := 0; colID <= row.LastCol(); colID++ {
				values = append(values, row.Col(colID))
			}
			grid = append(grid, trimTrailingBlanks(values))
		}

		sheets = append(sheets, sheet.Name)
		grids[sheet.Name] = grid
	}

	return sheets, grids, nil
}

func trimTrailingBlanks(row []string) []string {
	for len(row) > 0 && row[len(row)-1] == "" {
		row = row[:len(row)-1]
	}
	return row
}
