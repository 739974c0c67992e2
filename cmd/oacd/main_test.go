package main

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/carbocation/assaystat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setRows(t *testing.T, f *excelize.File, sheet string, first int, rows ...[]interface{}) {
	t.Helper()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, first+i)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
}

func replicateSheet(values ...float64) [][]interface{} {
	rows := [][]interface{}{{"Combo", "R1", "R2", "R3"}}
	for i, v := range values {
		rows = append(rows, []interface{}{i + 1, v, v, v})
	}
	return rows
}

func writeScreen(t *testing.T, path string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", SheetDesign))
	for _, name := range []string{SheetMonoDesign, SheetConcTable, SheetControls, SheetEfficacy, SheetVero, SheetCardiac, SheetLiver, SheetMonoEff, SheetMonoVeroE6} {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}

	setRows(t, f, SheetDesign, 1,
		[]interface{}{"Combo", "DrugA", "DrugB"},
		[]interface{}{1, 1, 2},
		[]interface{}{2, 2, 1},
		[]interface{}{3, 2, 2},
	)
	setRows(t, f, SheetMonoDesign, 1,
		[]interface{}{"Combo", "DrugA", "DrugB"},
		[]interface{}{101, 2, 0},
	)
	setRows(t, f, SheetConcTable, 1,
		[]interface{}{"Dose level", "DrugA", "DrugB"},
		[]interface{}{1, 0.5, 1},
		[]interface{}{2, 5, 10},
	)

	header := []interface{}{"Well", "Cells Eff", "DMSO Eff", "DMSO Vero",
		"DMSO Cardiac", "No DMSO Cardiac", "Blank Cardiac",
		"DMSO Liver", "No DMSO Liver", "Blank Liver"}
	for i := 0; i < ControlPlates; i++ {
		setRows(t, f, SheetControls, 1+7*i, []interface{}{fmt.Sprintf("Plate %d", i+1)})
		setRows(t, f, SheetControls, 3+7*i, header)
		for r := 0; r < ControlPlateRows; r++ {
			setRows(t, f, SheetControls, 4+7*i+r,
				[]interface{}{fmt.Sprintf("R%d", r+1), 100, 20, 100, 110, 90, 10, 105, 50, 5})
		}
	}

	setRows(t, f, SheetEfficacy, 1, replicateSheet(20, 60, 100)...)
	setRows(t, f, SheetVero, 1, replicateSheet(100, 50, 0)...)
	setRows(t, f, SheetCardiac, 1, replicateSheet(110, 60, 10)...)
	setRows(t, f, SheetLiver, 1, replicateSheet(105, 55, 5)...)
	setRows(t, f, SheetMonoEff, 1, replicateSheet(60)...)
	setRows(t, f, SheetMonoVeroE6, 1, replicateSheet(50)...)

	require.NoError(t, f.SaveAs(path))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "OACD.xlsx")
	output := filepath.Join(dir, "OACD_result.xlsx")
	writeScreen(t, input)

	require.NoError(t, run(input, output, 25))

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"X_conc", "mono_conc", "All Y-outputs",
		"Inhibition", "VeroE6", "AC16", "THLE-2",
		"mono_Inhibition", "mono_VeroE6", "Conc_table",
	}, f.GetSheetList())

	rows, err := f.GetRows(SheetXConc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Combo_ID", "DrugA", "DrugB"}, rows[0])
	assert.Equal(t, []string{"1", "0.5", "10"}, rows[1])

	// Level 0 has no concentration and is kept
	rows, err = f.GetRows(SheetMonoConc)
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "5", "0"}, rows[1])

	rows, err = f.GetRows(SheetAllY)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, append(append([]string{"Combo_ID"}, AllYColumns...), "Avg_Inhibit", "Avg_Vero", "Avg_Cardiac", "Avg_Liver"), rows[0])
	assert.Equal(t, []string{"1", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0"}, rows[1])
	assert.Equal(t, []string{"2", "50", "50", "50", "50", "50", "50", "50", "50", "50", "50", "50", "50", "50", "50", "50", "50"}, rows[2])
	assert.Equal(t, []string{"101", "50", "50", "50", "50", "50", "50", "", "", "", "", "", "", "50", "50"}, rows[4])

	formats, err := f.GetConditionalFormats(SheetAllY)
	require.NoError(t, err)
	assert.Contains(t, formats, HighlightRange)

	rows, err = f.GetRows("AC16")
	require.NoError(t, err)
	assert.Equal(t, []string{"Combo_ID", "R1", "R2", "R3", "average", "stdev"}, rows[0])
	assert.Equal(t, []string{"3", "100", "100", "100", "100", "0"}, rows[3])

	rows, err = f.GetRows("mono_Inhibition")
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "50", "50", "50", "50", "0"}, rows[1])
}

func TestRunMissingSheet(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "OACD.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(input))
	require.NoError(t, f.Close())

	assert.Error(t, run(input, filepath.Join(dir, "out.xlsx"), 25))
}

func TestAverageControlsPlateCount(t *testing.T) {
	headers := []string{"Cells Eff", "DMSO Eff", "DMSO Vero", "DMSO Cardiac", "No DMSO Cardiac", "Blank Cardiac", "DMSO Liver", "No DMSO Liver", "Blank Liver"}
	plate := func() *assaystat.Table {
		cols := make([][]float64, len(headers))
		for i := range cols {
			cols[i] = []float64{1, 2, 3, 4}
		}
		p, err := assaystat.NewTable(SheetControls, headers, cols)
		require.NoError(t, err)
		return p
	}

	var plates []*assaystat.Table
	for i := 0; i < ControlPlates-1; i++ {
		plates = append(plates, plate())
	}

	exp := &experiment{plates: plates}
	err := exp.averageControls()
	assert.True(t, assaystat.IsDataError(err))
	assert.Nil(t, exp.controls)

	exp.plates = append(exp.plates, plate())
	require.NoError(t, exp.averageControls())
	assert.Equal(t, ControlPlates, exp.controls.Len())
}
