package report

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/carbocation/assaystat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func replicates(t *testing.T, name string, cols ...[]float64) *assaystat.Table {
	t.Helper()
	headers := make([]string, 0, len(cols))
	for i := range cols {
		headers = append(headers, string(rune('1'+i)))
	}
	tab, err := assaystat.NewTable(name, headers, cols)
	require.NoError(t, err)
	return tab
}

func TestAverageStdev(t *testing.T) {
	tab := replicates(t, "Inhibition",
		[]float64{10, 1, math.NaN()},
		[]float64{12, 2, 5},
		[]float64{11, math.NaN(), math.NaN()},
	)

	out := AverageStdev(tab)
	require.Equal(t, []string{"1", "2", "3", ColAverage, ColStdev}, out.Headers)

	avg, err := out.Column(ColAverage)
	require.NoError(t, err)
	sd, err := out.Column(ColStdev)
	require.NoError(t, err)

	assert.InDelta(t, 11, avg[0], 1e-12)
	assert.InDelta(t, 1, sd[0], 1e-12)

	assert.InDelta(t, 1.5, avg[1], 1e-12)
	assert.InDelta(t, math.Sqrt(0.5), sd[1], 1e-12)

	assert.Equal(t, 5.0, avg[2])
	assert.True(t, math.IsNaN(sd[2]))

	// The input is untouched
	assert.Equal(t, 3, tab.Width())
}

func TestWithID(t *testing.T) {
	tab := replicates(t, "VeroE6", []float64{1, 2})

	out, err := WithID("Combo_ID", []float64{7, 8}, tab)
	require.NoError(t, err)
	assert.Equal(t, []string{"Combo_ID", "1"}, out.Headers)
	assert.Equal(t, []float64{7, 8}, out.Columns[0])

	_, err = WithID("Combo_ID", []float64{1}, tab)
	assert.Error(t, err)
}

func TestSortByOrder(t *testing.T) {
	// Five combinations; plot 4 first, then 1, then 3.
	tab := replicates(t, "Inhibition", []float64{10, 20, 30, 40, 50})
	order := []int{2, 0, 3, 1, 0}

	out, labels, err := SortByOrder(tab, []int{1, 3, 4}, order)
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "1", "3"}, labels)
	assert.Equal(t, []float64{40, 10, 30}, out.Columns[0])

	_, _, err = SortByOrder(tab, []int{6}, order)
	assert.True(t, assaystat.IsDataError(err))

	_, _, err = SortByOrder(tab, []int{1}, order[:4])
	assert.True(t, assaystat.IsDataError(err))
}

func TestGroups(t *testing.T) {
	tab := replicates(t, "x", []float64{1, 2}, []float64{3, 4})

	sel, err := SelectCombos(tab, []int{2})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2, 4}}, Groups(sel))
}

func TestWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "OACD_result.xlsx")

	tab, err := assaystat.NewTable("All Y-outputs", []string{"Combo_ID", "Avg_Inhibit"}, [][]float64{
		{1, 2, 3},
		{10, math.NaN(), 40},
	})
	require.NoError(t, err)

	w := NewWriter()
	require.NoError(t, w.AddSheet("X_conc", tab))
	require.NoError(t, w.AddSheet("All Y-outputs", tab))
	require.NoError(t, w.Highlight("All Y-outputs", "B2:B4", 25))
	require.NoError(t, w.Save(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"X_conc", "All Y-outputs"}, f.GetSheetList())

	rows, err := f.GetRows("All Y-outputs")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Combo_ID", "Avg_Inhibit"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "10", rows[1][1])
	assert.Len(t, rows[2], 1)

	formats, err := f.GetConditionalFormats("All Y-outputs")
	require.NoError(t, err)
	require.Contains(t, formats, "B2:B4")
	rule := formats["B2:B4"][0]
	assert.Equal(t, "cell", rule.Type)
	// Written as ">", read back under its long name
	assert.Equal(t, "greater than", rule.Criteria)
	assert.Equal(t, "25", rule.Value)
	require.NotNil(t, rule.Format)
}

func TestAppendSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Monotherapy_result.xlsx")

	a := replicates(t, "a", []float64{1})
	b := replicates(t, "b", []float64{2})

	require.NoError(t, AppendSheet(path, "Remdesivir", a))
	require.NoError(t, AppendSheet(path, "Lopinavir", b))
	require.NoError(t, AppendSheet(path, "Remdesivir", b))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Remdesivir", "Lopinavir"}, f.GetSheetList())

	v, err := f.GetCellValue("Remdesivir", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestBarCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "barplots")
	plot := Plot{YLabel: "% Inhibition", Labels: []string{"20", "9", "1"}}

	single := PlotPath(dir, "fig2a", "% Inhibition")
	require.NoError(t, BarChart(single, plot, Bars{
		Means:  []float64{50, 80, -5},
		Stdevs: []float64{5, 2, math.NaN()},
	}))

	multi := PlotPath(dir, "fig2b", "% Cytotoxicity")
	require.NoError(t, MultiBarChart(multi, plot,
		Bars{Name: "Vero E6", Means: []float64{1, 2, 3}, Stdevs: []float64{1, 1, 1}, Color: Gray},
		Bars{Name: "AC16", Means: []float64{4, 5, 6}, Stdevs: []float64{1, 1, 1}, Color: Orange},
		Bars{Name: "THLE-2", Means: []float64{7, 8, 9}, Stdevs: []float64{1, 1, 1}, Color: Indigo},
	))

	for _, path := range []string{single, multi} {
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "\x89PNG", string(b[:4]))
	}

	err := BarChart(single, plot, Bars{Means: []float64{1}, Stdevs: []float64{1}})
	assert.Error(t, err)
}
