package assaystat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *Table {
	t.Helper()
	tab, err := NewTable("exp2_viral", []string{"A", "B", "C"}, [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	require.NoError(t, err)
	return tab
}

func TestNewTable(t *testing.T) {
	tab := sample(t)
	assert.Equal(t, Exp2, tab.Tag)
	assert.Equal(t, 3, tab.Rows())
	assert.Equal(t, 3, tab.Width())

	_, err := NewTable("x", []string{"A"}, [][]float64{{1}, {2}})
	assert.True(t, IsDataError(err))

	_, err = NewTable("x", []string{"A", "B"}, [][]float64{{1, 2}, {2}})
	assert.True(t, IsDataError(err))
}

func TestColumn(t *testing.T) {
	tab := sample(t)

	col, err := tab.Column("B")
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, col)

	_, err = tab.Column("D")
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.True(t, IsDataError(err))

	assert.Equal(t, []float64{2, 5, 8}, tab.Row(1))
}

func TestSliceClamps(t *testing.T) {
	tab := sample(t)

	s := tab.Slice(1, 4)
	assert.Equal(t, []string{"B", "C"}, s.Headers)

	// The slice is a copy
	s.Columns[0][0] = 100
	assert.Equal(t, 4.0, tab.Columns[1][0])

	assert.Equal(t, 0, tab.Slice(5, 2).Width())
}

func TestSelectRows(t *testing.T) {
	tab := sample(t)

	s, err := tab.SelectRows([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1}, s.Columns[0])
	assert.Equal(t, []float64{9, 7}, s.Columns[2])

	_, err = tab.SelectRows([]int{3})
	assert.True(t, IsDataError(err))
}

func TestInsertColumn(t *testing.T) {
	tab := sample(t)

	require.NoError(t, tab.InsertColumn(0, "x", []float64{0.1, 0.2, 0.3}))
	assert.Equal(t, []string{"x", "A", "B", "C"}, tab.Headers)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, tab.Columns[0])

	require.NoError(t, tab.AddColumn("average", []float64{1, 1, 1}))
	assert.Equal(t, "average", tab.Headers[4])

	assert.Error(t, tab.AddColumn("short", []float64{1}))
	assert.Error(t, tab.InsertColumn(9, "far", []float64{1, 2, 3}))
}

func TestRename(t *testing.T) {
	tab := sample(t)

	require.NoError(t, tab.Rename("Inhibit_1", "Inhibit_2", "Inhibit_3"))
	assert.Equal(t, []string{"Inhibit_1", "Inhibit_2", "Inhibit_3"}, tab.Headers)

	assert.Error(t, tab.Rename("one"))
}

func TestMap(t *testing.T) {
	tab := sample(t)

	out := tab.Map(func(row, col int, v float64) float64 { return v * 10 })
	assert.Equal(t, []float64{10, 20, 30}, out.Columns[0])
	assert.Equal(t, []float64{1, 2, 3}, tab.Columns[0])
}

func TestConcat(t *testing.T) {
	a := sample(t)
	b, err := NewTable("exp2_viral_2", []string{"D", "E", "F"}, [][]float64{{10}, {11}, {12}})
	require.NoError(t, err)

	out, err := a.Concat(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, out.Headers)
	assert.Equal(t, []float64{7, 8, 9, 12}, out.Columns[2])
	assert.Equal(t, 3, a.Rows())

	narrow, err := NewTable("n", []string{"A"}, [][]float64{{1}})
	require.NoError(t, err)
	_, err = a.Concat(narrow)
	assert.True(t, IsDataError(err))
}

func TestHstack(t *testing.T) {
	a := sample(t)
	b, err := NewTable("x", []string{"conc"}, [][]float64{{0.5}})
	require.NoError(t, err)

	out := Hstack("exp3_result", b, a)
	assert.Equal(t, Exp3, out.Tag)
	assert.Equal(t, []string{"conc", "A", "B", "C"}, out.Headers)
	assert.Equal(t, 0.5, out.Columns[0][0])
	assert.True(t, math.IsNaN(out.Columns[0][2]))
}

func TestTagFromSheet(t *testing.T) {
	for name, want := range map[string]ExperimentTag{
		"exp1_viral":   Exp1,
		"viral_exp2":   Exp2,
		"exp3_thle2_2": Exp3,
		"exp12":        Exp1,
		"Solvent":      Untagged,
		"EXP1":         Untagged,
	} {
		assert.Equal(t, want, TagFromSheet(name), name)
	}

	assert.Equal(t, "exp2", Exp2.String())
	assert.Equal(t, "untagged", Untagged.String())
}

func TestErrorMessages(t *testing.T) {
	err := &ConfigurationError{Kind: "plate type", Value: "elisa"}
	assert.Equal(t, `wrong plate type name: "elisa"`, err.Error())

	de := &DataError{Sheet: "Solvent", Column: "Blank", Err: ErrMissingColumn}
	assert.Equal(t, `sheet "Solvent", column "Blank": column not found`, de.Error())
	assert.Equal(t, `sheet "Solvent": sheet not found`, (&DataError{Sheet: "Solvent", Err: ErrMissingSheet}).Error())
}
