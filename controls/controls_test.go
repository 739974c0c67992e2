package controls

import (
	"math"
	"testing"

	"github.com/carbocation/assaystat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(t *testing.T, name string, headers []string, cols ...[]float64) *assaystat.Table {
	t.Helper()
	tab, err := assaystat.NewTable(name, headers, cols)
	require.NoError(t, err)
	return tab
}

func TestResolve(t *testing.T) {
	eff := table(t, "Remdesivir_eff",
		[]string{"Conc", ColDMSO, ColCellsMediaVirus},
		[]float64{1, 2, 3},
		[]float64{100, 110, math.NaN()},
		[]float64{40, 50, 60},
	)
	ver := table(t, "Remdesivir_VeroE6",
		[]string{"Conc", ColDMSO, ColCellsMedia},
		[]float64{1, 2, 3},
		[]float64{90, 90, 90},
		[]float64{80, 82, 84},
	)

	for _, v := range []struct {
		t       *assaystat.Table
		solvent Solvent
		plate   PlateType
		want    float64
	}{
		{eff, DMSO, Viral, 105},
		{eff, NoDMSO, Viral, 50},
		{ver, DMSO, Drug, 90},
		{ver, NoDMSO, Drug, 82},
	} {
		got, err := Resolve(v.t, v.solvent, v.plate)
		require.NoError(t, err)
		assert.InDelta(t, v.want, got, 1e-12, "%s %s %s", v.t.Name, v.solvent, v.plate)
	}

	_, err := Resolve(ver, NoDMSO, Viral)
	assert.True(t, assaystat.IsDataError(err))

	_, err = Resolve(ver, DMSO, PlateType(0))
	assert.True(t, assaystat.IsConfigurationError(err))
}

func TestParsePlateType(t *testing.T) {
	p, err := ParsePlateType("viral plate")
	require.NoError(t, err)
	assert.Equal(t, Viral, p)

	p, err = ParsePlateType("Drug")
	require.NoError(t, err)
	assert.Equal(t, Drug, p)

	_, err = ParsePlateType("liver plate")
	assert.True(t, assaystat.IsConfigurationError(err))
}

func TestBounds(t *testing.T) {
	tab := table(t, "exp3_viral",
		[]string{ColDMSO, ColCellsMedia},
		[]float64{10, 20},
		[]float64{100, 120},
	)

	upper, lower, err := Bounds(tab, Viral)
	require.NoError(t, err)
	assert.Equal(t, 110.0, upper)
	assert.Equal(t, 15.0, lower)

	upper, lower, err = Bounds(tab, Drug)
	require.NoError(t, err)
	assert.Equal(t, 15.0, upper)
	assert.Equal(t, 0.0, lower)
}

func TestSubtractBlank(t *testing.T) {
	tab := table(t, "exp3_ac16",
		[]string{ColComboID, "1", "2", ColBlank},
		[]float64{1, 6},
		[]float64{10, 20},
		[]float64{30, 40},
		[]float64{2, 4},
	)

	out, err := SubtractBlank(tab)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 6}, out.Columns[0])
	assert.Equal(t, []float64{7, 17}, out.Columns[1])
	assert.Equal(t, []float64{27, 37}, out.Columns[2])
	assert.Equal(t, []float64{2, 4}, out.Columns[3])

	// The input is untouched
	assert.Equal(t, []float64{10, 20}, tab.Columns[1])
}

func TestPlateAverages(t *testing.T) {
	headers := []string{"DMSO Vero", "DMSO Cardiac", "No DMSO Cardiac", "Blank Cardiac", "DMSO Liver", "No DMSO Liver", "Blank Liver", "DMSO Eff", "Cells Eff"}
	plate := func(scale float64) *assaystat.Table {
		cols := make([][]float64, len(headers))
		for i := range headers {
			cols[i] = []float64{scale * float64(i+1), scale * float64(i+1), math.NaN()}
		}
		return table(t, "Controls", headers, cols...)
	}

	set, err := PlateAverages([]*assaystat.Table{plate(1), plate(2)}, OACDAssays)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	vero, err := set.Vector("DMSO Vero", 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, vero)

	// DMSO Cardiac (2) minus Blank Cardiac (4)
	v, err := set.Value(0, "DMSO Cardiac")
	require.NoError(t, err)
	assert.Equal(t, -2.0, v)

	// No DMSO Liver (6) is corrected with the cardiac blank (4), not the
	// liver blank (7)
	v, err = set.Value(1, "No DMSO Liver")
	require.NoError(t, err)
	assert.Equal(t, 2*6.0-2*4.0, v)

	v, err = set.Value(0, "DMSO Liver")
	require.NoError(t, err)
	assert.Equal(t, 5.0-7.0, v)

	_, err = set.Value(2, "DMSO Vero")
	assert.True(t, assaystat.IsDataError(err))
}

func TestPlateAveragesEmptyColumn(t *testing.T) {
	nan := math.NaN()
	p := table(t, "Controls", []string{"DMSO Vero", "Cells Eff"},
		[]float64{10, nan, 20, 30},
		[]float64{nan, nan, nan, nan},
	)

	set, err := PlateAverages([]*assaystat.Table{p}, map[Assay]AssayControls{Vero: OACDAssays[Vero]})
	require.NoError(t, err)

	v, err := set.Value(0, "DMSO Vero")
	require.NoError(t, err)
	assert.Equal(t, 20.0, v)

	v, err = set.Value(0, "Cells Eff")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))
}
