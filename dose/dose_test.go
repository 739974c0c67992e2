package dose

import (
	"testing"

	"github.com/carbocation/assaystat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func concTable(t *testing.T) *ConcTable {
	t.Helper()
	tab, err := assaystat.NewTable("Conc_table", []string{LevelColumn, "Remdesivir", "Ribavirin"}, [][]float64{
		{1, 2, 3},
		{0.1, 0.5, 2.5},
		{10, 50, 250},
	})
	require.NoError(t, err)

	c, err := ConcTableFromTable(tab, LevelColumn)
	require.NoError(t, err)
	return c
}

func TestMap(t *testing.T) {
	levels, err := assaystat.NewTable("OACD", []string{"Remdesivir", "Ribavirin"}, [][]float64{
		{1, 3, 0, 2},
		{2, 2, 1, 7},
	})
	require.NoError(t, err)

	out, unmapped, err := Map(levels, concTable(t))
	require.NoError(t, err)

	assert.Equal(t, []float64{0.1, 2.5, 0, 0.5}, out.Columns[0])
	assert.Equal(t, []float64{50, 50, 10, 7}, out.Columns[1])

	// Codes absent from the lookup pass through unchanged
	assert.Equal(t, Unmapped{"Remdesivir": {0}, "Ribavirin": {7}}, unmapped)
	assert.Equal(t, []string{"Remdesivir", "Ribavirin"}, unmapped.Drugs())

	// The input is untouched
	assert.Equal(t, []float64{1, 3, 0, 2}, levels.Columns[0])
}

func TestMapUnknownDrug(t *testing.T) {
	levels, err := assaystat.NewTable("OACD", []string{"Favipiravir"}, [][]float64{{1}})
	require.NoError(t, err)

	_, _, err = Map(levels, concTable(t))
	assert.True(t, assaystat.IsDataError(err))
}

func TestPolynomialFeatures(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{
		2, 3,
		4, 5,
	})

	got := PolynomialFeatures(x, 2)
	want := mat.NewDense(2, 5, []float64{
		2, 3, 4, 6, 9,
		4, 5, 16, 20, 25,
	})
	assert.True(t, mat.Equal(got, want), "got %v", mat.Formatted(got))

	_, c := PolynomialFeatures(mat.NewDense(1, 3, []float64{1, 2, 3}), 2).Dims()
	assert.Equal(t, 9, c)
}

func TestRank(t *testing.T) {
	assert.Equal(t, 2, Rank(mat.NewDense(3, 2, []float64{1, 0, 0, 1, 1, 1})))
	assert.Equal(t, 1, Rank(mat.NewDense(3, 2, []float64{1, 2, 2, 4, 3, 6})))
	assert.Equal(t, 0, Rank(mat.NewDense(2, 2, nil)))

	// Singular values below max(σ)·max(rows, cols)·ε do not count.
	assert.Equal(t, 1, Rank(mat.NewDense(3, 2, []float64{1, 1e-20, 2, 0, 3, 0})))
	assert.Equal(t, 2, Rank(mat.NewDense(3, 2, []float64{1, 1e-10, 2, 0, 3, 0})))
}

func TestCheckLinearDependency(t *testing.T) {
	// Two drugs at three levels each, full factorial: 9 runs, 5 terms.
	var a, b []float64
	for _, x := range []float64{1, 2, 3} {
		for _, y := range []float64{10, 20, 30} {
			a = append(a, x)
			b = append(b, y)
		}
	}
	conc, err := assaystat.NewTable("X_conc", []string{"A", "B"}, [][]float64{a, b})
	require.NoError(t, err)

	dep := CheckLinearDependency(conc)
	assert.Equal(t, 5, dep.Columns)
	assert.True(t, dep.Independent())

	// B is always twice A, so A·B, A² and B² collapse
	dup, err := assaystat.NewTable("X_conc", []string{"A", "B"}, [][]float64{{1, 2, 3, 4}, {2, 4, 6, 8}})
	require.NoError(t, err)
	dep = CheckLinearDependency(dup)
	assert.False(t, dep.Independent())
	assert.Equal(t, 2, dep.Rank)
}
