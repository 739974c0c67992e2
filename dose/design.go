package dose

import (
	"math"

	"github.com/carbocation/assaystat"
	"gonum.org/v1/gonum/mat"
)

// PolynomialFeatures expands the columns of x into all monomials of degree 1
// through degree, without a bias column. Within each degree, terms follow
// the combinations-with-replacement order of the input columns: for two
// columns a, b and degree 2 the output is a, b, a², ab, b².
func PolynomialFeatures(x *mat.Dense, degree int) *mat.Dense {
	rows, cols := x.Dims()

	var terms [][]int
	for d := 1; d <= degree; d++ {
		terms = append(terms, combinations(cols, d)...)
	}

	out := mat.NewDense(rows, len(terms), nil)
	for r := 0; r < rows; r++ {
		for j, term := range terms {
			v := 1.0
			for _, c := range term {
				v *= x.At(r, c)
			}
			out.Set(r, j, v)
		}
	}

	return out
}

// combinations returns the non-decreasing index tuples of length k over n
// columns, in lexicographic order.
func combinations(n, k int) [][]int {
	var out [][]int

	var walk func(start int, prefix []int)
	walk = func(start int, prefix []int) {
		if len(prefix) == k {
			out = append(out, append([]int(nil), prefix...))
			return
		}
		for i := start; i < n; i++ {
			walk(i, append(prefix, i))
		}
	}
	walk(0, nil)

	return out
}

// Rank is the numerical rank of m: the number of singular values above
// max(σ) · max(rows, cols) · ε.
func Rank(m mat.Matrix) int {
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return 0
	}

	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDNone); !ok {
		return 0
	}

	eps := math.Nextafter(1, 2) - 1
	return svd.Rank(float64(max(rows, cols)) * eps)
}

// Dependency is the outcome of a linear-independence check.
type Dependency struct {
	Rank    int
	Columns int
}

// Independent reports whether the design matrix has full column rank.
func (d Dependency) Independent() bool {
	return d.Rank == d.Columns
}

// CheckLinearDependency builds the degree-2 polynomial design matrix from the
// concentration table and compares its rank with its column count. A
// dependency is a warning for the caller, not an error.
func CheckLinearDependency(conc *assaystat.Table) Dependency {
	if conc.Rows() == 0 || conc.Width() == 0 {
		return Dependency{}
	}

	x := mat.NewDense(conc.Rows(), conc.Width(), nil)
	for c, col := range conc.Columns {
		for r, v := range col {
			x.Set(r, c, v)
		}
	}

	design := PolynomialFeatures(x, 2)
	_, cols := design.Dims()

	return Dependency{Rank: Rank(design), Columns: cols}
}
