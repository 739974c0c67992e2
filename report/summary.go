// Package report turns normalized plate tables into the result workbooks and
// bar charts handed to the downstream regression and figure scripts.
package report

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/carbocation/assaystat"
	"gonum.org/v1/gonum/stat"
)

const (
	ColAverage = "average"
	ColStdev   = "stdev"
)

// RowStats returns the mean and sample standard deviation of every row of t,
// skipping missing values. A row with no values has a NaN mean, and a row
// with fewer than two values has a NaN standard deviation.
func RowStats(t *assaystat.Table) (means, stdevs []float64) {
	means = make([]float64, t.Rows())
	stdevs = make([]float64, t.Rows())

	for i := 0; i < t.Rows(); i++ {
		var vals []float64
		for _, v := range t.Row(i) {
			if !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}

		means[i], stdevs[i] = math.NaN(), math.NaN()
		if len(vals) > 0 {
			means[i] = stat.Mean(vals, nil)
		}
		if len(vals) > 1 {
			means[i], stdevs[i] = stat.MeanStdDev(vals, nil)
		}
	}

	return means, stdevs
}

// AverageStdev returns a copy of t with "average" and "stdev" columns
// appended, computed across all of t's columns.
func AverageStdev(t *assaystat.Table) *assaystat.Table {
	means, stdevs := RowStats(t)

	out := t.Clone()
	out.Headers = append(out.Headers, ColAverage, ColStdev)
	out.Columns = append(out.Columns, means, stdevs)

	return out
}

// WithID returns a copy of t with an identifier column placed first.
func WithID(name string, ids []float64, t *assaystat.Table) (*assaystat.Table, error) {
	out := t.Clone()
	if err := out.InsertColumn(0, name, append([]float64(nil), ids...)); err != nil {
		return nil, err
	}
	return out, nil
}

// SortByOrder keeps the rows of t named by combos (1-based combination
// numbers) and orders them by order, which gives the plotting position of
// every combination (order[c-1] for combination c). It returns the sorted
// table and the combination numbers as tick labels.
func SortByOrder(t *assaystat.Table, combos, order []int) (*assaystat.Table, []string, error) {
	if len(order) != t.Rows() {
		return nil, nil, &assaystat.DataError{Sheet: t.Name, Err: fmt.Errorf("custom order has %d entries for %d combinations", len(order), t.Rows())}
	}

	sorted := append([]int(nil), combos...)
	for _, c := range sorted {
		if c < 1 || c > len(order) {
			return nil, nil, &assaystat.DataError{Sheet: t.Name, Err: fmt.Errorf("combination %d out of range [1, %d]", c, len(order))}
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return order[sorted[i]-1] < order[sorted[j]-1] })

	rows := make([]int, 0, len(sorted))
	labels := make([]string, 0, len(sorted))
	for _, c := range sorted {
		rows = append(rows, c-1)
		labels = append(labels, strconv.Itoa(c))
	}

	out, err := t.SelectRows(rows)
	if err != nil {
		return nil, nil, err
	}

	return out, labels, nil
}

// SelectCombos keeps the rows of t named by combos (1-based), in the given
// order.
func SelectCombos(t *assaystat.Table, combos []int) (*assaystat.Table, error) {
	rows := make([]int, 0, len(combos))
	for _, c := range combos {
		rows = append(rows, c-1)
	}
	return t.SelectRows(rows)
}

// Groups returns every row of t as one group, for tests that compare
// combinations across their replicates.
func Groups(t *assaystat.Table) [][]float64 {
	out := make([][]float64, 0, t.Rows())
	for i := 0; i < t.Rows(); i++ {
		out = append(out, t.Row(i))
	}
	return out
}
