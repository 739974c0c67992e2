package hypothesis

import (
	"math"
	"sort"
)

// rank assigns 1-based ranks to x, giving tied values the average of the
// ranks they span.
func rank(x []float64) []float64 {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return x[idx[i]] < x[idx[j]] })

	out := make([]float64, len(x))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && x[idx[j+1]] == x[idx[i]] {
			j++
		}

		// Positions i..j (0-based) share ranks i+1..j+1
		avg := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}

	return out
}

// tieSum returns Σ(t³ − t) over every group of t tied values in x.
func tieSum(x []float64) float64 {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	sum := 0.0
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1] == sorted[i] {
			j++
		}
		if t := float64(j - i + 1); t > 1 {
			sum += t*t*t - t
		}
		i = j + 1
	}

	return sum
}

// dropNaN returns the non-missing values of x.
func dropNaN(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func pool(groups [][]float64) []float64 {
	var out []float64
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
