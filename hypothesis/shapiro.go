package hypothesis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Coefficients of Royston's (1995) approximation, algorithm AS R94.
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

// ShapiroWilk tests the null hypothesis that x was drawn from a normal
// distribution. Missing values are dropped; at least 3 observations are
// required.
func ShapiroWilk(x []float64) (Result, error) {
	x = dropNaN(x)
	n := len(x)
	if n < 3 {
		return Result{}, fmt.Errorf("shapiro-wilk needs at least 3 observations, got %d: %w", n, ErrSampleSize)
	}

	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	if sorted[n-1]-sorted[0] < 1e-19 {
		return Result{}, fmt.Errorf("shapiro-wilk: all values are identical: %w", ErrSampleSize)
	}

	coef := shapiroCoefficients(n)

	// W is the squared correlation between the ordered sample and the
	// antisymmetric coefficients.
	mean := 0.0
	for _, v := range sorted {
		mean += v
	}
	mean /= float64(n)

	var sax, ssa, ssx float64
	for i, v := range sorted {
		sax += coef[i] * (v - mean)
		ssa += coef[i] * coef[i]
		ssx += (v - mean) * (v - mean)
	}
	w := sax * sax / (ssa * ssx)
	if w > 1 {
		w = 1
	}

	return Result{Test: "Shapiro-Wilk", Statistic: w, P: shapiroP(w, n)}, nil
}

// shapiroCoefficients returns the full antisymmetric coefficient vector for
// a sorted sample of size n.
func shapiroCoefficients(n int) []float64 {
	half := n / 2
	a := make([]float64, half+1) // 1-based, as in the published algorithm

	if n == 3 {
		a[1] = math.Sqrt(0.5)
	} else {
		an25 := float64(n) + 0.25
		m := make([]float64, half+1)
		summ2 := 0.0
		for i := 1; i <= half; i++ {
			m[i] = distuv.UnitNormal.Quantile((float64(i) - 0.375) / an25)
			summ2 += m[i] * m[i]
		}
		summ2 *= 2
		ssumm2 := math.Sqrt(summ2)
		rsn := 1 / math.Sqrt(float64(n))

		a1 := poly(swC1, rsn) - m[1]/ssumm2

		var i1 int
		var fac float64
		if n > 5 {
			i1 = 3
			a2 := -m[2]/ssumm2 + poly(swC2, rsn)
			fac = math.Sqrt((summ2 - 2*m[1]*m[1] - 2*m[2]*m[2]) / (1 - 2*a1*a1 - 2*a2*a2))
			a[2] = a2
		} else {
			i1 = 2
			fac = math.Sqrt((summ2 - 2*m[1]*m[1]) / (1 - 2*a1*a1))
		}
		a[1] = a1

		for i := i1; i <= half; i++ {
			a[i] = -m[i] / fac
		}
	}

	coef := make([]float64, n)
	for i := 1; i <= half; i++ {
		coef[i-1] = -a[i]
		coef[n-i] = a[i]
	}

	return coef
}

func shapiroP(w float64, n int) float64 {
	if n == 3 {
		const pi6, stqr = 6 / math.Pi, math.Pi / 3
		p := pi6 * (math.Asin(math.Sqrt(w)) - stqr)
		return math.Max(p, 0)
	}

	w1 := math.Log(1 - w)
	an := float64(n)

	var m, s float64
	if n <= 11 {
		gamma := poly(swG, an)
		if w1 >= gamma {
			return 1e-99
		}
		w1 = -math.Log(gamma - w1)
		m = poly(swC3, an)
		s = math.Exp(poly(swC4, an))
	} else {
		xx := math.Log(an)
		m = poly(swC5, xx)
		s = math.Exp(poly(swC6, xx))
	}

	return distuv.UnitNormal.Survival((w1 - m) / s)
}

// poly evaluates c[0] + c[1]x + c[2]x² + ...
func poly(c []float64, x float64) float64 {
	out := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		out = out*x + c[i]
	}
	return out
}
