// Package hypothesis implements the significance tests used to compare plate
// groups, the Bonferroni correction policy, and the decision procedure that
// chooses between parametric and rank-based comparisons.
package hypothesis

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"
	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrSampleSize is returned when a group has too few usable observations.
var ErrSampleSize = errors.New("sample too small")

// Result is the statistic and (uncorrected) p-value of one test.
type Result struct {
	Test      string
	Statistic float64
	P         float64
}

func (r Result) String() string {
	return fmt.Sprintf("%s: statistic = %g, p = %g", r.Test, r.Statistic, r.P)
}

// Bartlett tests the null hypothesis that all groups have equal variance.
func Bartlett(groups ...[]float64) (Result, error) {
	k := len(groups)
	if k < 2 {
		return Result{}, fmt.Errorf("bartlett needs at least 2 groups, got %d: %w", k, ErrSampleSize)
	}

	var nTotal, pooled, sumLogVar, sumInv float64
	for i, g := range groups {
		g = dropNaN(g)
		if len(g) < 2 {
			return Result{}, fmt.Errorf("bartlett group %d has %d observations: %w", i, len(g), ErrSampleSize)
		}
		ni := float64(len(g))
		v := stat.Variance(g, nil)

		nTotal += ni
		pooled += (ni - 1) * v
		sumLogVar += (ni - 1) * math.Log(v)
		sumInv += 1 / (ni - 1)
	}

	df := nTotal - float64(k)
	pooled /= df

	numer := df*math.Log(pooled) - sumLogVar
	denom := 1 + (sumInv-1/df)/(3*float64(k-1))
	t := numer / denom

	return Result{
		Test:      "Bartlett",
		Statistic: t,
		P:         distuv.ChiSquared{K: float64(k - 1)}.Survival(t),
	}, nil
}

// TTest is the two-sided two-sample t-test. With equalVar it is Student's
// test on the pooled variance, otherwise Welch's test. Missing values are
// omitted. Two constant samples give a NaN p-value.
func TTest(a, b []float64, equalVar bool) (Result, error) {
	x1 := &stats.Sample{Xs: dropNaN(a)}
	x2 := &stats.Sample{Xs: dropNaN(b)}

	name := "Student t-test"
	test := stats.TwoSampleTTest
	if !equalVar {
		name = "Welch's t-test"
		test = stats.TwoSampleWelchTTest
	}

	res, err := test(x1, x2, stats.LocationDiffers)
	if errors.Is(err, stats.ErrZeroVariance) {
		return Result{Test: name, Statistic: math.NaN(), P: math.NaN()}, nil
	} else if err != nil {
		return Result{}, pfx.Err(err)
	}

	return Result{Test: name, Statistic: res.T, P: res.P}, nil
}

// RankSums is the Wilcoxon rank-sum test using the normal approximation,
// without tie or continuity correction.
func RankSums(a, b []float64) (Result, error) {
	a, b = dropNaN(a), dropNaN(b)
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 == 0 || n2 == 0 {
		return Result{}, fmt.Errorf("rank-sum needs two non-empty samples: %w", ErrSampleSize)
	}

	ranks := rank(append(append([]float64(nil), a...), b...))

	s := 0.0
	for _, r := range ranks[:len(a)] {
		s += r
	}

	expected := n1 * (n1 + n2 + 1) / 2
	z := (s - expected) / math.Sqrt(n1*n2*(n1+n2+1)/12)

	return Result{
		Test:      "Wilcoxon rank-sum",
		Statistic: z,
		P:         2 * distuv.UnitNormal.Survival(math.Abs(z)),
	}, nil
}

// KruskalWallis tests the null hypothesis that all groups share the same
// median, with the usual correction for ties.
func KruskalWallis(groups ...[]float64) (Result, error) {
	if len(groups) < 2 {
		return Result{}, fmt.Errorf("kruskal-wallis needs at least 2 groups, got %d: %w", len(groups), ErrSampleSize)
	}

	clean := make([][]float64, len(groups))
	for i, g := range groups {
		clean[i] = dropNaN(g)
		if len(clean[i]) == 0 {
			return Result{}, fmt.Errorf("kruskal-wallis group %d is empty: %w", i, ErrSampleSize)
		}
	}

	all := pool(clean)
	n := float64(len(all))
	ranks := rank(all)

	h, offset := 0.0, 0
	for _, g := range clean {
		sum := 0.0
		for _, r := range ranks[offset : offset+len(g)] {
			sum += r
		}
		h += sum * sum / float64(len(g))
		offset += len(g)
	}
	h = 12/(n*(n+1))*h - 3*(n+1)

	ties := 1 - tieSum(all)/(n*n*n-n)
	if ties == 0 {
		return Result{}, fmt.Errorf("kruskal-wallis: all numbers are identical: %w", ErrSampleSize)
	}
	h /= ties

	return Result{
		Test:      "Kruskal-Wallis",
		Statistic: h,
		P:         distuv.ChiSquared{K: float64(len(clean) - 1)}.Survival(h),
	}, nil
}

// Pair is one pairwise comparison between groups i and j (0-based, i < j).
type Pair struct {
	I, J int
	Z    float64
	P    float64
}

// Dunn runs Dunn's pairwise test after a Kruskal-Wallis test. P-values are
// two-sided, tie-corrected, and Bonferroni-adjusted over all k(k−1)/2 pairs
// (capped at 1).
func Dunn(groups ...[]float64) ([]Pair, error) {
	clean := make([][]float64, len(groups))
	for i, g := range groups {
		clean[i] = dropNaN(g)
		if len(clean[i]) == 0 {
			return nil, fmt.Errorf("dunn group %d is empty: %w", i, ErrSampleSize)
		}
	}

	all := pool(clean)
	n := float64(len(all))
	if n < 2 {
		return nil, fmt.Errorf("dunn needs at least 2 observations: %w", ErrSampleSize)
	}
	ranks := rank(all)

	meanRank := make([]float64, len(clean))
	offset := 0
	for i, g := range clean {
		for _, r := range ranks[offset : offset+len(g)] {
			meanRank[i] += r
		}
		meanRank[i] /= float64(len(g))
		offset += len(g)
	}

	a := n * (n + 1) / 12
	ties := tieSum(all) / (12 * (n - 1))
	nPairs := float64(len(clean) * (len(clean) - 1) / 2)

	var out []Pair
	for i := 0; i < len(clean); i++ {
		for j := i + 1; j < len(clean); j++ {
			b := 1/float64(len(clean[i])) + 1/float64(len(clean[j]))
			z := math.Abs(meanRank[i]-meanRank[j]) / math.Sqrt((a-ties)*b)
			p := 2 * distuv.UnitNormal.Survival(z)
			out = append(out, Pair{I: i, J: j, Z: z, P: Bonferroni(p, nPairs)})
		}
	}

	return out, nil
}

// Bonferroni multiplies p by factor and caps the result at 1.
func Bonferroni(p, factor float64) float64 {
	p *= factor
	if p > 1 {
		return 1
	}
	return p
}
