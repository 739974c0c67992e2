package hypothesis

import (
	"fmt"

	"github.com/carbocation/assaystat"
	"github.com/carbocation/pfx"
)

// Procedure decides, per experiment, whether groups are compared with
// parametric tests or rank tests, and applies the correction policy.
type Procedure struct {
	Alpha       float64
	Corrections CorrectionPolicy

	// AssumeNonNormal lists experiments whose normality check is skipped
	// because their groups are too small (n=3) for it to mean anything.
	AssumeNonNormal map[assaystat.ExperimentTag]bool
}

// NewProcedure returns the procedure of the DMSO vehicle study.
func NewProcedure() *Procedure {
	return &Procedure{
		Alpha:       Alpha,
		Corrections: DefaultCorrections,
		AssumeNonNormal: map[assaystat.ExperimentTag]bool{
			assaystat.Exp3: true,
		},
	}
}

// ColumnNormality is the Shapiro-Wilk outcome for one column.
type ColumnNormality struct {
	Column string
	Result
	Reject bool
}

// Normality is the outcome of the normality check of one sheet.
type Normality struct {
	Sheet      string
	Experiment assaystat.ExperimentTag
	Skipped    bool
	Columns    []ColumnNormality
	Reject     bool
}

// Normality runs Shapiro-Wilk on every column of t. Normality is rejected if
// any column has p < Alpha. Experiments listed in AssumeNonNormal skip the
// test and are always rejected.
func (p *Procedure) Normality(t *assaystat.Table) (Normality, error) {
	out := Normality{Sheet: t.Name, Experiment: t.Tag}

	if p.AssumeNonNormal[t.Tag] {
		out.Skipped = true
		out.Reject = true
		return out, nil
	}

	for i, name := range t.Headers {
		res, err := ShapiroWilk(t.Columns[i])
		if err != nil {
			return out, &assaystat.DataError{Sheet: t.Name, Column: name, Err: err}
		}

		col := ColumnNormality{Column: name, Result: res, Reject: res.P < p.Alpha}
		out.Reject = out.Reject || col.Reject
		out.Columns = append(out.Columns, col)
	}

	return out, nil
}

// Comparison is the outcome of comparing two columns of one sheet. All
// p-values are Bonferroni-corrected.
type Comparison struct {
	Sheet         string
	A, B          string
	NonParametric bool

	// Variance is Bartlett's test; only set on the parametric path.
	Variance      *Result
	EqualVariance bool

	Test        Result
	Significant bool
}

// Compare tests columns a and b of t for a difference. The rank-sum test is
// used on the non-parametric path. Otherwise Bartlett's test picks Student's
// (equal variance) or Welch's t-test. Each p-value is corrected with the
// pairwise factor of the sheet's experiment.
func (p *Procedure) Compare(t *assaystat.Table, a, b string, nonParametric bool) (Comparison, error) {
	out := Comparison{Sheet: t.Name, A: a, B: b, NonParametric: nonParametric}

	x, err := t.Column(a)
	if err != nil {
		return out, err
	}
	y, err := t.Column(b)
	if err != nil {
		return out, err
	}

	if nonParametric {
		res, err := RankSums(x, y)
		if err != nil {
			return out, &assaystat.DataError{Sheet: t.Name, Err: err}
		}
		if res.P, err = p.Corrections.Correct(res.P, t.Tag, Pairwise); err != nil {
			return out, err
		}
		out.Test = res
		out.Significant = res.P < p.Alpha
		return out, nil
	}

	variance, err := Bartlett(x, y)
	if err != nil {
		return out, &assaystat.DataError{Sheet: t.Name, Err: err}
	}
	if variance.P, err = p.Corrections.Correct(variance.P, t.Tag, Pairwise); err != nil {
		return out, err
	}
	out.Variance = &variance
	out.EqualVariance = !(variance.P < p.Alpha)

	res, err := TTest(x, y, out.EqualVariance)
	if err != nil {
		return out, &assaystat.DataError{Sheet: t.Name, Err: err}
	}
	if res.P, err = p.Corrections.Correct(res.P, t.Tag, Pairwise); err != nil {
		return out, err
	}
	out.Test = res
	out.Significant = res.P < p.Alpha

	return out, nil
}

// Report is the outcome of running the full procedure over a set of sheets.
type Report struct {
	Normality   []Normality
	Rejected    map[assaystat.ExperimentTag]bool
	Comparisons []Comparison
}

// Run checks normality sheet by sheet, pools the verdict per experiment (one
// rejecting sheet rejects its experiment), then compares columns a and b of
// every sheet on the path chosen for its experiment.
func (p *Procedure) Run(tables []*assaystat.Table, a, b string) (Report, error) {
	out := Report{Rejected: make(map[assaystat.ExperimentTag]bool)}

	for _, t := range tables {
		if _, exists := p.Corrections[t.Tag]; !exists {
			return out, &assaystat.ConfigurationError{Kind: "sheet", Value: t.Name}
		}

		n, err := p.Normality(t)
		if err != nil {
			return out, pfx.Err(err)
		}
		out.Normality = append(out.Normality, n)
		out.Rejected[t.Tag] = out.Rejected[t.Tag] || n.Reject
	}

	for _, t := range tables {
		c, err := p.Compare(t, a, b, out.Rejected[t.Tag])
		if err != nil {
			return out, pfx.Err(err)
		}
		out.Comparisons = append(out.Comparisons, c)
	}

	return out, nil
}

// GroupComparison is the outcome of a Kruskal-Wallis test across groups,
// followed by Dunn's test when the omnibus test is significant.
type GroupComparison struct {
	Omnibus     Result
	EffectSize  float64
	Significant bool

	// Pairs holds only the significant pairs, with Bonferroni-adjusted
	// p-values.
	Pairs []Pair
}

// KruskalDunn compares k groups. The effect size is H / ((n²−1)/(n+1)) over
// all n observations.
func (p *Procedure) KruskalDunn(groups [][]float64) (GroupComparison, error) {
	var out GroupComparison

	res, err := KruskalWallis(groups...)
	if err != nil {
		return out, pfx.Err(err)
	}
	out.Omnibus = res

	n := 0.0
	for _, g := range groups {
		n += float64(len(dropNaN(g)))
	}
	out.EffectSize = res.Statistic / ((n*n - 1) / (n + 1))

	if !(res.P < p.Alpha) {
		return out, nil
	}
	out.Significant = true

	pairs, err := Dunn(groups...)
	if err != nil {
		return out, pfx.Err(err)
	}
	for _, pair := range pairs {
		if pair.P < p.Alpha {
			out.Pairs = append(out.Pairs, pair)
		}
	}

	return out, nil
}

func (c Comparison) String() string {
	verdict := "no effect"
	if c.Significant {
		verdict = "effect"
	}
	return fmt.Sprintf("%s: %s vs %s, %s, p = %g (%s)", c.Sheet, c.A, c.B, c.Test.Test, c.Test.P, verdict)
}
