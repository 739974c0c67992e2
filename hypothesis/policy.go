package hypothesis

import (
	"github.com/carbocation/assaystat"
)

// Alpha is the significance level used throughout.
const Alpha = 0.05

// Mode says whether a comparison is a single comparison or one of a pair.
type Mode string

const (
	Single   Mode = "single"
	Pairwise Mode = "pair"
)

// ParseMode accepts "single" or "pair".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Single, Pairwise:
		return Mode(s), nil
	}
	return "", &assaystat.ConfigurationError{Kind: "mode", Value: s}
}

// Factors are the Bonferroni multipliers of one experiment.
type Factors struct {
	Single float64
	Pair   float64
}

// CorrectionPolicy holds the Bonferroni multiplier for each experiment. The
// multipliers reflect how many comparisons each experiment's design makes.
type CorrectionPolicy map[assaystat.ExperimentTag]Factors

// DefaultCorrections is the correction table of the DMSO vehicle study.
var DefaultCorrections = CorrectionPolicy{
	assaystat.Exp1: {Single: 4, Pair: 2},
	assaystat.Exp2: {Single: 8, Pair: 4},
	assaystat.Exp3: {Single: 4, Pair: 2},
}

// Factor returns the multiplier for an experiment and mode.
func (c CorrectionPolicy) Factor(exp assaystat.ExperimentTag, mode Mode) (float64, error) {
	f, exists := c[exp]
	if !exists {
		return 0, &assaystat.ConfigurationError{Kind: "experiment", Value: exp.String()}
	}

	switch mode {
	case Single:
		return f.Single, nil
	case Pairwise:
		return f.Pair, nil
	}

	return 0, &assaystat.ConfigurationError{Kind: "mode", Value: string(mode)}
}

// Correct applies the experiment's Bonferroni multiplier to p, capped at 1.
func (c CorrectionPolicy) Correct(p float64, exp assaystat.ExperimentTag, mode Mode) (float64, error) {
	f, err := c.Factor(exp, mode)
	if err != nil {
		return 0, err
	}
	return Bonferroni(p, f), nil
}
