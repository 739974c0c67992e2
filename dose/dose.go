// Package dose substitutes ordinal dose-level codes with real drug
// concentrations and checks the resulting design matrix for linear
// dependencies.
package dose

import (
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/assaystat"
)

// LevelColumn is the header of the dose-level codes on the Conc_table sheet.
const LevelColumn = "Dose level"

// ConcTable maps each dose-level code to a concentration, per drug.
type ConcTable struct {
	Levels []float64
	Conc   map[string][]float64
}

// ConcTableFromTable reads a concentration lookup whose level codes are in
// levelColumn and whose other columns are named after drugs.
func ConcTableFromTable(t *assaystat.Table, levelColumn string) (*ConcTable, error) {
	levels, err := t.Column(levelColumn)
	if err != nil {
		return nil, err
	}

	out := &ConcTable{
		Levels: append([]float64(nil), levels...),
		Conc:   make(map[string][]float64, t.Width()-1),
	}
	for i, name := range t.Headers {
		if name == levelColumn {
			continue
		}
		out.Conc[name] = append([]float64(nil), t.Columns[i]...)
	}

	return out, nil
}

// Lookup returns the concentration of drug at a level code. The second
// return is false when the code is not a known level.
func (c *ConcTable) Lookup(drug string, level float64) (float64, bool, error) {
	conc, exists := c.Conc[drug]
	if !exists {
		return 0, false, &assaystat.DataError{Sheet: "Conc_table", Column: drug, Err: assaystat.ErrMissingColumn}
	}

	for i, l := range c.Levels {
		if l == level {
			return conc[i], true, nil
		}
	}

	return level, false, nil
}

// Unmapped lists, per drug, the distinct level codes that had no entry in
// the lookup and were left as they were.
type Unmapped map[string][]float64

func (u Unmapped) add(drug string, v float64) {
	for _, seen := range u[drug] {
		if seen == v || (math.IsNaN(seen) && math.IsNaN(v)) {
			return
		}
	}
	u[drug] = append(u[drug], v)
}

// Drugs returns the drugs with unmapped codes, sorted.
func (u Unmapped) Drugs() []string {
	out := make([]string, 0, len(u))
	for k := range u {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (u Unmapped) String() string {
	s := ""
	for i, d := range u.Drugs() {
		if i > 0 {
			s += "; "
		}
		s += fmt.Sprintf("%s: %v", d, u[d])
	}
	return s
}

// Map substitutes every dose-level code in levels (one column per drug) with
// its concentration. Matching is exact. A code that is not in the lookup is
// passed through unchanged and reported in Unmapped; callers must decide
// whether that is acceptable.
func Map(levels *assaystat.Table, conc *ConcTable) (*assaystat.Table, Unmapped, error) {
	out := levels.Clone()
	unmapped := make(Unmapped)

	for c, drug := range out.Headers {
		col := out.Columns[c]
		for r, code := range col {
			v, found, err := conc.Lookup(drug, code)
			if err != nil {
				return nil, nil, err
			}
			if !found {
				unmapped.add(drug, code)
				continue
			}
			col[r] = v
		}
	}

	return out, unmapped, nil
}
