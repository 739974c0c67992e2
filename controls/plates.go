package controls

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/assaystat"
	"github.com/montanaflynn/stats"
)

// Assay names a cell line read on the combination (OACD) plates.
type Assay string

const (
	Efficacy Assay = "Efficacy"
	Vero     Assay = "VeroE6"
	Cardiac  Assay = "AC16"
	Liver    Assay = "THLE-2"
)

// BlankRule subtracts the averaged Blank column from the averaged Column of
// the same control plate.
type BlankRule struct {
	Column string
	Blank  string
}

// AssayControls names the control columns of one assay on the Controls
// sheet.
type AssayControls struct {
	// Vehicle is the upper bound (cells with vehicle only).
	Vehicle string

	// Virus is the lower bound of an efficacy assay (cells with virus and
	// vehicle).
	Virus string

	// Blank, when set, is subtracted from the drug wells before
	// normalization.
	Blank string

	// Adjust lists the control columns corrected by a blank average.
	Adjust []BlankRule
}

// OACDAssays is the control layout of the OACD Controls sheet. Only the
// cardiac and liver assays carry blank wells. The liver "No DMSO" column is
// corrected with the cardiac blank; results published from this pipeline
// depend on that rule, so it is kept as is.
var OACDAssays = map[Assay]AssayControls{
	Efficacy: {Vehicle: "Cells Eff", Virus: "DMSO Eff"},
	Vero:     {Vehicle: "DMSO Vero"},
	Cardiac: {
		Vehicle: "DMSO Cardiac",
		Blank:   "Blank Cardiac",
		Adjust: []BlankRule{
			{Column: "DMSO Cardiac", Blank: "Blank Cardiac"},
			{Column: "No DMSO Cardiac", Blank: "Blank Cardiac"},
		},
	},
	Liver: {
		Vehicle: "DMSO Liver",
		Blank:   "Blank Liver",
		Adjust: []BlankRule{
			{Column: "DMSO Liver", Blank: "Blank Liver"},
			{Column: "No DMSO Liver", Blank: "Blank Cardiac"},
		},
	},
}

// ControlSet holds the averaged (and blank-corrected) control wells of a
// series of control plates.
type ControlSet struct {
	plates []map[string]float64
}

// PlateAverages averages every column of every control plate, skipping
// missing wells, and then applies the blank rules of all assays.
func PlateAverages(plates []*assaystat.Table, assays map[Assay]AssayControls) (*ControlSet, error) {
	out := &ControlSet{plates: make([]map[string]float64, 0, len(plates))}

	for _, plate := range plates {
		avg := make(map[string]float64, plate.Width())
		for i, name := range plate.Headers {
			m, err := stats.Mean(present(plate.Columns[i]))
			if errors.Is(err, stats.ErrEmptyInput) {
				// An all-missing column averages to NaN, as a zero count would.
				m = math.NaN()
			} else if err != nil {
				return nil, &assaystat.DataError{Sheet: plate.Name, Column: name, Err: err}
			}
			avg[name] = m
		}

		// Blank columns are never themselves adjusted, so rule order does
		// not matter. Iterate in a stable order anyway.
		for _, assay := range sortedAssays(assays) {
			for _, rule := range assays[assay].Adjust {
				col, exists := avg[rule.Column]
				if !exists {
					return nil, &assaystat.DataError{Sheet: plate.Name, Column: rule.Column, Err: assaystat.ErrMissingColumn}
				}
				blank, exists := avg[rule.Blank]
				if !exists {
					return nil, &assaystat.DataError{Sheet: plate.Name, Column: rule.Blank, Err: assaystat.ErrMissingColumn}
				}
				avg[rule.Column] = col - blank
			}
		}

		out.plates = append(out.plates, avg)
	}

	return out, nil
}

// Len is the number of control plates.
func (c *ControlSet) Len() int {
	return len(c.plates)
}

// Value returns the averaged control column of one plate (0-based).
func (c *ControlSet) Value(plate int, column string) (float64, error) {
	if plate < 0 || plate >= len(c.plates) {
		return 0, &assaystat.DataError{Column: column, Err: fmt.Errorf("control plate %d out of range [0, %d)", plate, len(c.plates))}
	}

	v, exists := c.plates[plate][column]
	if !exists {
		return 0, &assaystat.DataError{Sheet: fmt.Sprintf("Controls plate %d", plate+1), Column: column, Err: assaystat.ErrMissingColumn}
	}

	return v, nil
}

// Vector returns the averaged control column for each of the given plates, in
// order. Each entry becomes the control of one replicate column.
func (c *ControlSet) Vector(column string, plates ...int) ([]float64, error) {
	out := make([]float64, 0, len(plates))
	for _, p := range plates {
		v, err := c.Value(p, column)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}

// sortedAssays returns the assays of m in a stable order.
func sortedAssays(m map[Assay]AssayControls) []Assay {
	out := make([]Assay, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
