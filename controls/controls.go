// Package controls resolves the per-plate control values (vehicle, virus and
// blank wells) against which raw plate readings are normalized.
package controls

import (
	"math"
	"strings"

	"github.com/carbocation/assaystat"
	"github.com/carbocation/pfx"
	"github.com/montanaflynn/stats"
)

// Control column headers used by the plate-reader templates.
const (
	ColDMSO            = "DMSO (G10-12)"
	ColCellsMedia      = "Cells+media (H)"
	ColCellsMediaVirus = "Cells+media+virus (H)"
	ColBlank           = "Blank"
	ColComboID         = "Combo_ID"
)

// Solvent records whether a drug was dissolved in DMSO.
type Solvent int

const (
	NoDMSO Solvent = 0
	DMSO   Solvent = 1
)

// SolventFromFlag interprets the 0/1 value of the Solvent sheet.
func SolventFromFlag(v float64) Solvent {
	if v == 0 {
		return NoDMSO
	}
	return DMSO
}

func (s Solvent) String() string {
	if s == DMSO {
		return "DMSO"
	}
	return "no DMSO"
}

// PlateType distinguishes the virus-infected efficacy plate from the
// uninfected cytotoxicity plate.
type PlateType int

const (
	Viral PlateType = iota + 1
	Drug
)

// ParsePlateType accepts "viral"/"viral plate" and "drug"/"drug plate".
func ParsePlateType(s string) (PlateType, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), " plate") {
	case "viral":
		return Viral, nil
	case "drug":
		return Drug, nil
	}

	return 0, &assaystat.ConfigurationError{Kind: "plate", Value: s}
}

func (p PlateType) String() string {
	switch p {
	case Viral:
		return "viral plate"
	case Drug:
		return "drug plate"
	}
	return "unknown plate"
}

// Mean averages a column, skipping missing (NaN) wells.
func Mean(t *assaystat.Table, column string) (float64, error) {
	col, err := t.Column(column)
	if err != nil {
		return 0, err
	}

	m, err := stats.Mean(present(col))
	if err != nil {
		return 0, &assaystat.DataError{Sheet: t.Name, Column: column, Err: err}
	}

	return m, nil
}

// present drops the missing (NaN) wells of a column.
func present(col []float64) stats.Float64Data {
	out := make(stats.Float64Data, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}

	return out
}

// Resolve returns the control value of a monotherapy plate. When the drug was
// dissolved in DMSO the DMSO vehicle wells are the control. Otherwise the
// untreated wells are used: cells with media on the drug plate, cells with
// media and virus on the viral plate.
func Resolve(t *assaystat.Table, solvent Solvent, plate PlateType) (float64, error) {
	if plate != Viral && plate != Drug {
		return 0, &assaystat.ConfigurationError{Kind: "plate", Value: plate.String()}
	}

	if solvent == DMSO {
		return Mean(t, ColDMSO)
	}

	if plate == Drug {
		return Mean(t, ColCellsMedia)
	}

	return Mean(t, ColCellsMediaVirus)
}

// Bounds returns the upper and lower normalization bounds of a validation
// plate. On a drug plate the upper bound is the DMSO vehicle and the lower
// bound is zero. On a viral plate the DMSO (virus) wells become the lower
// bound and uninfected cells with media the upper bound.
func Bounds(t *assaystat.Table, plate PlateType) (upper, lower float64, err error) {
	upper, err = Mean(t, ColDMSO)
	if err != nil {
		return 0, 0, pfx.Err(err)
	}

	switch plate {
	case Drug:
		return upper, 0, nil
	case Viral:
		lower = upper
		upper, err = Mean(t, ColCellsMedia)
		if err != nil {
			return 0, 0, pfx.Err(err)
		}
		return upper, lower, nil
	}

	return 0, 0, &assaystat.ConfigurationError{Kind: "plate", Value: plate.String()}
}

// SubtractBlank subtracts the mean of the Blank wells from every column other
// than Combo_ID and Blank itself.
func SubtractBlank(t *assaystat.Table) (*assaystat.Table, error) {
	blank, err := Mean(t, ColBlank)
	if err != nil {
		return nil, err
	}

	skip := map[int]struct{}{
		t.Index(ColBlank):   {},
		t.Index(ColComboID): {},
	}

	return t.Map(func(_, col int, v float64) float64 {
		if _, exists := skip[col]; exists {
			return v
		}
		return v - blank
	}), nil
}
