// Package normalize converts raw plate readings into percent inhibition and
// percent cytotoxicity against resolved controls.
//
// Values are not clamped and may fall outside [0, 100]. A zero control
// yields ±Inf or NaN, which is passed through; use CheckBounds to detect it.
package normalize

import (
	"fmt"
	"math"

	"github.com/carbocation/assaystat"
	"github.com/carbocation/assaystat/controls"
)

// NearZero is the magnitude below which CheckBounds reports a control as
// degenerate.
const NearZero = 1e-9

// Bounds supplies the control value for each cell of a replicate table.
type Bounds interface {
	At(row, col int) float64
	Check(rows, cols int) error
}

// Scalar is one control value shared by every cell.
type Scalar float64

func (s Scalar) At(_, _ int) float64  { return float64(s) }
func (s Scalar) Check(_, _ int) error { return nil }

// PerColumn assigns one control value to each replicate column.
type PerColumn []float64

func (p PerColumn) At(_, col int) float64 { return p[col] }

func (p PerColumn) Check(_, cols int) error {
	if len(p) != cols {
		return fmt.Errorf("%d control values for %d replicate columns", len(p), cols)
	}
	return nil
}

// RowBlocks splits the rows into consecutive blocks of Size rows, each with
// its own per-column controls.
type RowBlocks struct {
	Size   int
	Blocks []PerColumn
}

func (b RowBlocks) At(row, col int) float64 {
	return b.Blocks[row/b.Size][col]
}

func (b RowBlocks) Check(rows, cols int) error {
	if b.Size <= 0 {
		return fmt.Errorf("block size must be positive, got %d", b.Size)
	}
	if need := (rows + b.Size - 1) / b.Size; len(b.Blocks) < need {
		return fmt.Errorf("%d rows need %d control blocks of %d, have %d", rows, need, b.Size, len(b.Blocks))
	}
	for _, blk := range b.Blocks {
		if err := blk.Check(rows, cols); err != nil {
			return err
		}
	}
	return nil
}

// Inhibition computes (measured − lower) / (upper − lower) × 100, where lower
// is the virus-only control and upper is the vehicle-only control.
func Inhibition(measured *assaystat.Table, lower, upper Bounds) (*assaystat.Table, error) {
	if err := check(measured, lower, upper); err != nil {
		return nil, err
	}

	return measured.Map(func(r, c int, v float64) float64 {
		lo, hi := lower.At(r, c), upper.At(r, c)
		return (v - lo) / (hi - lo) * 100
	}), nil
}

// Cytotoxicity computes (upper − measured) / upper × 100, where upper is the
// vehicle-only control.
func Cytotoxicity(measured *assaystat.Table, upper Bounds) (*assaystat.Table, error) {
	if err := check(measured, upper); err != nil {
		return nil, err
	}

	return measured.Map(func(r, c int, v float64) float64 {
		hi := upper.At(r, c)
		return (hi - v) / hi * 100
	}), nil
}

// Plate dispatches on plate type: inhibition for viral plates, cytotoxicity
// for drug plates (where lower is ignored).
func Plate(measured *assaystat.Table, plate controls.PlateType, lower, upper Bounds) (*assaystat.Table, error) {
	switch plate {
	case controls.Viral:
		return Inhibition(measured, lower, upper)
	case controls.Drug:
		return Cytotoxicity(measured, upper)
	}

	return nil, &assaystat.ConfigurationError{Kind: "plate", Value: plate.String()}
}

// Subtract returns measured minus b, cell by cell. It is used to remove the
// blank-well background from drug wells.
func Subtract(measured *assaystat.Table, b Bounds) (*assaystat.Table, error) {
	if err := check(measured, b); err != nil {
		return nil, err
	}

	return measured.Map(func(r, c int, v float64) float64 {
		return v - b.At(r, c)
	}), nil
}

// CheckBounds reports ErrDegenerateControl if any divisor implied by the
// bounds is zero or near zero. For an inhibition plate pass both bounds;
// for a cytotoxicity plate pass lower as nil.
func CheckBounds(rows, cols int, lower, upper Bounds) error {
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			d := upper.At(r, c)
			if lower != nil {
				d -= lower.At(r, c)
			}
			if math.Abs(d) < NearZero || math.IsNaN(d) {
				return fmt.Errorf("row %d, column %d: divisor %g: %w", r, c, d, assaystat.ErrDegenerateControl)
			}
		}
	}

	return nil
}

func check(measured *assaystat.Table, bounds ...Bounds) error {
	for _, b := range bounds {
		if b == nil {
			return &assaystat.DataError{Sheet: measured.Name, Err: fmt.Errorf("missing control bounds")}
		}
		if err := b.Check(measured.Rows(), measured.Width()); err != nil {
			return &assaystat.DataError{Sheet: measured.Name, Err: err}
		}
	}
	return nil
}
