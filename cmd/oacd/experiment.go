package main

import (
	"fmt"
	"log"

	"github.com/carbocation/assaystat"
	"github.com/carbocation/assaystat/controls"
	"github.com/carbocation/assaystat/dose"
	"github.com/carbocation/assaystat/normalize"
	"github.com/carbocation/assaystat/workbook"
	"github.com/carbocation/pfx"
)

// Sheet names of the screen workbook.
const (
	SheetDesign      = "OACD"
	SheetMonoDesign  = "mono_X"
	SheetConcTable   = "Conc_table"
	SheetControls    = "Controls"
	SheetEfficacy    = "Efficacy"
	SheetVero        = "VeroE6"
	SheetCardiac     = "AC16"
	SheetLiver       = "THLE-2"
	SheetMonoEff     = "mono_Eff"
	SheetMonoVeroE6  = "mono_VeroE6"
	ControlPlates    = 6
	ControlPlateRows = 4
	ControlPlateCols = 13

	// Combinations 1-50 were run alongside control plates 1-3 and
	// combinations 51-100 alongside plates 4-6.
	CombosPerPlateSet = 50
)

// ControlRegion locates control plate i (0-based) on the Controls sheet.
func ControlRegion(i int) workbook.Region {
	return workbook.Region{
		HeaderRow:       2 + 7*i,
		NRows:           ControlPlateRows,
		NCols:           ControlPlateCols,
		SkipTextColumns: true,
	}
}

type experiment struct {
	design     *assaystat.Table
	monoDesign *assaystat.Table
	concTable  *assaystat.Table
	plates     []*assaystat.Table

	assays map[controls.Assay]*assaystat.Table
	mono   map[controls.Assay]*assaystat.Table

	conc     *assaystat.Table
	monoConc *assaystat.Table
	controls *controls.ControlSet

	results     map[controls.Assay]*assaystat.Table
	monoResults map[controls.Assay]*assaystat.Table
}

func readExperiment(wb *workbook.Workbook) (*experiment, error) {
	exp := &experiment{
		assays:      make(map[controls.Assay]*assaystat.Table),
		mono:        make(map[controls.Assay]*assaystat.Table),
		results:     make(map[controls.Assay]*assaystat.Table),
		monoResults: make(map[controls.Assay]*assaystat.Table),
	}

	var err error
	if exp.design, err = wb.Table(SheetDesign); err != nil {
		return nil, err
	}
	if exp.monoDesign, err = wb.Table(SheetMonoDesign); err != nil {
		return nil, err
	}
	if exp.concTable, err = wb.Table(SheetConcTable); err != nil {
		return nil, err
	}

	for assay, sheet := range map[controls.Assay]string{
		controls.Efficacy: SheetEfficacy,
		controls.Vero:     SheetVero,
		controls.Cardiac:  SheetCardiac,
		controls.Liver:    SheetLiver,
	} {
		if exp.assays[assay], err = wb.Table(sheet); err != nil {
			return nil, err
		}
	}

	if exp.mono[controls.Efficacy], err = wb.Table(SheetMonoEff); err != nil {
		return nil, err
	}
	if exp.mono[controls.Vero], err = wb.Table(SheetMonoVeroE6); err != nil {
		return nil, err
	}

	for i := 0; i < ControlPlates; i++ {
		plate, err := wb.TableAt(SheetControls, ControlRegion(i))
		if err != nil {
			return nil, err
		}
		plate.Name = fmt.Sprintf("%s plate %d", SheetControls, i+1)
		exp.plates = append(exp.plates, plate)
	}

	return exp, nil
}

func (e *experiment) substituteConcentrations() error {
	lookup, err := dose.ConcTableFromTable(e.concTable, dose.LevelColumn)
	if err != nil {
		return pfx.Err(err)
	}

	var unmapped dose.Unmapped
	if e.conc, unmapped, err = dose.Map(e.design.Slice(1, e.design.Width()), lookup); err != nil {
		return pfx.Err(err)
	}
	if len(unmapped) > 0 {
		log.Printf("Warning: %s: dose levels left as is: %s\n", SheetDesign, unmapped)
	}

	if e.monoConc, unmapped, err = dose.Map(e.monoDesign.Slice(1, e.monoDesign.Width()), lookup); err != nil {
		return pfx.Err(err)
	}
	if len(unmapped) > 0 {
		log.Printf("Warning: %s: dose levels left as is: %s\n", SheetMonoDesign, unmapped)
	}

	return nil
}

func (e *experiment) checkLinearDependency() dose.Dependency {
	return dose.CheckLinearDependency(e.conc)
}

func (e *experiment) averageControls() error {
	set, err := controls.PlateAverages(e.plates, controls.OACDAssays)
	if err != nil {
		return pfx.Err(err)
	}
	if set.Len() != ControlPlates {
		return &assaystat.DataError{Sheet: SheetControls, Err: fmt.Errorf("%d control plates, want %d", set.Len(), ControlPlates)}
	}
	e.controls = set
	return nil
}

// blocks gives each replicate column the control of its own plate: plates
// 1-3 for the first 50 combinations and plates 4-6 for the rest.
func (e *experiment) blocks(column string) (normalize.RowBlocks, error) {
	first, err := e.controls.Vector(column, 0, 1, 2)
	if err != nil {
		return normalize.RowBlocks{}, err
	}
	second, err := e.controls.Vector(column, 3, 4, 5)
	if err != nil {
		return normalize.RowBlocks{}, err
	}

	return normalize.RowBlocks{
		Size:   CombosPerPlateSet,
		Blocks: []normalize.PerColumn{first, second},
	}, nil
}

// first gives each replicate column the control of plates 1-3. The
// monotherapy wells share their plates with combinations 1-50.
func (e *experiment) first(column string) (normalize.PerColumn, error) {
	return e.controls.Vector(column, 0, 1, 2)
}

func (e *experiment) cytotoxicity() error {
	for _, assay := range []controls.Assay{controls.Vero, controls.Cardiac, controls.Liver} {
		ctl := controls.OACDAssays[assay]
		measured := e.assays[assay].Slice(1, 4)

		upper, err := e.blocks(ctl.Vehicle)
		if err != nil {
			return pfx.Err(err)
		}

		if ctl.Blank != "" {
			blank, err := e.blocks(ctl.Blank)
			if err != nil {
				return pfx.Err(err)
			}
			if measured, err = normalize.Subtract(measured, blank); err != nil {
				return pfx.Err(err)
			}
		}

		warnDegenerate(assay, measured, nil, upper)
		if e.results[assay], err = normalize.Cytotoxicity(measured, upper); err != nil {
			return pfx.Err(err)
		}
	}

	upper, err := e.first(controls.OACDAssays[controls.Vero].Vehicle)
	if err != nil {
		return pfx.Err(err)
	}
	measured := e.mono[controls.Vero].Slice(1, 4)
	warnDegenerate("mono "+controls.Vero, measured, nil, upper)
	if e.monoResults[controls.Vero], err = normalize.Cytotoxicity(measured, upper); err != nil {
		return pfx.Err(err)
	}

	return nil
}

func (e *experiment) inhibition() error {
	ctl := controls.OACDAssays[controls.Efficacy]

	lower, err := e.blocks(ctl.Virus)
	if err != nil {
		return pfx.Err(err)
	}
	upper, err := e.blocks(ctl.Vehicle)
	if err != nil {
		return pfx.Err(err)
	}
	measured := e.assays[controls.Efficacy].Slice(1, 4)
	warnDegenerate(controls.Efficacy, measured, lower, upper)
	if e.results[controls.Efficacy], err = normalize.Inhibition(measured, lower, upper); err != nil {
		return pfx.Err(err)
	}

	monoLower, err := e.first(ctl.Virus)
	if err != nil {
		return pfx.Err(err)
	}
	monoUpper, err := e.first(ctl.Vehicle)
	if err != nil {
		return pfx.Err(err)
	}
	measured = e.mono[controls.Efficacy].Slice(1, 4)
	warnDegenerate("mono "+controls.Efficacy, measured, monoLower, monoUpper)
	if e.monoResults[controls.Efficacy], err = normalize.Inhibition(measured, monoLower, monoUpper); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// warnDegenerate logs zero controls. The values are still computed and
// written.
func warnDegenerate(assay controls.Assay, measured *assaystat.Table, lower, upper normalize.Bounds) {
	if upper.Check(measured.Rows(), measured.Width()) != nil {
		return
	}
	if lower != nil && lower.Check(measured.Rows(), measured.Width()) != nil {
		return
	}
	if err := normalize.CheckBounds(measured.Rows(), measured.Width(), lower, upper); err != nil {
		log.Printf("Warning: %s: %v\n", assay, err)
	}
}
