package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/carbocation/assaystat"
	"github.com/carbocation/assaystat/controls"
	"github.com/carbocation/pfx"
	"gopkg.in/yaml.v3"
)

//go:embed design.yaml
var defaultDesign []byte

// Figure names a bar chart, written as <file>_<name>.png.
type Figure struct {
	File string `yaml:"file"`
	Name string `yaml:"name"`
}

// Assay is one readout of the validation plates.
type Assay struct {
	// Name is the result sheet name.
	Name string `yaml:"name"`

	// Label is the legend entry on the summary chart.
	Label string `yaml:"label"`

	// Column is the name of the replicate mean on the All results sheet.
	Column string `yaml:"column"`

	Plate string `yaml:"plate"`

	// Sheets are normalized one by one and stacked in order.
	Sheets []string `yaml:"sheets"`

	// Blank subtracts the mean of the Blank wells first.
	Blank bool `yaml:"blank"`

	Color  string `yaml:"color"`
	Figure Figure `yaml:"figure"`
}

// Summary is a chart comparing several assays side by side.
type Summary struct {
	Figure `yaml:",inline"`
	Assays []string `yaml:"assays"`
}

// Design is the layout of a validation workbook and of its analysis.
type Design struct {
	Concentrations string  `yaml:"concentrations"`
	Combos         []int   `yaml:"combos"`
	Order          []int   `yaml:"order"`
	Assays         []Assay `yaml:"assays"`
	Summary        Summary `yaml:"summary"`
}

// LoadDesign reads a design file, or the built-in design when path is empty.
func LoadDesign(path string) (*Design, error) {
	data := defaultDesign
	if path != "" {
		var err error
		if data, err = os.ReadFile(assaystat.ExpandHome(path)); err != nil {
			return nil, pfx.Err(err)
		}
	}

	d := &Design{}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, pfx.Err(err)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	return d, nil
}

// Validate checks that the design refers only to things it defines.
func (d *Design) Validate() error {
	if d.Concentrations == "" {
		return fmt.Errorf("design: no concentrations sheet")
	}
	if len(d.Order) == 0 {
		return fmt.Errorf("design: empty plotting order")
	}
	for _, c := range d.Combos {
		if c < 1 || c > len(d.Order) {
			return fmt.Errorf("design: combination %d outside 1-%d", c, len(d.Order))
		}
	}

	for _, a := range d.Assays {
		if _, err := controls.ParsePlateType(a.Plate); err != nil {
			return err
		}
		if len(a.Sheets) == 0 {
			return fmt.Errorf("design: assay %s has no sheets", a.Name)
		}
	}

	for _, name := range d.Summary.Assays {
		if d.Assay(name) == nil {
			return &assaystat.ConfigurationError{Kind: "assay", Value: name}
		}
	}

	return nil
}

// Assay returns the named assay, or nil.
func (d *Design) Assay(name string) *Assay {
	for i := range d.Assays {
		if d.Assays[i].Name == name {
			return &d.Assays[i]
		}
	}
	return nil
}
