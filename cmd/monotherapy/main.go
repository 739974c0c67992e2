// Monotherapy normalizes single-drug dose-response plates. For every drug
// listed on the Solvent sheet it reads <drug>_eff (viral plate) and
// <drug>_VeroE6 (drug plate), computes % inhibition and % cytotoxicity for
// the three replicate columns, and writes one sheet per drug to the output
// workbook. A drug that fails is logged and skipped.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/carbocation/assaystat"
	"github.com/carbocation/assaystat/buildinfo"
	"github.com/carbocation/assaystat/controls"
	"github.com/carbocation/assaystat/normalize"
	"github.com/carbocation/assaystat/report"
	"github.com/carbocation/assaystat/workbook"
)

const (
	SolventSheet   = "Solvent"
	DrugColumn     = "Drug"
	DMSOColumn     = "DMSO"
	EfficacySuffix = "_eff"
	VeroSuffix     = "_VeroE6"
)

var OutputColumns = []string{
	"concentration",
	"inhibition 1", "inhibition 2", "inhibition 3",
	"cytotoxicity 1", "cytotoxicity 2", "cytotoxicity 3",
}

func main() {
	var input, output string
	flag.StringVar(&input, "input", "Monotherapy.xlsx", "Workbook with the Solvent sheet and <drug>_eff / <drug>_VeroE6 plates")
	flag.StringVar(&output, "output", "Monotherapy_result.xlsx", "Workbook to which one sheet per drug is written. Existing sheets are kept.")
	flag.Parse()

	log.Println(buildinfo.Read())

	if input == "" || output == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(assaystat.ExpandHome(input), assaystat.ExpandHome(output)); err != nil {
		log.Fatalln(err)
	}
}

func run(input, output string) error {
	wb, err := workbook.Open(input)
	if err != nil {
		return err
	}

	drugs, err := wb.Strings(SolventSheet, DrugColumn)
	if err != nil {
		return err
	}

	solvent, err := wb.TableAt(SolventSheet, workbook.Region{SkipTextColumns: true})
	if err != nil {
		return err
	}
	dmso, err := solvent.Column(DMSOColumn)
	if err != nil {
		return err
	}
	if len(dmso) != len(drugs) {
		return &assaystat.DataError{Sheet: SolventSheet, Err: fmt.Errorf("%d drugs but %d solvent flags", len(drugs), len(dmso))}
	}

	done := 0
	for i, drug := range drugs {
		out, err := compile(wb, drug, controls.SolventFromFlag(dmso[i]))
		if err == nil {
			err = report.AppendSheet(output, drug, out)
		}
		if err != nil {
			log.Printf("Failed to compile for %s: %v\n", drug, err)
			continue
		}
		done++
	}

	log.Printf("Compiled %d of %d drugs into %s\n", done, len(drugs), output)

	return nil
}

// compile builds the result sheet of one drug.
func compile(wb *workbook.Workbook, drug string, solvent controls.Solvent) (*assaystat.Table, error) {
	eff, err := wb.Table(drug + EfficacySuffix)
	if err != nil {
		return nil, err
	}
	vero, err := wb.Table(drug + VeroSuffix)
	if err != nil {
		return nil, err
	}

	virus, err := controls.Resolve(eff, solvent, controls.Viral)
	if err != nil {
		return nil, err
	}
	vehicle, err := controls.Resolve(vero, solvent, controls.Drug)
	if err != nil {
		return nil, err
	}

	lower, upper := normalize.Scalar(virus), normalize.Scalar(vehicle)
	if err := normalize.CheckBounds(1, 1, lower, upper); err != nil {
		log.Printf("%s: inhibition control: %v\n", drug, err)
	}
	if err := normalize.CheckBounds(1, 1, nil, upper); err != nil {
		log.Printf("%s: cytotoxicity control: %v\n", drug, err)
	}

	inhibition, err := normalize.Inhibition(eff.Slice(1, 4), lower, upper)
	if err != nil {
		return nil, err
	}
	cytotoxicity, err := normalize.Cytotoxicity(vero.Slice(1, 4), upper)
	if err != nil {
		return nil, err
	}

	out := assaystat.Hstack(drug, vero.Slice(0, 1), inhibition, cytotoxicity)
	if err := out.Rename(OutputColumns...); err != nil {
		return nil, err
	}

	return out, nil
}
