// Oacd processes an orthogonal array composite design (OACD) drug
// combination screen. It substitutes dose levels with concentrations and
// checks the design for linear dependencies. It then averages the control
// plates, normalizes every assay plate against its controls, and writes the
// compiled responses used as input to the regression model.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/carbocation/assaystat"
	"github.com/carbocation/assaystat/buildinfo"
	"github.com/carbocation/assaystat/workbook"
)

func main() {
	var input, output string
	var threshold float64
	flag.StringVar(&input, "input", "OACD.xlsx", "OACD screen workbook")
	flag.StringVar(&output, "output", "OACD_result.xlsx", "Result workbook")
	flag.Float64Var(&threshold, "highlight", 25, "Average responses above this value are highlighted on the All Y-outputs sheet")
	flag.Parse()

	log.Println(buildinfo.Read())

	if input == "" || output == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(assaystat.ExpandHome(input), assaystat.ExpandHome(output), threshold); err != nil {
		log.Fatalln(err)
	}
}

func run(input, output string, threshold float64) error {
	wb, err := workbook.Open(input)
	if err != nil {
		return err
	}

	exp, err := readExperiment(wb)
	if err != nil {
		return err
	}

	log.Println("Step 1: Generating X-input in real concentration...")
	if err := exp.substituteConcentrations(); err != nil {
		return err
	}
	log.Println("Checking linear independence of the input array...")
	if dep := exp.checkLinearDependency(); dep.Independent() {
		log.Println("...linearly independent")
	} else {
		log.Printf("...linear dependency issues: rank %d for %d columns\n", dep.Rank, dep.Columns)
	}

	log.Println("Step 2: Calculating plate controls")
	if err := exp.averageControls(); err != nil {
		return err
	}

	log.Println("Step 3: Normalization")
	log.Printf("Calculating %%cytotoxicity...\n")
	if err := exp.cytotoxicity(); err != nil {
		return err
	}
	log.Printf("Calculating %%inhibition...\n")
	if err := exp.inhibition(); err != nil {
		return err
	}

	log.Println("Step 4: Compiling results...")
	res, err := exp.compile()
	if err != nil {
		return err
	}

	if err := res.save(output, threshold); err != nil {
		return err
	}
	log.Println("...data have been saved to", output)

	return nil
}
