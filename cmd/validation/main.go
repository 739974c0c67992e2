// Validation normalizes the validation plates of selected drug combinations,
// tests whether the combinations differ (Kruskal-Wallis followed by Dunn's
// test), draws bar charts of every readout, and writes the compiled results.
// The workbook layout and the combinations analyzed are set by a YAML design;
// see design.yaml for the built-in one.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/carbocation/assaystat"
	"github.com/carbocation/assaystat/buildinfo"
	"github.com/carbocation/assaystat/report"
	"github.com/carbocation/assaystat/workbook"
	"github.com/carbocation/pfx"
)

// ResultSheet holds the concentrations with the replicate mean of every assay.
const ResultSheet = "All results"

func main() {
	var input, output, designPath, plots string
	var printDesign bool
	flag.StringVar(&input, "input", "Validation.xlsx", "Validation plate workbook")
	flag.StringVar(&output, "output", "Validation_result.xlsx", "Result workbook")
	flag.StringVar(&designPath, "design", "", "YAML design file. If empty, the built-in design is used.")
	flag.StringVar(&plots, "plots", "barplots", "Folder for the bar charts. Created if needed.")
	flag.BoolVar(&printDesign, "print-design", false, "Print the built-in design and quit")
	flag.Parse()

	log.Println(buildinfo.Read())

	if printDesign {
		os.Stdout.Write(defaultDesign)
		return
	}

	if input == "" || output == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	design, err := LoadDesign(designPath)
	if err != nil {
		log.Fatalln(err)
	}

	if err := run(os.Stdout, design, assaystat.ExpandHome(input), assaystat.ExpandHome(output), assaystat.ExpandHome(plots)); err != nil {
		log.Fatalln(err)
	}
}

func run(w io.Writer, design *Design, input, output, plots string) error {
	wb, err := workbook.Open(input)
	if err != nil {
		return err
	}

	x, err := wb.Table(design.Concentrations)
	if err != nil {
		return err
	}

	results := make(map[string]*assaystat.Table, len(design.Assays))
	for _, a := range design.Assays {
		if results[a.Name], err = normalizeAssay(wb, a); err != nil {
			return err
		}
	}

	for _, a := range design.Assays {
		fmt.Fprintln(w, a.Figure.File, a.Figure.Name)
		if err := compare(w, design, results[a.Name]); err != nil {
			return err
		}
		if err := plotAssay(design, a, results[a.Name], plots); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if len(design.Summary.Assays) > 0 {
		if err := plotSummary(design, results, plots); err != nil {
			return err
		}
	}

	if err := save(design, x, results, output); err != nil {
		return err
	}
	log.Println("...data have been saved to", output)

	return nil
}

// save writes the All results sheet followed by one sheet per assay. Every
// sheet starts with the first column of the concentration sheet.
func save(design *Design, x *assaystat.Table, results map[string]*assaystat.Table, path string) error {
	w := report.NewWriter()
	id := x.Slice(0, 1)

	all := x.Clone()
	for _, a := range design.Assays {
		means, _ := report.RowStats(results[a.Name])
		mean, err := assaystat.NewTable(a.Name, []string{a.Column}, [][]float64{means})
		if err != nil {
			return pfx.Err(err)
		}
		all = assaystat.Hstack(ResultSheet, all, mean)
	}
	if err := w.AddSheet(ResultSheet, all); err != nil {
		return err
	}

	for _, a := range design.Assays {
		t := assaystat.Hstack(a.Name, id, report.AverageStdev(results[a.Name]))
		if err := w.AddSheet(a.Name, t); err != nil {
			return err
		}
	}

	return w.Save(path)
}
