// Checkdmso tests whether the DMSO vehicle changes plate readings. Every
// sheet of the input is one plate with a "DMSO" and a "No DMSO" column and
// is assigned to an experiment by the exp1/exp2/exp3 in its name.
//
// Part 1 checks each sheet for normality and pools the verdict per
// experiment. Part 2 compares the two columns of every sheet with either
// Bartlett's test followed by a t-test, or a Wilcoxon rank-sum test when the
// experiment's normality was rejected. P-values are Bonferroni-corrected.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/carbocation/assaystat"
	"github.com/carbocation/assaystat/buildinfo"
	"github.com/carbocation/assaystat/hypothesis"
	"github.com/carbocation/assaystat/workbook"
	"github.com/carbocation/pfx"
)

func main() {
	var input, a, b string
	flag.StringVar(&input, "input", "DMSO_vs_noDMSO.xlsx", "Workbook with one sheet per plate, named with exp1, exp2 or exp3")
	flag.StringVar(&a, "a", "DMSO", "Column of the vehicle wells")
	flag.StringVar(&b, "b", "No DMSO", "Column of the wells without vehicle")
	flag.Parse()

	log.Println(buildinfo.Read())

	if input == "" || a == "" || b == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(os.Stdout, assaystat.ExpandHome(input), a, b); err != nil {
		log.Fatalln(err)
	}
}

func run(w io.Writer, input, a, b string) error {
	wb, err := workbook.Open(input)
	if err != nil {
		return err
	}

	tables, failed := wb.Tables(nil)
	for _, sheet := range wb.SheetNames() {
		if err, exists := failed[sheet]; exists {
			return pfx.Err(err)
		}
	}
	log.Printf("Read %d plates from %s\n", len(tables), input)

	rep, err := hypothesis.NewProcedure().Run(tables, a, b)
	if err != nil {
		return err
	}

	printReport(w, rep)

	return nil
}

func printReport(w io.Writer, rep hypothesis.Report) {
	fmt.Fprintln(w, "Part 1: Shapiro-Wilk test for normality:")
	for _, n := range rep.Normality {
		fmt.Fprintln(w, "Plates:", n.Sheet)
		if n.Skipped {
			fmt.Fprintf(w, "assume non-normality for %s due to small group size (n=3)\n", n.Experiment)
		}
		for _, c := range n.Columns {
			if c.Reject {
				fmt.Fprintf(w, "%s: reject normality, p = %g\n", c.Column, c.P)
			} else {
				fmt.Fprintf(w, "%s: unable to reject normality, assume normal population, p = %g\n", c.Column, c.P)
			}
		}
		if !n.Skipped {
			fmt.Fprintln(w, "Reject normality:", n.Reject)
		}
		fmt.Fprintln(w)
	}

	verdicts := make([]string, 0, 3)
	for _, exp := range []assaystat.ExperimentTag{assaystat.Exp1, assaystat.Exp2, assaystat.Exp3} {
		verdicts = append(verdicts, fmt.Sprintf("experiment %d: %t", int(exp), rep.Rejected[exp]))
	}
	fmt.Fprintf(w, "Reject normality hypothesis: %s\n\n", strings.Join(verdicts, ", "))

	fmt.Fprintln(w, "Part 2: Tests for equal variance and mean/median")
	for _, c := range rep.Comparisons {
		fmt.Fprintln(w, "Plates:", c.Sheet)

		verdict := "assume DMSO does NOT have effect"
		if c.Significant {
			verdict = "assume DMSO has effect"
		}

		if c.NonParametric {
			fmt.Fprintf(w, "2) Wilcoxon rank-sum test:\n%s, p = %g\n\n", verdict, c.Test.P)
			continue
		}

		if c.EqualVariance {
			fmt.Fprintf(w, "2) Bartlett's test:\nassume equal variance: p = %g\n", c.Variance.P)
		} else {
			fmt.Fprintf(w, "2) Bartlett's test:\nunequal variance: p = %g\n", c.Variance.P)
		}
		fmt.Fprintf(w, "3) %s:\n%s, p = %g\n\n", c.Test.Test, verdict, c.Test.P)
	}
}
