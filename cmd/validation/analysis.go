package main

import (
	"fmt"
	"io"

	"github.com/carbocation/assaystat"
	"github.com/carbocation/assaystat/controls"
	"github.com/carbocation/assaystat/hypothesis"
	"github.com/carbocation/assaystat/normalize"
	"github.com/carbocation/assaystat/report"
	"github.com/carbocation/assaystat/workbook"
	"github.com/carbocation/pfx"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// normalizeAssay reads the sheets of one assay, normalizes the three
// replicate columns of each against its own controls, and stacks them.
func normalizeAssay(wb *workbook.Workbook, a Assay) (*assaystat.Table, error) {
	plate, err := controls.ParsePlateType(a.Plate)
	if err != nil {
		return nil, err
	}

	var out *assaystat.Table
	for _, sheet := range a.Sheets {
		t, err := wb.Table(sheet)
		if err != nil {
			return nil, err
		}

		if a.Blank {
			if t, err = controls.SubtractBlank(t); err != nil {
				return nil, pfx.Err(err)
			}
		}

		upper, lower, err := controls.Bounds(t, plate)
		if err != nil {
			return nil, err
		}

		y, err := normalize.Plate(t.Slice(1, 4), plate, normalize.Scalar(lower), normalize.Scalar(upper))
		if err != nil {
			return nil, pfx.Err(err)
		}

		if out == nil {
			out = y
			continue
		}
		if out, err = out.Concat(y); err != nil {
			return nil, pfx.Err(err)
		}
	}

	out.Name = a.Name
	return out, nil
}

// compare runs Kruskal-Wallis over the selected combinations, each one a
// group of replicates, and Dunn's test when the difference is significant.
func compare(w io.Writer, design *Design, t *assaystat.Table) error {
	selected, err := report.SelectCombos(t, design.Combos)
	if err != nil {
		return err
	}

	res, err := hypothesis.NewProcedure().KruskalDunn(report.Groups(selected))
	if err != nil {
		return err
	}

	if !res.Significant {
		fmt.Fprintf(w, "Kruskal-Wallis test: no significant difference, p = %g, H = %g, effect size = %g\n",
			res.Omnibus.P, res.Omnibus.Statistic, res.EffectSize)
		return nil
	}

	fmt.Fprintf(w, "Kruskal-Wallis test: p = %g, H = %g, effect size = %g --> do post-hoc Dunn test\n",
		res.Omnibus.P, res.Omnibus.Statistic, res.EffectSize)
	fmt.Fprintln(w, "Dunn's pairwise test: no significant pairs unless stated below")
	for _, pair := range res.Pairs {
		fmt.Fprintf(w, "Combo: %d %d, value: %g\n", design.Combos[pair.I], design.Combos[pair.J], pair.P)
	}

	return nil
}

func plotAssay(design *Design, a Assay, t *assaystat.Table, dir string) error {
	sorted, labels, err := report.SortByOrder(t, design.Combos, design.Order)
	if err != nil {
		return err
	}

	means, stdevs := report.RowStats(sorted)
	bars := report.Bars{Name: a.Label, Means: means, Stdevs: stdevs, Color: color(a.Color, report.Blue)}
	plot := report.Plot{YLabel: a.Figure.Name, Labels: labels}

	return report.BarChart(report.PlotPath(dir, a.Figure.File, a.Figure.Name), plot, bars)
}

func plotSummary(design *Design, results map[string]*assaystat.Table, dir string) error {
	var (
		bars   []report.Bars
		labels []string
	)

	for _, name := range design.Summary.Assays {
		a := design.Assay(name)

		sorted, l, err := report.SortByOrder(results[name], design.Combos, design.Order)
		if err != nil {
			return err
		}
		labels = l

		label := a.Label
		if label == "" {
			label = a.Name
		}

		means, stdevs := report.RowStats(sorted)
		bars = append(bars, report.Bars{Name: label, Means: means, Stdevs: stdevs, Color: color(a.Color, report.Gray)})
	}

	plot := report.Plot{YLabel: design.Summary.Name, Labels: labels}

	return report.MultiBarChart(report.PlotPath(dir, design.Summary.File, design.Summary.Name), plot, bars...)
}

func color(hex string, fallback drawing.Color) drawing.Color {
	if hex == "" {
		return fallback
	}
	return drawing.ColorFromHex(hex)
}
