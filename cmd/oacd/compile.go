package main

import (
	"math"

	"github.com/carbocation/assaystat"
	"github.com/carbocation/assaystat/controls"
	"github.com/carbocation/assaystat/report"
	"github.com/carbocation/pfx"
)

// Result sheet names, in the order they are written.
const (
	SheetXConc          = "X_conc"
	SheetMonoConc       = "mono_conc"
	SheetAllY           = "All Y-outputs"
	SheetInhibition     = "Inhibition"
	SheetMonoInhibition = "mono_Inhibition"

	// HighlightRange covers the three cytotoxicity average columns of the
	// All Y-outputs sheet.
	HighlightRange = "O2:Q125"
)

var AllYColumns = []string{
	"Inhibit_1", "Inhibit_2", "Inhibit_3",
	"Vero_1", "Vero_2", "Vero_3",
	"Cardiac_1", "Cardiac_2", "Cardiac_3",
	"Liver_1", "Liver_2", "Liver_3",
}

type sheet struct {
	name  string
	table *assaystat.Table
}

type result struct {
	sheets []sheet
}

func (e *experiment) compile() (*result, error) {
	combos := e.design.Columns[0]
	monoCombos := e.monoDesign.Columns[0]
	allCombos := append(append([]float64(nil), combos...), monoCombos...)

	inhibition, err := e.results[controls.Efficacy].Concat(e.monoResults[controls.Efficacy])
	if err != nil {
		return nil, pfx.Err(err)
	}
	vero, err := e.results[controls.Vero].Concat(e.monoResults[controls.Vero])
	if err != nil {
		return nil, pfx.Err(err)
	}

	allY := assaystat.Hstack(SheetAllY, inhibition, vero, e.results[controls.Cardiac], e.results[controls.Liver])
	if err := allY.Rename(AllYColumns...); err != nil {
		return nil, pfx.Err(err)
	}
	if err := allY.InsertColumn(0, controls.ColComboID, pad(allCombos, allY.Rows())); err != nil {
		return nil, pfx.Err(err)
	}

	xConc, err := report.WithID(controls.ColComboID, combos, e.conc)
	if err != nil {
		return nil, pfx.Err(err)
	}
	monoConc, err := report.WithID(controls.ColComboID, monoCombos, e.monoConc)
	if err != nil {
		return nil, pfx.Err(err)
	}

	// Replicate tables get average and stdev columns, then the identifier.
	summarize := func(t *assaystat.Table, ids []float64) (*assaystat.Table, error) {
		return report.WithID(controls.ColComboID, ids, report.AverageStdev(t))
	}

	res := &result{sheets: []sheet{
		{SheetXConc, xConc},
		{SheetMonoConc, monoConc},
		{SheetAllY, allY},
	}}

	averages := make(map[string][]float64)
	for _, v := range []struct {
		name string
		avg  string
		t    *assaystat.Table
		ids  []float64
	}{
		{SheetInhibition, "Avg_Inhibit", e.results[controls.Efficacy], combos},
		{string(controls.Vero), "Avg_Vero", e.results[controls.Vero], combos},
		{string(controls.Cardiac), "Avg_Cardiac", e.results[controls.Cardiac], combos},
		{string(controls.Liver), "Avg_Liver", e.results[controls.Liver], combos},
		{SheetMonoInhibition, "Avg_Inhibit", e.monoResults[controls.Efficacy], monoCombos},
		{"mono_" + string(controls.Vero), "Avg_Vero", e.monoResults[controls.Vero], monoCombos},
	} {
		t, err := summarize(v.t, v.ids)
		if err != nil {
			return nil, pfx.Err(err)
		}
		res.sheets = append(res.sheets, sheet{v.name, t})

		avg, err := t.Column(report.ColAverage)
		if err != nil {
			return nil, pfx.Err(err)
		}
		averages[v.avg] = append(averages[v.avg], avg...)
	}

	for _, name := range []string{"Avg_Inhibit", "Avg_Vero", "Avg_Cardiac", "Avg_Liver"} {
		if err := allY.AddColumn(name, pad(averages[name], allY.Rows())); err != nil {
			return nil, pfx.Err(err)
		}
	}

	res.sheets = append(res.sheets, sheet{SheetConcTable, e.concTable})

	return res, nil
}

func (r *result) save(path string, threshold float64) error {
	w := report.NewWriter()

	for _, s := range r.sheets {
		if err := w.AddSheet(s.name, s.table); err != nil {
			return pfx.Err(err)
		}
	}

	if err := w.Highlight(SheetAllY, HighlightRange, threshold); err != nil {
		return pfx.Err(err)
	}

	return w.Save(path)
}

// pad extends x with NaN up to n values.
func pad(x []float64, n int) []float64 {
	out := append([]float64(nil), x...)
	for len(out) < n {
		out = append(out, math.NaN())
	}
	return out
}
