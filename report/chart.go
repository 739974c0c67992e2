package report

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/carbocation/pfx"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Bar colors used for the per-cell-line cytotoxicity figures.
var (
	Gray   = drawing.ColorFromHex("808080")
	Orange = drawing.ColorFromHex("FFA500")
	Indigo = drawing.ColorFromHex("4B0082")
	Blue   = drawing.ColorFromHex("1F77B4")
)

// Bars is one series of a bar chart: one bar per group, with the standard
// deviation drawn as an error bar.
type Bars struct {
	Name   string
	Means  []float64
	Stdevs []float64
	Color  drawing.Color
}

// Plot describes the axes of a bar chart.
type Plot struct {
	Title  string
	YLabel string
	Labels []string

	Width, Height int
}

// PlotPath is where a figure is written: dir/<file>_<figure>.png.
func PlotPath(dir, file, figure string) string {
	return filepath.Join(dir, file+"_"+figure+".png")
}

// BarChart renders a single series as a PNG at path.
func BarChart(path string, plot Plot, bars Bars) error {
	if bars.Color.IsZero() {
		bars.Color = Blue
	}
	return render(path, plot, false, bars)
}

// MultiBarChart renders several series side by side within each group, with
// a legend naming each series.
func MultiBarChart(path string, plot Plot, bars ...Bars) error {
	return render(path, plot, true, bars...)
}

func render(path string, plot Plot, legend bool, bars ...Bars) error {
	if len(bars) == 0 {
		return fmt.Errorf("no bars to plot")
	}
	for _, b := range bars {
		if len(b.Means) != len(plot.Labels) || len(b.Stdevs) != len(plot.Labels) {
			return fmt.Errorf("series %q has %d means and %d stdevs for %d groups", b.Name, len(b.Means), len(b.Stdevs), len(plot.Labels))
		}
	}

	if plot.Width == 0 {
		plot.Width = 2000
	}
	if plot.Height == 0 {
		plot.Height = 800
	}

	// Each group occupies one unit on the x axis, with the bars of all
	// series sharing the middle 80%.
	barWidth := 0.8 / float64(len(bars))

	yMin, yMax := 0.0, 0.0
	var series []chart.Series
	for s, b := range bars {
		for g := range plot.Labels {
			mean, sd := b.Means[g], b.Stdevs[g]
			if math.IsNaN(mean) || math.IsInf(mean, 0) {
				continue
			}

			left := float64(g) + 0.1 + float64(s)*barWidth
			right := left + barWidth
			center := (left + right) / 2

			series = append(series, chart.ContinuousSeries{
				XValues: []float64{left, right},
				YValues: []float64{mean, mean},
				Style: chart.Style{
					StrokeColor: drawing.ColorWhite,
					StrokeWidth: 1,
					FillColor:   b.Color,
				},
			})

			lo, hi := mean, mean
			if !math.IsNaN(sd) && !math.IsInf(sd, 0) {
				lo, hi = mean-sd, mean+sd
				series = append(series, errorBar(center, barWidth/4, lo, hi)...)
			}

			yMin = math.Min(yMin, lo)
			yMax = math.Max(yMax, hi)
		}
	}
	if yMax == yMin {
		yMax = yMin + 1
	}

	ticks := make([]chart.Tick, 0, len(plot.Labels))
	for g, label := range plot.Labels {
		ticks = append(ticks, chart.Tick{Value: float64(g) + 0.5, Label: label})
	}

	graph := chart.Chart{
		Title:  plot.Title,
		Width:  plot.Width,
		Height: plot.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(plot.Labels))},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  plot.YLabel,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax * 1.05},
		},
		Series: series,
	}

	if legend {
		// The legend is built from one named entry per series rather than
		// from the individual bar shapes.
		keys := chart.Chart{}
		for _, b := range bars {
			keys.Series = append(keys.Series, chart.ContinuousSeries{
				Name:  b.Name,
				Style: chart.Style{StrokeColor: b.Color, StrokeWidth: 8},
			})
		}
		graph.Elements = []chart.Renderable{chart.Legend(&keys)}
	}

	// Render to a byte buffer
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return pfx.Err(err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return pfx.Err(err)
	}

	outFile, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer outFile.Close()

	if _, err := buffer.WriteTo(outFile); err != nil {
		return pfx.Err(err)
	}

	return outFile.Close()
}

// errorBar draws a vertical line from lo to hi with a cap at each end.
func errorBar(x, capWidth, lo, hi float64) []chart.Series {
	style := chart.Style{StrokeColor: drawing.ColorBlack, StrokeWidth: 1.5}

	return []chart.Series{
		chart.ContinuousSeries{XValues: []float64{x, x}, YValues: []float64{lo, hi}, Style: style},
		chart.ContinuousSeries{XValues: []float64{x - capWidth, x + capWidth}, YValues: []float64{lo, lo}, Style: style},
		chart.ContinuousSeries{XValues: []float64{x - capWidth, x + capWidth}, YValues: []float64{hi, hi}, Style: style},
	}
}
