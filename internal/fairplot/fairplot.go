// Package fairplot renders per-group ROC hulls and the solved fairness
// operating point, either as an interactive HTML chart or a static PNG.
package fairplot

import (
	"fmt"
	"image/color"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/parity-tools/fairadjust/internal/fairness"
)

// groupNames returns the solution's group values in sorted order so series
// ordering is stable across renders.
func groupNames(sol fairness.Solution) []string {
	names := make([]string, 0, len(sol.Hulls))
	for name := range sol.Hulls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func title(sol fairness.Solution) string {
	if sol.Criterion == fairness.DemographicParity {
		return fmt.Sprintf("ROC hulls, shared selection rate %.4f", sol.SelectionRate)
	}
	return fmt.Sprintf("ROC hulls, shared operating point (%.4f, %.4f)", sol.FPR, sol.TPR)
}

// WriteHTML renders the solution as a self-contained ECharts HTML page.
func WriteHTML(w io.Writer, sol fairness.Solution) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Fairness operating points", Width: "700px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title(sol)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: 0, Max: 1, Name: "false positive rate", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: 0, Max: 1, Name: "true positive rate", NameLocation: "middle", NameGap: 30}),
	)

	for _, name := range groupNames(sol) {
		hull := sol.Hulls[name]
		data := make([]opts.LineData, 0, len(hull))
		for _, p := range hull {
			data = append(data, opts.LineData{Value: []interface{}{p.X, p.Y}})
		}
		line.AddSeries(name, data)
	}

	scatter := charts.NewScatter()
	points := make([]opts.ScatterData, 0, len(sol.Realized))
	for _, name := range groupNames(sol) {
		op := sol.Realized[name]
		points = append(points, opts.ScatterData{Name: name, Value: []interface{}{op.X, op.Y}})
	}
	scatter.AddSeries("operating point", points, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))
	line.Overlap(scatter)

	return line.Render(w)
}

// SavePNG writes the same figure as a static image.
func SavePNG(path string, sol fairness.Solution) error {
	p := plot.New()
	p.Title.Text = title(sol)
	p.X.Label.Text = "false positive rate"
	p.Y.Label.Text = "true positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	palette := []color.RGBA{
		{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
		{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
		{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
		{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	}

	for i, name := range groupNames(sol) {
		hull := sol.Hulls[name]
		pts := make(plotter.XYs, 0, len(hull))
		for _, hp := range hull {
			pts = append(pts, plotter.XY{X: hp.X, Y: hp.Y})
		}
		hullLine, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("failed to build hull line for group %q: %w", name, err)
		}
		hullLine.Color = palette[i%len(palette)]
		p.Add(hullLine)
		p.Legend.Add(name, hullLine)
	}

	realized := make(plotter.XYs, 0, len(sol.Realized))
	for _, name := range groupNames(sol) {
		op := sol.Realized[name]
		realized = append(realized, plotter.XY{X: op.X, Y: op.Y})
	}
	marks, err := plotter.NewScatter(realized)
	if err != nil {
		return fmt.Errorf("failed to build operating-point scatter: %w", err)
	}
	marks.GlyphStyle.Radius = vg.Points(4)
	p.Add(marks)
	p.Legend.Add("operating point", marks)
	p.Legend.Top = true

	return p.Save(5*vg.Inch, 5*vg.Inch, path)
}
