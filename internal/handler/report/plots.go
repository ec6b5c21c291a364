package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"BattFit/internal/domain/models"
)

var (
	blue = color.RGBA{B: 255, A: 255}
	red  = color.RGBA{R: 255, A: 255}
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

func newPlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "SOC"
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

func addLine(p *plot.Plot, label string, c color.Color, x, y []float64) error {
	l, err := plotter.NewLine(xys(x, y))
	if err != nil {
		return fmt.Errorf("line %s: %w", label, err)
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(1.5)
	p.Add(l)
	p.Legend.Add(label, l)
	return nil
}

// plotCurves draws both raw discharge curves labelled by their rate.
func plotCurves(path string, r *models.Report) error {
	p := newPlot("Discharge curves", "Voltage (V)")
	if err := addLine(p, rateLabel(r.First.Name, r.Rates[0]), blue, r.First.SOC, r.First.Voltage); err != nil {
		return err
	}
	if err := addLine(p, rateLabel(r.Second.Name, r.Rates[1]), red, r.Second.SOC, r.Second.Voltage); err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, path)
}

// plotFit draws the decomposed samples and their polynomial fit.
func plotFit(path, title, yLabel string, samples models.Series, fit models.FitResult) error {
	p := newPlot(title, yLabel)
	if err := addLine(p, yLabel+" vs. SOC", blue, samples.X, samples.Y); err != nil {
		return err
	}
	if err := addLine(p, title, red, samples.X, fit.Fitted); err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, path)
}

func rateLabel(name string, rate float64) string {
	if name == "" {
		return fmt.Sprintf("I=%g", rate)
	}
	return fmt.Sprintf("%s (I=%g)", name, rate)
}
