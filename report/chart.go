package report

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Paldeepak079/AadharIQ/models"
)

const maxTickLabels = 8

var (
	actualColor    = color.RGBA{R: 255, G: 153, B: 51, A: 255}
	predictedColor = color.RGBA{R: 66, G: 135, B: 245, A: 255}
	bandColor      = color.RGBA{R: 66, G: 135, B: 245, A: 60}
)

// labelTicker spaces at most maxTickLabels labels across the merged points.
type labelTicker []string

func (t labelTicker) Ticks(min, max float64) []plot.Tick {
	step := 1
	if len(t) > maxTickLabels {
		step = (len(t) + maxTickLabels - 1) / maxTickLabels
	}
	ticks := make([]plot.Tick, 0, len(t))
	for i, l := range t {
		tick := plot.Tick{Value: float64(i)}
		if i%step == 0 {
			tick.Label = l
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

// ForecastChart draws actual and predicted lines with the confidence band
// and writes the chart as PNG.
func ForecastChart(out io.Writer, fc *models.ForecastResponse, width, height vg.Length) error {
	if fc == nil || len(fc.MergedData) == 0 {
		return fmt.Errorf("forecast chart: no data points")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Enrolment forecast: %s (%s)", fc.State, fc.Granularity)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Enrolments"
	p.Add(plotter.NewGrid())

	labels := make(labelTicker, len(fc.MergedData))
	var actual, predicted, upper, lower plotter.XYs
	for i, pt := range fc.MergedData {
		x := float64(i)
		labels[i] = pt.Label
		if pt.Actual != nil {
			actual = append(actual, plotter.XY{X: x, Y: *pt.Actual})
		}
		if pt.Predicted != nil {
			predicted = append(predicted, plotter.XY{X: x, Y: *pt.Predicted})
		}
		if pt.Upper != nil && pt.Lower != nil {
			upper = append(upper, plotter.XY{X: x, Y: *pt.Upper})
			lower = append(lower, plotter.XY{X: x, Y: *pt.Lower})
		}
	}
	p.X.Tick.Marker = labels

	if len(upper) > 1 {
		ring := make(plotter.XYs, 0, 2*len(upper))
		ring = append(ring, upper...)
		for i := len(lower) - 1; i >= 0; i-- {
			ring = append(ring, lower[i])
		}
		band, err := plotter.NewPolygon(ring)
		if err != nil {
			return fmt.Errorf("forecast chart band: %w", err)
		}
		band.Color = bandColor
		band.LineStyle.Width = 0
		p.Add(band)
	}

	if len(actual) > 0 {
		line, err := plotter.NewLine(actual)
		if err != nil {
			return fmt.Errorf("forecast chart actual: %w", err)
		}
		line.Color = actualColor
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add("Actual", line)
	}
	if len(predicted) > 0 {
		line, err := plotter.NewLine(predicted)
		if err != nil {
			return fmt.Errorf("forecast chart predicted: %w", err)
		}
		line.Color = predictedColor
		line.Width = vg.Points(2)
		line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		p.Add(line)
		p.Legend.Add("Predicted", line)
	}
	p.Legend.Top = true

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("forecast chart: %w", err)
	}
	if _, err := wt.WriteTo(out); err != nil {
		return fmt.Errorf("write forecast chart: %w", err)
	}
	return nil
}
