package benchmark

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	blue  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	green = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	red   = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	gray  = color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}

	chartWidth  = 11 * vg.Inch
	chartHeight = 4 * vg.Inch
	barWidth    = vg.Points(28)
)

// SummaryChart draws the rates and the averages of one summary side by side as a PNG.
func SummaryChart(w io.Writer, s Summary) error {
	rates := plot.New()
	rates.Title.Text = "Rates"
	rates.Y.Min, rates.Y.Max = 0, 1
	if err := addBars(rates, []float64{s.PlanSuccessRate, s.SuccessRate, s.CollisionRate},
		[]color.Color{green, blue, red}, "%.0f%%", 100); err != nil {
		return err
	}
	rates.NominalX("Plan", "Success", "Collision")

	averages := plot.New()
	averages.Title.Text = "Averages"
	if err := addBars(averages,
		[]float64{s.AvgSteps, s.AvgPathLength, s.AvgTrajLength, s.AvgFinalDistance, s.AvgElapsedMS},
		[]color.Color{gray, gray, gray, gray, gray}, "%.2f", 1); err != nil {
		return err
	}
	averages.NominalX("Steps", "Path len", "Traj len", "Final dist", "Elapsed ms")

	return drawSideBySide(w, rates, averages)
}

// CompareChart draws success against collision rate and the average steps of each planner.
func CompareChart(w io.Writer, summaries []Summary) error {
	if len(summaries) == 0 {
		return errors.New("no summaries to chart")
	}
	names := make([]string, len(summaries))
	success := make(plotter.Values, len(summaries))
	collision := make(plotter.Values, len(summaries))
	steps := make(plotter.Values, len(summaries))
	for i, s := range summaries {
		names[i] = s.GlobalPlanner
		success[i] = s.SuccessRate
		collision[i] = s.CollisionRate
		steps[i] = s.AvgSteps
	}

	rates := plot.New()
	rates.Title.Text = "Success vs Collision"
	rates.Y.Min, rates.Y.Max = 0, 1
	successBars, err := plotter.NewBarChart(success, barWidth)
	if err != nil {
		return err
	}
	successBars.Color = blue
	successBars.Offset = -barWidth / 2
	collisionBars, err := plotter.NewBarChart(collision, barWidth)
	if err != nil {
		return err
	}
	collisionBars.Color = red
	collisionBars.Offset = barWidth / 2
	rates.Add(successBars, collisionBars)
	rates.Legend.Add("Success", successBars)
	rates.Legend.Add("Collision", collisionBars)
	rates.Legend.Top = true
	rates.NominalX(names...)

	avg := plot.New()
	avg.Title.Text = "Avg Steps (Success)"
	stepBars, err := plotter.NewBarChart(steps, barWidth)
	if err != nil {
		return err
	}
	stepBars.Color = green
	avg.Add(stepBars)
	avg.NominalX(names...)

	return drawSideBySide(w, rates, avg)
}

// SaveChart writes a chart produced by render to path.
func SaveChart(path string, render func(io.Writer) error) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	return render(f)
}

// addBars adds one single-bar chart per value so every bar keeps its own color, and labels each
// bar with its value scaled by scale.
func addBars(p *plot.Plot, values []float64, colors []color.Color, format string, scale float64) error {
	labels := plotter.XYLabels{}
	for i, v := range values {
		bars, err := plotter.NewBarChart(plotter.Values{v}, barWidth)
		if err != nil {
			return err
		}
		bars.XMin = float64(i)
		bars.Color = colors[i]
		p.Add(bars)
		labels.XYs = append(labels.XYs, plotter.XY{X: float64(i), Y: v})
		labels.Labels = append(labels.Labels, fmt.Sprintf(format, v*scale))
	}
	text, err := plotter.NewLabels(labels)
	if err != nil {
		return err
	}
	p.Add(text)
	return nil
}

func drawSideBySide(w io.Writer, left, right *plot.Plot) error {
	img := vgimg.New(chartWidth, chartHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Millimeter, PadY: vg.Millimeter}
	canvases := plot.Align([][]*plot.Plot{{left, right}}, tiles, dc)
	left.Draw(canvases[0][0])
	right.Draw(canvases[0][1])

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return errors.Wrap(err, "cannot encode chart")
	}
	return nil
}
