// Package plot renders a curve for inspection, as a text grid or as an
// annotated chart image.
package plot

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"curve/internal/curve"
	"curve/internal/letter"
)

const (
	width  = 10 * vg.Inch
	height = 6 * vg.Inch
)

func chart(p curve.Permutation) (*plot.Plot, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	pl := plot.New()
	pl.Title.Text = "Letter permutation curve"
	pl.X.Label.Text = "Original letter (A=0, B=1, ...)"
	pl.Y.Label.Text = "Substituted letter (A=0, ...)"

	ticks := make([]plot.Tick, curve.Size)
	for i := range ticks {
		ticks[i] = plot.Tick{Value: float64(i), Label: letter.Name(i)}
	}
	pl.X.Tick.Marker = plot.ConstantTicks(ticks)
	pl.Y.Tick.Marker = plot.ConstantTicks(ticks)
	pl.X.Min, pl.X.Max = -0.5, curve.Size-0.5
	pl.Y.Min, pl.Y.Max = -0.5, curve.Size+0.5

	grid := plotter.NewGrid()
	dashes := []vg.Length{vg.Points(3), vg.Points(3)}
	grid.Vertical.Dashes = dashes
	grid.Horizontal.Dashes = dashes
	pl.Add(grid)

	xys := make(plotter.XYs, curve.Size)
	names := make([]string, curve.Size)
	for x, y := range p {
		xys[x].X = float64(x)
		xys[x].Y = float64(y)
		names[x] = fmt.Sprintf("%s:(%d,%d)", letter.Name(x), x, y)
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, fmt.Errorf("plot: line: %w", err)
	}
	points.GlyphStyle.Color = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	points.GlyphStyle.Shape = draw.CircleGlyph{}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: names})
	if err != nil {
		return nil, fmt.Errorf("plot: labels: %w", err)
	}
	labels.Offset = vg.Point{X: -vg.Points(12), Y: vg.Points(6)}

	pl.Add(line, points, labels)
	pl.Legend.Add("key permutation", line, points)
	pl.Legend.Top = true

	return pl, nil
}

// Save renders p to file; the extension picks the format
// (.png, .svg, .pdf, .jpg, .eps, .tif).
func Save(p curve.Permutation, file string) error {
	pl, err := chart(p)
	if err != nil {
		return err
	}
	if err := pl.Save(width, height, file); err != nil {
		return fmt.Errorf("plot: save %q: %w", file, err)
	}
	return nil
}

// WriteTo renders p in format ("svg", "png", ...) to w.
func WriteTo(w io.Writer, p curve.Permutation, format string) (int64, error) {
	pl, err := chart(p)
	if err != nil {
		return 0, err
	}

	wt, err := pl.WriterTo(width, height, format)
	if err != nil {
		return 0, fmt.Errorf("plot: %s writer: %w", format, err)
	}

	n, err := wt.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("plot: write %s: %w", format, err)
	}
	return n, nil
}
