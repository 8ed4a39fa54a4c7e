// Package export renders recorded runs to image files with gonum/plot and
// writes particle snapshots in XYZ format.
package export

import (
	"fmt"
	"image/color"
	"math"

	"github.com/san-kum/matsim/internal/metrics"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

var (
	kineticColor   = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	potentialColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	totalColor     = color.RGBA{A: 0xff}
)

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X, pts[i].Y = xs[i], ys[i]
	}
	return pts
}

func series(samples []metrics.Sample, pick func(metrics.Sample) float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = pick(s)
	}
	return out
}

// EnergyPlot draws kinetic, potential and total energy against time in
// picoseconds.
func EnergyPlot(title string, samples []metrics.Sample) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples to plot")
	}
	t := series(samples, func(s metrics.Sample) float64 { return s.Time * 1e12 })

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (ps)"
	p.Y.Label.Text = "energy (J)"

	lines := []struct {
		name string
		col  color.Color
		pick func(metrics.Sample) float64
	}{
		{"kinetic", kineticColor, func(s metrics.Sample) float64 { return s.Kinetic }},
		{"potential", potentialColor, func(s metrics.Sample) float64 { return s.Potential }},
		{"total", totalColor, func(s metrics.Sample) float64 { return s.Total }},
	}
	for _, ln := range lines {
		l, err := plotter.NewLine(xys(t, series(samples, ln.pick)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ln.name, err)
		}
		l.Color = ln.col
		p.Add(l)
		p.Legend.Add(ln.name, l)
	}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p, nil
}

// TemperaturePlot draws temperature against time. xScale converts seconds to
// the unit named in xLabel.
func TemperaturePlot(title string, samples []metrics.Sample, xScale float64, xLabel string) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples to plot")
	}
	t := series(samples, func(s metrics.Sample) float64 { return s.Time * xScale })
	temp := series(samples, func(s metrics.Sample) float64 { return s.Temperature })

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "temperature (K)"

	l, err := plotter.NewLine(xys(t, temp))
	if err != nil {
		return nil, err
	}
	l.Color = kineticColor
	p.Add(l, plotter.NewGrid())
	return p, nil
}

// ProfilePlot draws a 1D temperature field against position in millimetres.
func ProfilePlot(title string, field []float64, dx float64) (*plot.Plot, error) {
	if len(field) == 0 {
		return nil, fmt.Errorf("empty field")
	}
	x := make([]float64, len(field))
	for i := range x {
		x[i] = float64(i) * dx * 1e3
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "position (mm)"
	p.Y.Label.Text = "temperature (K)"

	l, err := plotter.NewLine(xys(x, field))
	if err != nil {
		return nil, err
	}
	l.Color = kineticColor
	p.Add(l, plotter.NewGrid())
	return p, nil
}

// grid adapts a row-major field to plotter.GridXYZ, in millimetres.
type grid struct {
	field  []float64
	nx, ny int
	dx     float64
}

func (g grid) Dims() (c, r int)   { return g.nx, g.ny }
func (g grid) Z(c, r int) float64 { return g.field[r*g.nx+c] }
func (g grid) X(c int) float64    { return float64(c) * g.dx * 1e3 }
func (g grid) Y(r int) float64    { return float64(r) * g.dx * 1e3 }

// HeatMap draws a 2D field with the black-body colour map, cold to hot.
func HeatMap(title string, field []float64, nx, ny int, dx float64) (*plot.Plot, error) {
	if nx <= 0 || ny <= 0 || nx*ny != len(field) {
		return nil, fmt.Errorf("field has %d values, want %dx%d", len(field), nx, ny)
	}
	cm := moreland.ExtendedBlackBody()
	cm.SetMin(0)
	cm.SetMax(1)

	hm := plotter.NewHeatMap(grid{field: field, nx: nx, ny: ny, dx: dx}, cm.Palette(255))
	lo, hi := floats.Min(field), floats.Max(field)
	if hi-lo < 1e-12*math.Max(1, math.Abs(hi)) {
		hi = lo + 1
	}
	hm.Min, hm.Max = lo, hi

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%.0f K to %.0f K)", title, lo, floats.Max(field))
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "y (mm)"
	p.Add(hm)
	return p, nil
}

// Save writes p to path; the extension picks the format (png, svg, pdf...).
func Save(p *plot.Plot, path string) error {
	return p.Save(DefaultWidth, DefaultHeight, path)
}
