package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// RenderField draws an nx×ny row-major field in w×h terminal cells. Each
// cell is an upper half block so it carries two grid rows: the foreground is
// the upper sample and the background the lower. Temperatures are placed on
// the theme ramp between lo and hi.
func RenderField(field []float64, nx, ny int, lo, hi float64, w, h int) string {
	if nx <= 0 || ny <= 0 || len(field) < nx*ny || w <= 0 || h <= 0 {
		return ""
	}
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	sample := func(col, subRow int) lipgloss.Color {
		i := col * nx / w
		// row 0 of the field is drawn at the bottom
		j := ny - 1 - subRow*ny/(2*h)
		return CurrentTheme.RampColor((field[j*nx+i] - lo) / span)
	}

	var b strings.Builder
	for row := 0; row < h; row++ {
		var run strings.Builder
		var fg, bg lipgloss.Color
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(lipgloss.NewStyle().Foreground(fg).Background(bg).Render(run.String()))
				run.Reset()
			}
		}
		for col := 0; col < w; col++ {
			top, bottom := sample(col, 2*row), sample(col, 2*row+1)
			if top != fg || bottom != bg {
				flush()
				fg, bg = top, bottom
			}
			run.WriteString("▀")
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderLegend is a horizontal ramp labelled with lo and hi.
func RenderLegend(lo, hi string, w int) string {
	if w < 4 {
		w = 4
	}
	var b strings.Builder
	b.WriteString(lo + " ")
	for i := 0; i < w; i++ {
		c := CurrentTheme.RampColor((float64(i) + 0.5) / float64(w))
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render("█"))
	}
	b.WriteString(" " + hi)
	return b.String()
}

// RenderProfile charts a 1D field.
func RenderProfile(field []float64, lo, hi float64, w, h int, caption string) string {
	if len(field) == 0 {
		return ""
	}
	opts := []asciigraph.Option{
		asciigraph.Height(h),
		asciigraph.Width(w),
		asciigraph.Caption(caption),
	}
	if hi > lo {
		opts = append(opts, asciigraph.LowerBound(lo), asciigraph.UpperBound(hi))
	}
	return asciigraph.Plot(field, opts...)
}
