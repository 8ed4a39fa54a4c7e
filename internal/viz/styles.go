package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(46)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle = lipgloss.NewStyle().Padding(1, 0)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

func headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Primary).MarginBottom(1)
}

func statusStyle(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

// ProgressBar renders frac in [0, 1] as a bar of width cells.
func ProgressBar(frac float64, width int) string {
	if math.IsNaN(frac) {
		frac = 0
	}
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	c := CurrentTheme.Warning
	if frac >= 1 {
		c = CurrentTheme.Success
	}
	return lipgloss.NewStyle().Foreground(c).Render(bar)
}

// Separator is a horizontal rule of width cells.
func Separator(width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	left := strings.Repeat("─", mid-2)
	right := strings.Repeat("─", width-mid-2)
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Render(left + " ◆ " + right)
}

// FormatSeconds picks fs, ps, ns or s so the mantissa stays readable.
func FormatSeconds(t float64) string {
	a := math.Abs(t)
	switch {
	case a == 0:
		return "0 s"
	case a < 1e-12:
		return fmt.Sprintf("%.2f fs", t*1e15)
	case a < 1e-9:
		return fmt.Sprintf("%.3f ps", t*1e12)
	case a < 1e-6:
		return fmt.Sprintf("%.3f ns", t*1e9)
	}
	return fmt.Sprintf("%.4g s", t)
}

func statLine(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}
