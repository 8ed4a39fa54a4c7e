package viz

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a colour scheme. Ramp runs from cold to hot and is used for
// temperature maps.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Ramp    []lipgloss.Color
}

var (
	ThemeBlackBody = Theme{
		Name:    "blackbody",
		Primary: lipgloss.Color("#ffaa33"),
		Accent:  lipgloss.Color("#ffee88"),
		Text:    lipgloss.Color("#f0f0f0"),
		Muted:   lipgloss.Color("#777777"),
		Success: lipgloss.Color("#66dd66"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
		Ramp: []lipgloss.Color{
			"#000000", "#2a0a06", "#5a1208", "#8c1c0a", "#b8320c",
			"#dc5410", "#f07c1c", "#f8a838", "#fcd070", "#ffffff",
		},
	}

	ThemeCoolWarm = Theme{
		Name:    "coolwarm",
		Primary: lipgloss.Color("#4a90d9"),
		Accent:  lipgloss.Color("#e8575a"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#6688aa"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
		Ramp: []lipgloss.Color{
			"#3b4cc0", "#5977e3", "#7b9ff9", "#9ebeff", "#c0d4f5",
			"#dddcdc", "#f2cbb7", "#f7ac8e", "#ee8468", "#b40426",
		},
	}

	ThemeMono = Theme{
		Name:    "mono",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Success: lipgloss.Color("#00ff00"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff0000"),
		Ramp: []lipgloss.Color{
			"#111111", "#2b2b2b", "#444444", "#5e5e5e", "#777777",
			"#919191", "#aaaaaa", "#c4c4c4", "#dddddd", "#f7f7f7",
		},
	}

	CurrentTheme = ThemeBlackBody

	Themes = []Theme{ThemeBlackBody, ThemeCoolWarm, ThemeMono}
)

// GetTheme returns a theme by name, or the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeBlackBody
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// RampColor maps frac in [0, 1] onto the theme ramp.
func (t Theme) RampColor(frac float64) lipgloss.Color {
	n := len(t.Ramp)
	if n == 0 {
		return t.Text
	}
	if math.IsNaN(frac) || frac <= 0 {
		return t.Ramp[0]
	}
	idx := int(frac * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return t.Ramp[idx]
}
