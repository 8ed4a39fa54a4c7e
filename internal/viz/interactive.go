package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// Opener builds the live model for a menu entry.
type Opener func(name string) (Model, error)

// Menu lists named scenes and hands the chosen one to a live Model.
type Menu struct {
	names    []string
	describe func(string) string
	open     Opener

	cursor int
	live   *Model
	err    error
}

func NewMenu(names []string, describe func(string) string, open Opener) Menu {
	if describe == nil {
		describe = func(string) string { return "" }
	}
	return Menu{names: names, describe: describe, open: open}
}

// Selected is the name under the cursor.
func (m Menu) Selected() string {
	if len(m.names) == 0 {
		return ""
	}
	return m.names[m.cursor]
}

// Live is the running model once an entry has been opened.
func (m Menu) Live() *Model { return m.live }

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.live = nil
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		lm := next.(Model)
		m.live = &lm
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.names) == 0 {
			return m, nil
		}
		lm, err := m.open(m.Selected())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.live = &lm
		return m, lm.Init()
	}
	return m, nil
}

func (m Menu) View() string {
	if m.live != nil {
		return m.live.View() + "\n" + dimmer.Render("esc: back to menu")
	}

	var b strings.Builder
	b.WriteString(headerStyle().Render("MATSIM") + "\n")
	for i, name := range m.names {
		line := fmt.Sprintf("%-14s %s", name, dim.Render(m.describe(name)))
		if i == m.cursor {
			b.WriteString(statusStyle(CurrentTheme.Accent).Render("> ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	if m.err != nil {
		b.WriteString("\n" + statusStyle(CurrentTheme.Error).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n" + dimmer.Render("↑↓ select · enter run · q quit"))
	return b.String()
}
