package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/matsim/internal/config"
	"github.com/san-kum/matsim/internal/experiment"
	"github.com/san-kum/matsim/internal/sim"
	"github.com/san-kum/matsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	frameBudget time.Duration
	theme       string
)

func sceneBuilder(scene config.Scene) viz.Builder {
	return func() (*sim.Simulation, error) {
		exp, err := experiment.New(scene, nil)
		if err != nil {
			return nil, err
		}
		return exp.Simulation(), nil
	}
}

func openPreset(name string) (viz.Model, error) {
	scene, err := baseScene(name)
	if err != nil {
		return viz.Model{}, err
	}
	return viz.NewModel(scene.Name, sceneBuilder(scene), frameBudget)
}

func watchMenu() error {
	viz.SetTheme(theme)
	menu := viz.NewMenu(config.ListPresets(), func(name string) string {
		s, _ := config.GetPreset(name)
		return s.Description
	}, openPreset)
	_, err := tea.NewProgram(menu, tea.WithAltScreen()).Run()
	return err
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [preset | scene.yaml]",
		Short: "step a simulation live in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return watchMenu()
			}
			viz.SetTheme(theme)

			var scene config.Scene
			if s, ok := config.GetPreset(args[0]); ok {
				scene = s
			} else {
				loaded, err := config.LoadScene(args[0])
				if err != nil {
					return err
				}
				scene = *loaded
			}
			m, err := viz.NewModel(scene.Name, sceneBuilder(scene), frameBudget)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().DurationVar(&frameBudget, "budget", viz.DefaultBudget, "stepping time per frame")
	cmd.Flags().StringVar(&theme, "theme", viz.ThemeBlackBody.Name, "color theme")
	return cmd
}
