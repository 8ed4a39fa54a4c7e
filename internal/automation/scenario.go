// Package automation runs scripted scenarios, parameter sweeps and seed
// ensembles on top of package experiment.
package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/matsim/internal/config"
	"github.com/san-kum/matsim/internal/experiment"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted simulation sequence.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset or a scene file, then applies Set.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Scene  string             `yaml:"scene"`
	Seed   uint64             `yaml:"seed"`
	Set    map[string]float64 `yaml:"set"`
	SaveAs string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Resolve builds the scene for one step.
func (st ScenarioStep) Resolve() (config.Scene, error) {
	var scene config.Scene
	switch {
	case st.Scene != "":
		s, err := config.LoadScene(st.Scene)
		if err != nil {
			return config.Scene{}, err
		}
		scene = *s
	case st.Preset != "":
		s, ok := config.GetPreset(st.Preset)
		if !ok {
			return config.Scene{}, fmt.Errorf("unknown preset: %s", st.Preset)
		}
		scene = s
	default:
		scene = config.DefaultScene()
	}

	// sorted so repeated runs apply overrides identically
	keys := make([]string, 0, len(st.Set))
	for k := range st.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := SetParam(&scene, k, st.Set[k]); err != nil {
			return config.Scene{}, err
		}
	}
	if st.Seed != 0 {
		scene.Seed = st.Seed
	}
	if st.SaveAs != "" {
		scene.Name = st.SaveAs
	}
	return scene, nil
}

// RunScenario executes all steps in order and stops at the first failure,
// returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, reg *experiment.Registry) ([]*experiment.Result, error) {
	results := make([]*experiment.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		scene, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		logrus.Infof("scenario %s: step %d/%d (%s)", scenario.Name, i+1, len(scenario.Steps), scene.Name)

		exp, err := experiment.New(scene, reg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, result)
	}

	return results, nil
}
