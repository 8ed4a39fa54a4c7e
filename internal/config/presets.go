package config

import (
	"sort"

	"github.com/san-kum/matsim/internal/heat"
	"github.com/san-kum/matsim/internal/sim"
	"github.com/san-kum/matsim/internal/units"
)

// Presets are named starting scenes, built on demand so callers may modify
// the result.
var Presets = map[string]func() Scene{
	"argon": func() Scene {
		s := DefaultScene()
		s.Name = "argon"
		s.Description = "liquid argon at 90 K, velocity rescale thermostat"
		s.MD.Params.Temperature = 90
		s.MD.Box = 4.5 * units.Nanometre
		s.MD.Atoms = 1728
		s.MD.Thermostat = ThermostatSpec{Kind: "rescale", Tau: 0.5 * units.Picosecond}
		return s
	},
	"argon-350": func() Scene {
		s := DefaultScene()
		s.Name = "argon-350"
		s.Description = "1700 argon atoms in an 8 nm box at 350 K for 300 steps"
		s.MD.Params.Dt = 1 * units.Femtosecond
		s.MD.Params.EndTime = 0
		s.MD.Params.MaxSteps = 300
		s.MD.Params.Temperature = 350
		s.MD.Params.Cutoff = 1.1 * units.Nanometre
		s.MD.Box = 8 * units.Nanometre
		s.MD.Atoms = 1700
		s.MD.Thermostat = ThermostatSpec{Kind: "rescale", Tau: 0.8 * units.Picosecond}
		return s
	},
	"argon-nve": func() Scene {
		s := DefaultScene()
		s.Name = "argon-nve"
		s.Description = "argon gas at 300 K, microcanonical"
		return s
	},
	"lj-cluster": func() Scene {
		s := DefaultScene()
		s.Name = "lj-cluster"
		s.Description = "27 atoms in a large box, Andersen thermostat at 40 K"
		s.MD.Params.Temperature = 40
		s.MD.Box = 6 * units.Nanometre
		s.MD.Atoms = 27
		s.MD.Thermostat = ThermostatSpec{Kind: "andersen", Nu: 1e11}
		return s
	},
	"heat-rod": func() Scene {
		s := DefaultScene()
		s.Name = "heat-rod"
		s.Description = "1D rod cooling through both ends"
		s.Mode = sim.HeatDiffusion
		return s
	},
	"heat-plate": func() Scene {
		s := DefaultScene()
		s.Name = "heat-plate"
		s.Description = "copper plate with a hot spot"
		s.Mode = sim.HeatDiffusion2D
		s.Heat2D.MaxSteps = 2000
		return s
	},
	"heat-quench": func() Scene {
		s := DefaultScene()
		s.Name = "heat-quench"
		s.Description = "uniformly hot plate quenched at the edges"
		s.Mode = sim.HeatDiffusion2D
		s.Heat2D.Initial = heat.UniformHot
		s.Heat2D.THot = 900
		s.Heat2D.MaxSteps = 2000
		return s
	},
}

// GetPreset returns a fresh copy of the named preset.
func GetPreset(name string) (Scene, bool) {
	fn, ok := Presets[name]
	if !ok {
		return Scene{}, false
	}
	return fn(), true
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
