package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/matsim/internal/heat"
	"github.com/san-kum/matsim/internal/lattice"
	"github.com/san-kum/matsim/internal/sim"
	"github.com/san-kum/matsim/internal/units"
	"gopkg.in/yaml.v3"
)

// Scene is a complete, reproducible run description.
type Scene struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Mode        sim.Mode `yaml:"mode"`
	Seed        uint64   `yaml:"seed"`

	MD     MDScene       `yaml:"md"`
	Heat1D heat.Params1D `yaml:"heat1d"`
	Heat2D heat.Params2D `yaml:"heat2d"`
}

// MDScene places Atoms particles of one species on a simple cubic grid in
// Lattice. A zero Lattice means a cube of edge Box.
type MDScene struct {
	Params     sim.Params       `yaml:"params"`
	Box        float64          `yaml:"box,omitempty"`
	Lattice    *lattice.Lattice `yaml:"lattice,omitempty"`
	Atoms      int              `yaml:"atoms"`
	Mass       float64          `yaml:"mass"`
	Potential  PotentialSpec    `yaml:"potential"`
	Thermostat ThermostatSpec   `yaml:"thermostat"`
	Integrator string           `yaml:"integrator"`
}

type PotentialSpec struct {
	Kind    string  `yaml:"kind"`
	Epsilon float64 `yaml:"epsilon,omitempty"`
	Sigma   float64 `yaml:"sigma,omitempty"`
	K       float64 `yaml:"k,omitempty"`
	R0      float64 `yaml:"r0,omitempty"`
	Cutoff  float64 `yaml:"cutoff,omitempty"`
}

// ThermostatSpec selects a thermostat. Target of zero means the run
// temperature.
type ThermostatSpec struct {
	Kind   string  `yaml:"kind"`
	Target float64 `yaml:"target,omitempty"`
	Tau    float64 `yaml:"tau,omitempty"`
	Nu     float64 `yaml:"nu,omitempty"`
}

// Coupling defaults used when a thermostat is picked without its parameter.
const (
	DefaultTau = 0.5 * units.Picosecond
	DefaultNu  = 1e11
)

// Validate checks the coupling parameter of the selected kind. Unknown kinds
// are left to the registry.
func (t ThermostatSpec) Validate() error {
	if t.Target < 0 || math.IsNaN(t.Target) || math.IsInf(t.Target, 0) {
		return fmt.Errorf("thermostat target must be a finite non-negative temperature, got %g", t.Target)
	}
	switch t.Kind {
	case "rescale":
		if !(t.Tau > 0) || math.IsInf(t.Tau, 0) {
			return fmt.Errorf("rescale thermostat needs a positive tau, got %g", t.Tau)
		}
	case "andersen":
		if !(t.Nu > 0) || math.IsInf(t.Nu, 0) {
			return fmt.Errorf("andersen thermostat needs a positive nu, got %g", t.Nu)
		}
	}
	return nil
}

// DefaultScene is 256 argon atoms at 300 K with no thermostat.
func DefaultScene() Scene {
	p := sim.DefaultParams()
	p.EndTime = 10 * units.Picosecond
	p.Cutoff = 2.5 * units.ArgonSigma
	p.NeighborSkin = 0.3 * units.ArgonSigma
	return Scene{
		Name: "default",
		Mode: sim.MD,
		Seed: 1,
		MD: MDScene{
			Params:     p,
			Box:        3.6 * units.Nanometre,
			Atoms:      256,
			Mass:       units.ArgonMass,
			Potential:  PotentialSpec{Kind: "lj", Epsilon: units.ArgonEpsilon, Sigma: units.ArgonSigma},
			Thermostat: ThermostatSpec{Kind: "none"},
			Integrator: "verlet",
		},
		Heat1D: heat.DefaultParams1D(),
		Heat2D: heat.DefaultParams2D(),
	}
}

// Cell returns the periodic cell of the MD scene.
func (m MDScene) Cell() lattice.Lattice {
	if m.Lattice != nil {
		return *m.Lattice
	}
	return lattice.Cubic(m.Box)
}

// Validate checks the part of the scene selected by Mode.
func (s Scene) Validate() error {
	switch s.Mode {
	case sim.HeatDiffusion:
		return s.Heat1D.Validate()
	case sim.HeatDiffusion2D:
		return s.Heat2D.Validate()
	}
	if err := s.MD.Params.Validate(); err != nil {
		return err
	}
	if s.MD.Lattice == nil && s.MD.Box <= 0 {
		return fmt.Errorf("md scene needs a positive box or a lattice")
	}
	if err := s.MD.Cell().Validate(); err != nil {
		return err
	}
	if s.MD.Atoms <= 0 {
		return fmt.Errorf("md scene needs at least one atom, got %d", s.MD.Atoms)
	}
	if s.MD.Mass <= 0 {
		return fmt.Errorf("atom mass must be positive, got %g", s.MD.Mass)
	}
	return s.MD.Thermostat.Validate()
}

// LoadScene reads a YAML scene over DefaultScene and validates it.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	scene := DefaultScene()
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := scene.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &scene, nil
}

func SaveScene(path string, scene *Scene) error {
	data, err := yaml.Marshal(scene)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
