package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/matsim/internal/config"
	"github.com/san-kum/matsim/internal/integrators"
	"github.com/san-kum/matsim/internal/potential"
	"github.com/san-kum/matsim/internal/sim"
	"github.com/san-kum/matsim/internal/thermostat"
)

// Registry maps scene names to potentials, thermostats and integrators.
type Registry struct {
	potentials  map[string]func(config.PotentialSpec, sim.Params) (potential.Potential, error)
	thermostats map[string]func(config.ThermostatSpec, sim.Params, uint64) thermostat.Thermostat
	integrators map[string]func(dt float64) sim.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		potentials:  make(map[string]func(config.PotentialSpec, sim.Params) (potential.Potential, error)),
		thermostats: make(map[string]func(config.ThermostatSpec, sim.Params, uint64) thermostat.Thermostat),
		integrators: make(map[string]func(float64) sim.Integrator),
	}

	r.potentials["none"] = func(config.PotentialSpec, sim.Params) (potential.Potential, error) {
		return nil, nil
	}
	r.potentials["lj"] = func(s config.PotentialSpec, p sim.Params) (potential.Potential, error) {
		if s.Epsilon <= 0 || s.Sigma <= 0 {
			return nil, fmt.Errorf("lj needs positive epsilon and sigma")
		}
		return potential.NewLennardJones(s.Epsilon, s.Sigma, cutoffOf(s, p)), nil
	}
	r.potentials["harmonic"] = func(s config.PotentialSpec, p sim.Params) (potential.Potential, error) {
		if s.K <= 0 {
			return nil, fmt.Errorf("harmonic needs a positive spring constant")
		}
		return potential.NewHarmonic(s.K, s.R0, cutoffOf(s, p)), nil
	}

	r.thermostats["none"] = func(config.ThermostatSpec, sim.Params, uint64) thermostat.Thermostat {
		return nil
	}
	r.thermostats["rescale"] = func(s config.ThermostatSpec, p sim.Params, _ uint64) thermostat.Thermostat {
		return thermostat.NewVelocityRescale(targetOf(s, p), s.Tau)
	}
	r.thermostats["andersen"] = func(s config.ThermostatSpec, p sim.Params, seed uint64) thermostat.Thermostat {
		return thermostat.NewAndersen(targetOf(s, p), s.Nu, seed)
	}

	r.integrators["verlet"] = func(dt float64) sim.Integrator { return integrators.NewVelocityVerlet(dt) }
	r.integrators["euler"] = func(dt float64) sim.Integrator { return integrators.NewEuler(dt) }

	return r
}

func cutoffOf(s config.PotentialSpec, p sim.Params) float64 {
	if s.Cutoff > 0 {
		return s.Cutoff
	}
	return p.Cutoff
}

func targetOf(s config.ThermostatSpec, p sim.Params) float64 {
	if s.Target > 0 {
		return s.Target
	}
	return p.Temperature
}

// Potential builds the named potential; "" and "none" give nil.
func (r *Registry) Potential(s config.PotentialSpec, p sim.Params) (potential.Potential, error) {
	kind := s.Kind
	if kind == "" {
		kind = "none"
	}
	fn, ok := r.potentials[kind]
	if !ok {
		return nil, fmt.Errorf("unknown potential: %s", s.Kind)
	}
	return fn(s, p)
}

func (r *Registry) Thermostat(s config.ThermostatSpec, p sim.Params, seed uint64) (thermostat.Thermostat, error) {
	kind := s.Kind
	if kind == "" {
		kind = "none"
	}
	fn, ok := r.thermostats[kind]
	if !ok {
		return nil, fmt.Errorf("unknown thermostat: %s", s.Kind)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return fn(s, p, seed), nil
}

func (r *Registry) Integrator(name string, dt float64) (sim.Integrator, error) {
	if name == "" {
		name = "verlet"
	}
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(dt), nil
}

func (r *Registry) ListPotentials() []string  { return sortedKeys(r.potentials) }
func (r *Registry) ListThermostats() []string { return sortedKeys(r.thermostats) }
func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
