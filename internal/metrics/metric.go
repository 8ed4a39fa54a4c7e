// Package metrics observes a running simulation and condenses it into
// scalar figures of merit and sampled time series.
package metrics

import (
	"github.com/san-kum/matsim/internal/sim"
	"gonum.org/v1/gonum/stat"
)

type Metric interface {
	Name() string
	Observe(s *sim.Simulation)
	Value() float64
	Reset()
}

// Set fans every step out to its metrics. It satisfies sim.Observer.
type Set []Metric

func (ms Set) OnStep(s *sim.Simulation) {
	for _, m := range ms {
		m.Observe(s)
	}
}

func (ms Set) Values() map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

func (ms Set) Reset() {
	for _, m := range ms {
		m.Reset()
	}
}

// Default picks the metrics that make sense for the simulation's mode.
func Default(mode sim.Mode) Set {
	if mode == sim.MD {
		return Set{NewEnergyDrift(), NewTemperature(), NewStability(1e4)}
	}
	return Set{NewTemperature(), NewPeakTemperature()}
}

// temperatureOf is the kinetic temperature in MD and the mean field
// temperature in the heat modes.
func temperatureOf(s *sim.Simulation) float64 {
	if f := field(s); f != nil {
		return stat.Mean(f, nil)
	}
	return s.Temperature()
}

func field(s *sim.Simulation) []float64 {
	switch {
	case s.Heat1DModel() != nil:
		return s.Heat1DModel().Temperature()
	case s.Heat2DModel() != nil:
		return s.Heat2DModel().Temperature()
	}
	return nil
}
