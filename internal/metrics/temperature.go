package metrics

import (
	"github.com/san-kum/matsim/internal/sim"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Temperature keeps every observed temperature; Value is their mean.
type Temperature struct {
	samples []float64
}

func NewTemperature() *Temperature { return &Temperature{} }

func (t *Temperature) Name() string { return "temperature" }

func (t *Temperature) Observe(s *sim.Simulation) {
	t.samples = append(t.samples, temperatureOf(s))
}

func (t *Temperature) Value() float64 {
	if len(t.samples) == 0 {
		return 0
	}
	return stat.Mean(t.samples, nil)
}

// StdDev is the sample standard deviation, zero with fewer than two samples.
func (t *Temperature) StdDev() float64 {
	if len(t.samples) < 2 {
		return 0
	}
	return stat.StdDev(t.samples, nil)
}

func (t *Temperature) Samples() []float64 { return t.samples }

func (t *Temperature) Reset() { t.samples = t.samples[:0] }

// PeakTemperature is the hottest value seen: the field maximum in the heat
// modes, the kinetic temperature in MD.
type PeakTemperature struct {
	peak float64
	seen bool
}

func NewPeakTemperature() *PeakTemperature { return &PeakTemperature{} }

func (p *PeakTemperature) Name() string { return "peak_temperature" }

func (p *PeakTemperature) Observe(s *sim.Simulation) {
	v := s.Temperature()
	if f := field(s); len(f) > 0 {
		v = floats.Max(f)
	}
	if !p.seen || v > p.peak {
		p.peak = v
		p.seen = true
	}
}

func (p *PeakTemperature) Value() float64 { return p.peak }

func (p *PeakTemperature) Reset() {
	p.peak = 0
	p.seen = false
}
