package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/matsim/internal/particle"
)

// Params configures an MD simulation. Dx is carried for file compatibility
// with the heat solvers and is not used by MD.
type Params struct {
	Dt              float64 `yaml:"dt"`
	Dx              float64 `yaml:"dx"`
	EndTime         float64 `yaml:"end_time"`
	MaxSteps        int     `yaml:"max_steps"`
	Temperature     float64 `yaml:"temperature"`
	Cutoff          float64 `yaml:"cutoff"`
	NeighborSkin    float64 `yaml:"neighbor_skin"`
	UseNeighborList bool    `yaml:"use_neighbor_list"`

	// MaxParticleBytes caps particle storage.
	MaxParticleBytes int64 `yaml:"max_particle_bytes"`
	// CheckFinite invalidates the run as soon as any particle state is
	// NaN or infinite.
	CheckFinite bool `yaml:"check_finite"`
}

const (
	DefaultDt           = 1e-15
	DefaultDx           = 1e-9
	DefaultMaxSteps     = 10000000
	DefaultTemperature  = 300.0
	DefaultCutoff       = 1e-9
	DefaultNeighborSkin = 0.2e-9
)

func DefaultParams() Params {
	return Params{
		Dt:               DefaultDt,
		Dx:               DefaultDx,
		MaxSteps:         DefaultMaxSteps,
		Temperature:      DefaultTemperature,
		Cutoff:           DefaultCutoff,
		NeighborSkin:     DefaultNeighborSkin,
		UseNeighborList:  true,
		MaxParticleBytes: particle.DefaultMaxBytes,
		CheckFinite:      true,
	}
}

func (p Params) Validate() error {
	switch {
	case !finite(p.Dt) || p.Dt <= 0:
		return invalid("time step dt must be positive and finite, got %g", p.Dt)
	case !finite(p.EndTime) || p.EndTime < 0:
		return invalid("end time must be non-negative and finite, got %g", p.EndTime)
	case p.MaxSteps <= 0:
		return invalid("max steps must be greater than 0, got %d", p.MaxSteps)
	case !finite(p.Temperature) || p.Temperature < 0:
		return invalid("temperature must be non-negative and finite, got %g", p.Temperature)
	case !finite(p.Cutoff) || p.Cutoff <= 0:
		return invalid("force cutoff must be positive and finite, got %g", p.Cutoff)
	case !finite(p.NeighborSkin) || p.NeighborSkin < 0:
		return invalid("neighbor skin must be non-negative and finite, got %g", p.NeighborSkin)
	case p.EndTime > 0 && p.Dt > p.EndTime:
		return invalid("time step cannot be greater than end time")
	case p.MaxParticleBytes <= 0:
		return invalid("max particle bytes must be positive, got %d", p.MaxParticleBytes)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidParams}, args...)...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
