// Package heat solves ∂T/∂t = α∇²T on uniform 1D and 2D grids with explicit
// forward Euler and fixed-temperature (Dirichlet) edges.
//
// Stability is checked once, when the parameters are validated: a time step
// above dx²/(2α) in 1D or dx²/(4α) in 2D is rejected at construction rather
// than left to diverge. Field storage is drawn from an alloc.Budget.
package heat

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/matsim/internal/units"
)

var (
	ErrInvalidParams  = errors.New("heat: invalid parameters")
	ErrStabilityLimit = errors.New("heat: time step exceeds stability limit")
	ErrNonFiniteTime  = errors.New("heat: time became non-finite")
)

const (
	DefaultMaxBytes1D = 256 * units.MiB
	DefaultMaxBytes2D = 256 * units.MiB
)

// Params1D describes a rod of NCells cells. MaxBytes of zero means
// DefaultMaxBytes1D.
type Params1D struct {
	Alpha    float64 `yaml:"alpha"`
	Dx       float64 `yaml:"dx"`
	Dt       float64 `yaml:"dt"`
	EndTime  float64 `yaml:"end_time"`
	MaxSteps int     `yaml:"max_steps"`
	NCells   int     `yaml:"n_cells"`
	MaxBytes int64   `yaml:"max_bytes,omitempty"`
}

func DefaultParams1D() Params1D {
	return Params1D{
		Alpha:    1e-5,
		Dx:       1e-3,
		Dt:       1e-6,
		EndTime:  1e-3,
		MaxSteps: 1000000,
		NCells:   100,
	}
}

// StabilityLimit is dx²/(2α), or zero when α or dx is not positive.
func (p Params1D) StabilityLimit() float64 {
	if p.Alpha <= 0 || p.Dx <= 0 {
		return 0
	}
	return p.Dx * p.Dx / (2 * p.Alpha)
}

func (p Params1D) Validate() error {
	if err := validateCommon(p.Alpha, p.Dx, p.Dt, p.EndTime, p.MaxSteps); err != nil {
		return err
	}
	if p.NCells < 2 {
		return invalid("number of cells must be at least 2, got %d", p.NCells)
	}
	if p.MaxBytes < 0 {
		return invalid("max_bytes must not be negative")
	}
	if limit := p.StabilityLimit(); !finite(limit) || p.Dt > limit {
		return fmt.Errorf("%w: dt=%g > dx²/(2α)=%g", ErrStabilityLimit, p.Dt, limit)
	}
	return nil
}

// InitialCondition selects the starting 2D field.
type InitialCondition int

const (
	// HotCenter is a centred Gaussian of width HotRadiusFrac of the domain.
	HotCenter InitialCondition = iota
	// UniformHot fills the interior with THot.
	UniformHot
)

func (ic InitialCondition) String() string {
	switch ic {
	case HotCenter:
		return "hot_center"
	case UniformHot:
		return "uniform_hot"
	default:
		return fmt.Sprintf("InitialCondition(%d)", int(ic))
	}
}

func ParseInitialCondition(s string) (InitialCondition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hot_center", "hotcenter", "center":
		return HotCenter, nil
	case "uniform_hot", "uniformhot", "uniform":
		return UniformHot, nil
	}
	return 0, fmt.Errorf("unknown initial condition: %s", s)
}

func (ic InitialCondition) MarshalText() ([]byte, error) {
	return []byte(ic.String()), nil
}

func (ic *InitialCondition) UnmarshalText(b []byte) error {
	v, err := ParseInitialCondition(string(b))
	if err != nil {
		return err
	}
	*ic = v
	return nil
}

// Params2D describes an NX×NY plate with spacing Dx on both axes. EndTime of
// zero runs until MaxSteps.
type Params2D struct {
	Alpha         float64          `yaml:"alpha"`
	Dx            float64          `yaml:"dx"`
	Dt            float64          `yaml:"dt"`
	EndTime       float64          `yaml:"end_time"`
	MaxSteps      int              `yaml:"max_steps"`
	NX            int              `yaml:"nx"`
	NY            int              `yaml:"ny"`
	TBoundary     float64          `yaml:"t_boundary"`
	Initial       InitialCondition `yaml:"initial"`
	THot          float64          `yaml:"t_hot"`
	HotRadiusFrac float64          `yaml:"hot_radius_frac"`
	MaxBytes      int64            `yaml:"max_bytes,omitempty"`
}

// DefaultParams2D is a copper plate, 10 cm across.
func DefaultParams2D() Params2D {
	return Params2D{
		Alpha:         1.11e-4,
		Dx:            1.25e-3,
		Dt:            3e-3,
		MaxSteps:      10000000,
		NX:            80,
		NY:            80,
		TBoundary:     300,
		Initial:       HotCenter,
		THot:          1200,
		HotRadiusFrac: 0.12,
	}
}

// StabilityLimit is dx²/(4α), or zero when α or dx is not positive.
func (p Params2D) StabilityLimit() float64 {
	if p.Alpha <= 0 || p.Dx <= 0 {
		return 0
	}
	return p.Dx * p.Dx / (4 * p.Alpha)
}

func (p Params2D) Validate() error {
	if err := validateCommon(p.Alpha, p.Dx, p.Dt, p.EndTime, p.MaxSteps); err != nil {
		return err
	}
	switch {
	case p.NX < 3:
		return invalid("grid dimension nx must be at least 3, got %d", p.NX)
	case p.NY < 3:
		return invalid("grid dimension ny must be at least 3, got %d", p.NY)
	case !finite(p.TBoundary) || p.TBoundary < 0:
		return invalid("boundary temperature must be non-negative and finite")
	case !finite(p.THot) || p.THot <= p.TBoundary:
		return invalid("hot temperature must be finite and above the boundary temperature")
	case p.Initial != HotCenter && p.Initial != UniformHot:
		return invalid("unknown initial condition %v", p.Initial)
	case p.Initial == HotCenter && (!finite(p.HotRadiusFrac) || p.HotRadiusFrac <= 0):
		return invalid("hot radius fraction must be positive and finite")
	case p.MaxBytes < 0:
		return invalid("max_bytes must not be negative")
	}
	if limit := p.StabilityLimit(); !finite(limit) || p.Dt > limit {
		return fmt.Errorf("%w: dt=%g > dx²/(4α)=%g", ErrStabilityLimit, p.Dt, limit)
	}
	return nil
}

func validateCommon(alpha, dx, dt, endTime float64, maxSteps int) error {
	switch {
	case !finite(alpha) || alpha <= 0:
		return invalid("thermal diffusivity alpha must be positive and finite")
	case !finite(dx) || dx <= 0:
		return invalid("grid spacing dx must be positive and finite")
	case !finite(dt) || dt <= 0:
		return invalid("time step dt must be positive and finite")
	case !finite(endTime) || endTime < 0:
		return invalid("end time must be non-negative and finite")
	case maxSteps <= 0:
		return invalid("max steps must be greater than 0")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidParams}, args...)...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
