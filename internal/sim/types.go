package sim

import (
	"fmt"

	"github.com/san-kum/matsim/internal/particle"
)

// Model is a self-contained stepping model such as a heat solver.
type Model interface {
	Step() bool
	Finished() bool
	Time() float64
	StepCount() int
	ErrorMessage() string
	IsValid() bool
}

// Integrator advances particles in two phases around one force evaluation.
type Integrator interface {
	Step1(sys *particle.System)
	Step2(sys *particle.System)
	Dt() float64
}

// Observer is notified after every successful step.
type Observer interface {
	OnStep(s *Simulation)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s *Simulation)

func (f ObserverFunc) OnStep(s *Simulation) { f(s) }

type Mode int

const (
	MD Mode = iota
	HeatDiffusion
	HeatDiffusion2D
)

func (m Mode) String() string {
	switch m {
	case MD:
		return "md"
	case HeatDiffusion:
		return "heat1d"
	case HeatDiffusion2D:
		return "heat2d"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the names printed by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "md":
		return MD, nil
	case "heat1d", "heat":
		return HeatDiffusion, nil
	case "heat2d":
		return HeatDiffusion2D, nil
	}
	return MD, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
