package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/matsim/internal/heat"
)

var (
	// ErrInvalidParams wraps every Params validation failure.
	ErrInvalidParams = errors.New("sim: invalid parameters")

	// ErrNonFiniteTime means the clock overflowed or became NaN.
	ErrNonFiniteTime = errors.New("sim: time value became non-finite")

	// ErrNonFiniteState means a particle position, velocity or force blew up.
	ErrNonFiniteState = errors.New("sim: particle state became non-finite")

	// ErrWrongMode is returned by MD-only operations on heat simulations.
	ErrWrongMode = errors.New("sim: operation not available in this mode")

	// ErrIntegratorDt rejects an integrator whose step differs from Params.Dt.
	ErrIntegratorDt = errors.New("sim: integrator time step differs from params")

	ErrNilIntegrator = errors.New("sim: nil integrator")
)

// StepError records where a running simulation failed.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

// messages are the sentences shown for runtime numerical failures.
var messages = []struct {
	err error
	msg string
}{
	{ErrNonFiniteTime, "Time value became non-finite."},
	{heat.ErrNonFiniteTime, "Time value became non-finite."},
	{ErrNonFiniteState, "Particle state became non-finite."},
}

// Message is the user-facing text for err: a fixed sentence for a runtime
// numerical failure, err.Error() for anything else.
func Message(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}
