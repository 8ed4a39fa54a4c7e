package heat

import (
	"github.com/san-kum/matsim/internal/alloc"
)

// Rod starting temperatures. The 1D preset is independent of the 2D one.
const (
	rodInterior = 300.0
	rodEnds     = 0.0
)

// Model1D is an explicit solver on a rod whose two end cells stay at 0 K.
type Model1D struct {
	clock
	params Params1D
	field  []float64
	next   []float64
}

// New1D validates p and allocates the field. Invalid parameters give a model
// that reports IsValid() == false; only an exhausted budget returns an error.
func New1D(p Params1D) (*Model1D, error) {
	m := &Model1D{params: p}
	if err := p.Validate(); err != nil {
		m.err = err
		return m, nil
	}
	limit := p.MaxBytes
	if limit == 0 {
		limit = DefaultMaxBytes1D
	}
	a := alloc.New[float64](alloc.NewBudget(limit))
	var err error
	if m.field, err = a.Make(p.NCells); err != nil {
		return nil, err
	}
	if m.next, err = a.Make(p.NCells); err != nil {
		return nil, err
	}
	m.Reset()
	return m, nil
}

// Reset restores the initial profile and rewinds the clock.
func (m *Model1D) Reset() {
	if m.err != nil {
		return
	}
	n := len(m.field)
	for i := range m.field {
		m.field[i] = rodInterior
	}
	m.field[0], m.field[n-1] = rodEnds, rodEnds
	copy(m.next, m.field)
	m.time, m.steps = 0, 0
}

func (m *Model1D) Params() Params1D { return m.params }

func (m *Model1D) Finished() bool {
	return m.finished(m.params.EndTime, m.params.MaxSteps)
}

// Step advances one dt: T[i] += r·(T[i-1] - 2T[i] + T[i+1]), r = α·dt/dx².
func (m *Model1D) Step() bool {
	if m.Finished() {
		return false
	}
	p := m.params
	r := p.Alpha * p.Dt / (p.Dx * p.Dx)
	t, next := m.field, m.next
	n := len(t)
	for i := 1; i < n-1; i++ {
		next[i] = t[i] + r*(t[i-1]-2*t[i]+t[i+1])
	}
	next[0], next[n-1] = t[0], t[n-1]
	m.field, m.next = next, t
	return m.advance(p.Dt)
}

// Temperature is the current field, ends included. Callers must not modify it.
func (m *Model1D) Temperature() []float64 { return m.field }

func (m *Model1D) NCells() int { return len(m.field) }
