package heat

import (
	"math"

	"github.com/san-kum/matsim/internal/alloc"
)

// Model2D is an explicit 5-point solver on a plate whose outer ring of cells
// is held at TBoundary. The field is row-major: cell (i, j) is at j*NX + i.
type Model2D struct {
	clock
	params Params2D
	nx, ny int
	field  []float64
	next   []float64
}

// New2D validates p and allocates both buffers from one budget. Invalid
// parameters give a model that reports IsValid() == false; only an exhausted
// budget returns an error.
func New2D(p Params2D) (*Model2D, error) {
	m := &Model2D{params: p}
	if err := p.Validate(); err != nil {
		m.err = err
		return m, nil
	}
	limit := p.MaxBytes
	if limit == 0 {
		limit = DefaultMaxBytes2D
	}
	m.nx, m.ny = p.NX, p.NY
	a := alloc.New[float64](alloc.NewBudget(limit))
	cells := p.NX * p.NY
	if p.NY != 0 && cells/p.NY != p.NX {
		return nil, alloc.ErrBudgetExceeded
	}
	var err error
	if m.field, err = a.Make(cells); err != nil {
		return nil, err
	}
	if m.next, err = a.Make(cells); err != nil {
		return nil, err
	}
	m.Reset()
	return m, nil
}

// Reset reapplies the initial condition and rewinds the clock.
func (m *Model2D) Reset() {
	if m.err != nil {
		return
	}
	switch m.params.Initial {
	case HotCenter:
		m.hotCenter()
	case UniformHot:
		for i := range m.field {
			m.field[i] = m.params.THot
		}
	}
	m.applyBoundary(m.field)
	copy(m.next, m.field)
	m.time, m.steps = 0, 0
}

// hotCenter lays a Gaussian over cell centres in unit-square coordinates,
// σ = HotRadiusFrac.
func (m *Model2D) hotCenter() {
	p := m.params
	inv2s2 := 1 / (2 * p.HotRadiusFrac * p.HotRadiusFrac)
	delta := p.THot - p.TBoundary
	for j := 0; j < m.ny; j++ {
		fy := (float64(j)+0.5)/float64(m.ny) - 0.5
		for i := 0; i < m.nx; i++ {
			fx := (float64(i)+0.5)/float64(m.nx) - 0.5
			m.field[j*m.nx+i] = p.TBoundary + delta*math.Exp(-(fx*fx+fy*fy)*inv2s2)
		}
	}
}

func (m *Model2D) applyBoundary(f []float64) {
	tb := m.params.TBoundary
	top := (m.ny - 1) * m.nx
	for i := 0; i < m.nx; i++ {
		f[i] = tb
		f[top+i] = tb
	}
	for j := 0; j < m.ny; j++ {
		f[j*m.nx] = tb
		f[j*m.nx+m.nx-1] = tb
	}
}

func (m *Model2D) Params() Params2D { return m.params }

func (m *Model2D) Finished() bool {
	return m.finished(m.params.EndTime, m.params.MaxSteps)
}

// Step advances one dt with
// T'[i,j] = T[i,j] + r·(T[i-1,j] + T[i+1,j] + T[i,j-1] + T[i,j+1] - 4T[i,j]).
func (m *Model2D) Step() bool {
	if m.Finished() {
		return false
	}
	p := m.params
	r := p.Alpha * p.Dt / (p.Dx * p.Dx)
	t, next, nx := m.field, m.next, m.nx
	for j := 1; j < m.ny-1; j++ {
		for i := 1; i < nx-1; i++ {
			k := j*nx + i
			next[k] = t[k] + r*(t[k-1]+t[k+1]+t[k-nx]+t[k+nx]-4*t[k])
		}
	}
	m.applyBoundary(next)
	m.field, m.next = next, t
	return m.advance(p.Dt)
}

// Temperature is the current row-major field. Callers must not modify it.
func (m *Model2D) Temperature() []float64 { return m.field }

// At returns the temperature of column i, row j.
func (m *Model2D) At(i, j int) float64 { return m.field[j*m.nx+i] }

func (m *Model2D) NX() int { return m.nx }
func (m *Model2D) NY() int { return m.ny }

// TCold and THot bound the field for colour scaling.
func (m *Model2D) TCold() float64 { return m.params.TBoundary }
func (m *Model2D) THot() float64  { return m.params.THot }
