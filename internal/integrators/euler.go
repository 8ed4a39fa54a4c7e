package integrators

import (
	"github.com/san-kum/matsim/internal/particle"
	"gonum.org/v1/gonum/spatial/r3"
)

// Euler is the semi-implicit first-order scheme, kept for comparison.
// All of its work happens in Step1 so it fits the two-phase driver.
type Euler struct {
	dt float64
}

func NewEuler(dt float64) *Euler {
	return &Euler{dt: dt}
}

func (e *Euler) Dt() float64      { return e.dt }
func (e *Euler) SetDt(dt float64) { e.dt = dt }

// Step does v += dt·F/m, then x += dt·v.
func (e *Euler) Step(sys *particle.System) {
	ps := sys.Particles()
	for i := range ps {
		p := &ps[i]
		p.Vel = r3.Add(p.Vel, r3.Scale(e.dt/p.Mass, p.Force))
		p.Pos = r3.Add(p.Pos, r3.Scale(e.dt, p.Vel))
	}
}

func (e *Euler) Step1(sys *particle.System) { e.Step(sys) }
func (e *Euler) Step2(*particle.System)     {}
