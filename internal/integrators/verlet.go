package integrators

import (
	"github.com/san-kum/matsim/internal/particle"
	"gonum.org/v1/gonum/spatial/r3"
)

// VelocityVerlet is the two-phase symplectic scheme. The caller recomputes
// forces between Step1 and Step2; merging the phases changes the method.
type VelocityVerlet struct {
	dt     float64
	halfDt float64
}

func NewVelocityVerlet(dt float64) *VelocityVerlet {
	v := &VelocityVerlet{}
	v.SetDt(dt)
	return v
}

func (v *VelocityVerlet) Dt() float64 { return v.dt }

func (v *VelocityVerlet) SetDt(dt float64) {
	v.dt = dt
	v.halfDt = 0.5 * dt
}

// Step1 does v += ½dt·F/m, then x += dt·v with the half-step velocity.
func (v *VelocityVerlet) Step1(sys *particle.System) {
	ps := sys.Particles()
	for i := range ps {
		p := &ps[i]
		p.Vel = r3.Add(p.Vel, r3.Scale(v.halfDt/p.Mass, p.Force))
		p.Pos = r3.Add(p.Pos, r3.Scale(v.dt, p.Vel))
	}
}

// Step2 does v += ½dt·F/m with the forces at the new positions.
func (v *VelocityVerlet) Step2(sys *particle.System) {
	ps := sys.Particles()
	for i := range ps {
		p := &ps[i]
		p.Vel = r3.Add(p.Vel, r3.Scale(v.halfDt/p.Mass, p.Force))
	}
}

// Integrate runs one full step. computeForces receives cleared forces.
func (v *VelocityVerlet) Integrate(sys *particle.System, computeForces func(*particle.System)) {
	v.Step1(sys)
	sys.ClearForces()
	computeForces(sys)
	v.Step2(sys)
}
