// Package particle holds the particle container and its aggregate physics.
package particle

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/matsim/internal/alloc"
	"github.com/san-kum/matsim/internal/lattice"
	"github.com/san-kum/matsim/internal/units"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultMaxBytes caps particle storage when no explicit budget is given.
const DefaultMaxBytes = units.GiB

var ErrInvalidParticle = errors.New("particle: invalid particle")

// Particle is a point mass. Force is scratch space, cleared before every
// force evaluation.
type Particle struct {
	Pos   r3.Vec
	Vel   r3.Vec
	Force r3.Vec
	Mass  float64
}

func (p *Particle) ClearForce() { p.Force = r3.Vec{} }

// Finite reports whether every component of p is finite.
func (p *Particle) Finite() bool {
	for _, v := range [...]float64{
		p.Pos.X, p.Pos.Y, p.Pos.Z,
		p.Vel.X, p.Vel.Y, p.Vel.Z,
		p.Force.X, p.Force.Y, p.Force.Z,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is an index-stable collection of particles. Its length changes only
// through Add and Clear. Aggregates are computed on demand.
type System struct {
	alloc     alloc.Allocator[Particle]
	particles []Particle
}

func NewSystem(maxBytes int64) *System {
	return NewSystemWithBudget(alloc.NewBudget(maxBytes))
}

// NewSystemWithBudget draws storage from a budget shared with other containers.
func NewSystemWithBudget(b *alloc.Budget) *System {
	return &System{alloc: alloc.New[Particle](b)}
}

func (s *System) Budget() *alloc.Budget { return s.alloc.Budget() }

// Reserve makes room for n particles in total.
func (s *System) Reserve(n int) error {
	grown, err := s.alloc.Grow(s.particles, n)
	if err != nil {
		return err
	}
	s.particles = grown
	return nil
}

func (s *System) Add(p Particle) error {
	if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
		return fmt.Errorf("%w: mass must be positive and finite, got %g", ErrInvalidParticle, p.Mass)
	}
	if err := s.Reserve(len(s.particles) + 1); err != nil {
		return err
	}
	s.particles = append(s.particles, p)
	return nil
}

func (s *System) Len() int { return len(s.particles) }

// At returns a pointer into the system; it stays valid until the next Add.
func (s *System) At(i int) *Particle { return &s.particles[i] }

// Particles exposes the backing slice for in-place updates.
func (s *System) Particles() []Particle { return s.particles }

// Clear drops all particles but keeps the reserved capacity.
func (s *System) Clear() { s.particles = s.particles[:0] }

func (s *System) ClearForces() {
	for i := range s.particles {
		s.particles[i].ClearForce()
	}
}

func (s *System) KineticEnergy() float64 {
	var ekin float64
	for i := range s.particles {
		p := &s.particles[i]
		ekin += 0.5 * p.Mass * r3.Norm2(p.Vel)
	}
	return ekin
}

// Temperature uses 3N-3 degrees of freedom since the centre of mass is held
// fixed. Systems with fewer than two particles report zero.
func (s *System) Temperature() float64 {
	n := len(s.particles)
	if n <= 1 {
		return 0
	}
	dof := 3*float64(n) - 3
	return 2 * s.KineticEnergy() / (dof * units.Boltzmann)
}

func (s *System) TotalMass() float64 {
	var m float64
	for i := range s.particles {
		m += s.particles[i].Mass
	}
	return m
}

func (s *System) CenterOfMass() r3.Vec {
	return s.massWeighted(func(p *Particle) r3.Vec { return p.Pos })
}

func (s *System) COMVelocity() r3.Vec {
	return s.massWeighted(func(p *Particle) r3.Vec { return p.Vel })
}

func (s *System) massWeighted(field func(*Particle) r3.Vec) r3.Vec {
	var sum r3.Vec
	var m float64
	for i := range s.particles {
		p := &s.particles[i]
		sum = r3.Add(sum, r3.Scale(p.Mass, field(p)))
		m += p.Mass
	}
	if m <= 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/m, sum)
}

// ZeroCOMVelocity removes the mass-weighted mean velocity.
func (s *System) ZeroCOMVelocity() {
	v := s.COMVelocity()
	for i := range s.particles {
		s.particles[i].Vel = r3.Sub(s.particles[i].Vel, v)
	}
}

// ApplyPBC wraps every position into the cell.
func (s *System) ApplyPBC(l lattice.Lattice) {
	for i := range s.particles {
		s.particles[i].Pos = l.WrapCartesian(s.particles[i].Pos)
	}
}

// Finite reports whether all particle state is finite.
func (s *System) Finite() bool {
	for i := range s.particles {
		if !s.particles[i].Finite() {
			return false
		}
	}
	return true
}
