// Package forcefield evaluates pairwise forces and energies over a particle
// system.
//
// ForceField visits every unordered pair. NeighborForceField visits only the
// pairs recorded in a Verlet list and rebuilds that list lazily when some
// particle has drifted more than half the skin since the last build. Both
// write equal and opposite forces, so each pair is evaluated once.
//
// A nil lattice means open boundaries; otherwise separations use the minimum
// image convention of the cell.
package forcefield

import (
	"github.com/san-kum/matsim/internal/lattice"
	"github.com/san-kum/matsim/internal/particle"
	"github.com/san-kum/matsim/internal/potential"
	"gonum.org/v1/gonum/spatial/r3"
)

// Evaluator computes forces in place and returns the total potential energy.
type Evaluator interface {
	ComputeForces(sys *particle.System, lat *lattice.Lattice) float64
	ComputeEnergy(sys *particle.System, lat *lattice.Lattice) float64
	Potential() potential.Potential
}

// ForceField is the O(N²) reference evaluator.
type ForceField struct {
	pot potential.Potential
}

func New(pot potential.Potential) *ForceField {
	return &ForceField{pot: pot}
}

func (ff *ForceField) Potential() potential.Potential       { return ff.pot }
func (ff *ForceField) SetPotential(pot potential.Potential) { ff.pot = pot }

func (ff *ForceField) ComputeForces(sys *particle.System, lat *lattice.Lattice) float64 {
	sys.ClearForces()
	if ff.pot == nil {
		return 0
	}
	ps := sys.Particles()
	rc2 := ff.pot.CutoffSquared()
	var epot float64
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			epot += pairForce(ff.pot, rc2, &ps[i], &ps[j], lat)
		}
	}
	return epot
}

func (ff *ForceField) ComputeEnergy(sys *particle.System, lat *lattice.Lattice) float64 {
	if ff.pot == nil {
		return 0
	}
	ps := sys.Particles()
	rc2 := ff.pot.CutoffSquared()
	var epot float64
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			r2 := r3.Norm2(separation(ps[i].Pos, ps[j].Pos, lat))
			if r2 < rc2 {
				epot += ff.pot.Energy(r2)
			}
		}
	}
	return epot
}

// separation returns r2 - r1, folded by the cell when there is one.
func separation(r1, r2 r3.Vec, lat *lattice.Lattice) r3.Vec {
	if lat != nil {
		return lat.MinImageDisplacement(r1, r2)
	}
	return r3.Sub(r2, r1)
}

// pairForce applies the i-j interaction and returns its energy. With
// d = r_j - r_i, j is pushed along +d and i along -d for a repulsive pair.
func pairForce(pot potential.Potential, rc2 float64, pi, pj *particle.Particle, lat *lattice.Lattice) float64 {
	d := separation(pi.Pos, pj.Pos, lat)
	r2 := r3.Norm2(d)
	if r2 >= rc2 {
		return 0
	}
	f := r3.Scale(pot.ForceDivR(r2), d)
	pj.Force = r3.Add(pj.Force, f)
	pi.Force = r3.Sub(pi.Force, f)
	return pot.Energy(r2)
}
