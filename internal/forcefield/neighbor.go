package forcefield

import (
	"github.com/san-kum/matsim/internal/lattice"
	"github.com/san-kum/matsim/internal/particle"
	"github.com/san-kum/matsim/internal/potential"
	"gonum.org/v1/gonum/spatial/r3"
)

// NeighborList is a Verlet list of pairs i<j closer than cutoff+skin.
// Neighbors are stored contiguously: the list of i is
// pairs[start[i]:start[i+1]], in discovery order.
type NeighborList struct {
	cutoff     float64
	skin       float64
	listSq     float64
	skinHalfSq float64

	start  []int
	pairs  []int
	last   []r3.Vec
	builds int
}

func NewNeighborList(cutoff, skin float64) *NeighborList {
	nl := &NeighborList{}
	nl.SetCutoff(cutoff, skin)
	return nl
}

// SetCutoff changes the radii and drops the current list.
func (nl *NeighborList) SetCutoff(cutoff, skin float64) {
	nl.cutoff = cutoff
	nl.skin = skin
	nl.listSq = (cutoff + skin) * (cutoff + skin)
	nl.skinHalfSq = 0.25 * skin * skin
	nl.Clear()
}

func (nl *NeighborList) Cutoff() float64      { return nl.cutoff }
func (nl *NeighborList) Skin() float64        { return nl.skin }
func (nl *NeighborList) TotalCutoff() float64 { return nl.cutoff + nl.skin }

// Build records the current positions and lists every pair within
// cutoff+skin. It returns the number of pairs.
func (nl *NeighborList) Build(sys *particle.System, lat *lattice.Lattice) int {
	ps := sys.Particles()
	n := len(ps)

	nl.last = nl.last[:0]
	nl.start = append(nl.start[:0], 0)
	nl.pairs = nl.pairs[:0]
	for i := range ps {
		nl.last = append(nl.last, ps[i].Pos)
		for j := i + 1; j < n; j++ {
			if r3.Norm2(separation(ps[i].Pos, ps[j].Pos, lat)) < nl.listSq {
				nl.pairs = append(nl.pairs, j)
			}
		}
		nl.start = append(nl.start, len(nl.pairs))
	}
	nl.builds++
	return len(nl.pairs)
}

// NeedsRebuild reports whether the particle count changed or any particle
// moved more than skin/2 since the last build. Displacements are measured by
// minimum image so wrapping into the cell does not count as movement.
func (nl *NeighborList) NeedsRebuild(sys *particle.System, lat *lattice.Lattice) bool {
	ps := sys.Particles()
	if len(nl.start) == 0 || len(ps) != len(nl.last) {
		return true
	}
	for i := range ps {
		if r3.Norm2(separation(nl.last[i], ps[i].Pos, lat)) > nl.skinHalfSq {
			return true
		}
	}
	return false
}

// Neighbors returns the partners j>i of particle i. The slice aliases
// internal storage and is valid until the next Build.
func (nl *NeighborList) Neighbors(i int) []int {
	if i+1 >= len(nl.start) {
		return nil
	}
	return nl.pairs[nl.start[i]:nl.start[i+1]]
}

func (nl *NeighborList) NumPairs() int { return len(nl.pairs) }

// Len is the number of particles covered by the list.
func (nl *NeighborList) Len() int {
	if len(nl.start) == 0 {
		return 0
	}
	return len(nl.start) - 1
}

// Builds counts calls to Build since construction.
func (nl *NeighborList) Builds() int { return nl.builds }

func (nl *NeighborList) Clear() {
	nl.start = nl.start[:0]
	nl.pairs = nl.pairs[:0]
	nl.last = nl.last[:0]
}

// NeighborForceField evaluates forces over a lazily rebuilt NeighborList.
// Listed pairs beyond the potential cutoff contribute nothing.
type NeighborForceField struct {
	pot   potential.Potential
	nlist *NeighborList
}

// NewNeighborForceField lists pairs within cutoff+skin. A cutoff shorter than
// the potential's own would let pairs enter range unlisted, so the list
// cutoff is raised to the potential cutoff in that case.
func NewNeighborForceField(pot potential.Potential, cutoff, skin float64) *NeighborForceField {
	if pot != nil {
		cutoff = max(cutoff, potential.Cutoff(pot))
	}
	return &NeighborForceField{pot: pot, nlist: NewNeighborList(cutoff, skin)}
}

func (nf *NeighborForceField) Potential() potential.Potential { return nf.pot }
func (nf *NeighborForceField) NeighborList() *NeighborList    { return nf.nlist }

func (nf *NeighborForceField) SetPotential(pot potential.Potential) {
	nf.pot = pot
	if pot != nil && potential.Cutoff(pot) > nf.nlist.Cutoff() {
		nf.nlist.SetCutoff(potential.Cutoff(pot), nf.nlist.Skin())
	}
	nf.nlist.Clear()
}

func (nf *NeighborForceField) refresh(sys *particle.System, lat *lattice.Lattice) {
	if nf.nlist.NeedsRebuild(sys, lat) {
		nf.nlist.Build(sys, lat)
	}
}

func (nf *NeighborForceField) ComputeForces(sys *particle.System, lat *lattice.Lattice) float64 {
	sys.ClearForces()
	if nf.pot == nil {
		return 0
	}
	nf.refresh(sys, lat)
	ps := sys.Particles()
	rc2 := nf.pot.CutoffSquared()
	var epot float64
	for i := range ps {
		for _, j := range nf.nlist.Neighbors(i) {
			epot += pairForce(nf.pot, rc2, &ps[i], &ps[j], lat)
		}
	}
	return epot
}

func (nf *NeighborForceField) ComputeEnergy(sys *particle.System, lat *lattice.Lattice) float64 {
	if nf.pot == nil {
		return 0
	}
	nf.refresh(sys, lat)
	ps := sys.Particles()
	rc2 := nf.pot.CutoffSquared()
	var epot float64
	for i := range ps {
		for _, j := range nf.nlist.Neighbors(i) {
			r2 := r3.Norm2(separation(ps[i].Pos, ps[j].Pos, lat))
			if r2 < rc2 {
				epot += nf.pot.Energy(r2)
			}
		}
	}
	return epot
}
