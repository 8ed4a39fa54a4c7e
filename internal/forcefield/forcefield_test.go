package forcefield

import (
	"math/rand/v2"
	"testing"

	"github.com/san-kum/matsim/internal/lattice"
	"github.com/san-kum/matsim/internal/particle"
	"github.com/san-kum/matsim/internal/potential"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// jitteredGrid places 27 unit-mass particles on a 3x3x3 grid of spacing 2
// inside a cubic cell of side 6, each displaced by up to ±0.3 per axis.
func jitteredGrid(t *testing.T, seed uint64) (*particle.System, lattice.Lattice) {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, 7))
	sys := particle.NewSystem(particle.DefaultMaxBytes)
	for i := range 3 {
		for j := range 3 {
			for k := range 3 {
				pos := r3.Vec{
					X: 2*float64(i) + 0.6*(rng.Float64()-0.5),
					Y: 2*float64(j) + 0.6*(rng.Float64()-0.5),
					Z: 2*float64(k) + 0.6*(rng.Float64()-0.5),
				}
				require.NoError(t, sys.Add(particle.Particle{Pos: pos, Mass: 1}))
			}
		}
	}
	return sys, lattice.Cubic(6)
}

func forces(sys *particle.System) []r3.Vec {
	out := make([]r3.Vec, sys.Len())
	for i := range out {
		out[i] = sys.At(i).Force
	}
	return out
}

func TestNeighborMatchesBruteForce(t *testing.T) {
	pot := potential.NewLennardJones(1, 1, 2.5)
	for _, periodic := range []bool{true, false} {
		sys, cell := jitteredGrid(t, 3)
		var lat *lattice.Lattice
		if periodic {
			lat = &cell
		}

		brute := New(pot)
		eBrute := brute.ComputeForces(sys, lat)
		fBrute := forces(sys)

		nff := NewNeighborForceField(pot, 2.5, 0.3)
		eList := nff.ComputeForces(sys, lat)
		fList := forces(sys)

		assert.InDelta(t, eBrute, eList, 1e-9, "periodic=%v", periodic)
		assert.InDelta(t, eBrute, nff.ComputeEnergy(sys, lat), 1e-9)
		assert.InDelta(t, eBrute, brute.ComputeEnergy(sys, lat), 1e-9)
		for i := range fBrute {
			assert.InDelta(t, fBrute[i].X, fList[i].X, 1e-9)
			assert.InDelta(t, fBrute[i].Y, fList[i].Y, 1e-9)
			assert.InDelta(t, fBrute[i].Z, fList[i].Z, 1e-9)
		}
	}
}

func TestNewtonThirdLaw(t *testing.T) {
	sys, cell := jitteredGrid(t, 11)
	New(potential.NewLennardJones(1, 1, 2.5)).ComputeForces(sys, &cell)
	var total r3.Vec
	for _, f := range forces(sys) {
		total = r3.Add(total, f)
	}
	assert.InDelta(t, 0, r3.Norm(total), 1e-9)
}

func TestRepulsionDirection(t *testing.T) {
	sys := particle.NewSystem(particle.DefaultMaxBytes)
	require.NoError(t, sys.Add(particle.Particle{Pos: r3.Vec{X: 0}, Mass: 1}))
	require.NoError(t, sys.Add(particle.Particle{Pos: r3.Vec{X: 0.9}, Mass: 1}))

	New(potential.NewLennardJones(1, 1, 2.5)).ComputeForces(sys, nil)
	assert.Less(t, sys.At(0).Force.X, 0.0, "left particle pushed left")
	assert.Greater(t, sys.At(1).Force.X, 0.0, "right particle pushed right")

	// Across the periodic boundary the nearest image is on the other side.
	cell := lattice.Cubic(6)
	sys.At(1).Pos = r3.Vec{X: 5.1}
	New(potential.NewLennardJones(1, 1, 2.5)).ComputeForces(sys, &cell)
	assert.Greater(t, sys.At(0).Force.X, 0.0)
	assert.Less(t, sys.At(1).Force.X, 0.0)
}

func TestLazyRebuild(t *testing.T) {
	sys, cell := jitteredGrid(t, 5)
	nff := NewNeighborForceField(potential.NewLennardJones(1, 1, 2.5), 2.5, 0.4)
	nl := nff.NeighborList()

	assert.True(t, nl.NeedsRebuild(sys, &cell))
	nff.ComputeForces(sys, &cell)
	assert.Equal(t, 1, nl.Builds())
	assert.Equal(t, sys.Len(), nl.Len())
	assert.Positive(t, nl.NumPairs())

	sys.At(0).Pos = r3.Add(sys.At(0).Pos, r3.Vec{X: 0.19})
	nff.ComputeForces(sys, &cell)
	assert.Equal(t, 1, nl.Builds(), "moved less than skin/2")

	sys.At(0).Pos = r3.Add(sys.At(0).Pos, r3.Vec{X: 0.02})
	nff.ComputeForces(sys, &cell)
	assert.Equal(t, 2, nl.Builds(), "moved more than skin/2")

	// Wrapping into the cell is not movement.
	sys.At(1).Pos = r3.Add(sys.At(1).Pos, r3.Vec{Y: 6})
	assert.False(t, nl.NeedsRebuild(sys, &cell))

	require.NoError(t, sys.Add(particle.Particle{Pos: r3.Vec{X: 3, Y: 3, Z: 3}, Mass: 1}))
	assert.True(t, nl.NeedsRebuild(sys, &cell))

	nl.Clear()
	assert.Equal(t, 0, nl.NumPairs())
	assert.Nil(t, nl.Neighbors(0))
}

func TestNeighborListRaisesShortCutoff(t *testing.T) {
	nff := NewNeighborForceField(potential.NewLennardJones(1, 1, 2.5), 1.0, 0.3)
	assert.Equal(t, 2.5, nff.NeighborList().Cutoff())
	assert.InDelta(t, 2.8, nff.NeighborList().TotalCutoff(), 1e-12)
}

func TestNilPotential(t *testing.T) {
	sys, cell := jitteredGrid(t, 1)
	sys.At(0).Force = r3.Vec{X: 5}
	assert.Equal(t, 0.0, New(nil).ComputeForces(sys, &cell))
	assert.Equal(t, r3.Vec{}, sys.At(0).Force)
	assert.Equal(t, 0.0, NewNeighborForceField(nil, 1, 0.1).ComputeEnergy(sys, &cell))
}
