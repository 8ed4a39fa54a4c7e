package particle

import (
	"testing"

	"github.com/san-kum/matsim/internal/alloc"
	"github.com/san-kum/matsim/internal/lattice"
	"github.com/san-kum/matsim/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func twoBody(t *testing.T) *System {
	t.Helper()
	s := NewSystem(DefaultMaxBytes)
	require.NoError(t, s.Add(Particle{Pos: r3.Vec{X: 0}, Vel: r3.Vec{X: 2}, Mass: 1}))
	require.NoError(t, s.Add(Particle{Pos: r3.Vec{X: 3}, Vel: r3.Vec{Y: 4}, Mass: 3}))
	return s
}

func TestKineticEnergyAndTemperature(t *testing.T) {
	s := twoBody(t)
	assert.InDelta(t, 0.5*1*4+0.5*3*16, s.KineticEnergy(), 1e-12)

	want := 2 * s.KineticEnergy() / (3 * units.Boltzmann)
	assert.InDelta(t, want, s.Temperature(), want*1e-12)

	single := NewSystem(DefaultMaxBytes)
	require.NoError(t, single.Add(Particle{Vel: r3.Vec{X: 100}, Mass: 1}))
	assert.Equal(t, 0.0, single.Temperature())
	assert.Equal(t, 0.0, NewSystem(DefaultMaxBytes).Temperature())
}

func TestCenterOfMass(t *testing.T) {
	s := twoBody(t)
	com := s.CenterOfMass()
	assert.InDelta(t, 9.0/4, com.X, 1e-12)

	s.ZeroCOMVelocity()
	v := s.COMVelocity()
	assert.InDelta(t, 0, v.X, 1e-12)
	assert.InDelta(t, 0, v.Y, 1e-12)
	assert.InDelta(t, 0, v.Z, 1e-12)
}

func TestAddRejectsBadMass(t *testing.T) {
	s := NewSystem(DefaultMaxBytes)
	assert.ErrorIs(t, s.Add(Particle{Mass: 0}), ErrInvalidParticle)
	assert.ErrorIs(t, s.Add(Particle{Mass: -1}), ErrInvalidParticle)
	assert.Equal(t, 0, s.Len())
}

func TestBudgetExhaustion(t *testing.T) {
	a := alloc.New[Particle](alloc.NewBudget(0))
	size, err := a.Bytes(3)
	require.NoError(t, err)

	s := NewSystem(size)
	for range 3 {
		require.NoError(t, s.Add(Particle{Mass: 1}))
	}
	assert.ErrorIs(t, s.Add(Particle{Mass: 1}), alloc.ErrBudgetExceeded)
	assert.Equal(t, 3, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	require.NoError(t, s.Add(Particle{Mass: 1}))
}

func TestApplyPBC(t *testing.T) {
	s := NewSystem(DefaultMaxBytes)
	require.NoError(t, s.Add(Particle{Pos: r3.Vec{X: -1, Y: 11, Z: 5}, Mass: 1}))
	s.ApplyPBC(lattice.Cubic(10))
	p := s.At(0)
	assert.InDelta(t, 9, p.Pos.X, 1e-12)
	assert.InDelta(t, 1, p.Pos.Y, 1e-12)
	assert.InDelta(t, 5, p.Pos.Z, 1e-12)
}

func TestClearForces(t *testing.T) {
	s := twoBody(t)
	s.At(0).Force = r3.Vec{X: 1}
	s.ClearForces()
	assert.Equal(t, r3.Vec{}, s.At(0).Force)
	assert.True(t, s.Finite())
}
