package thermostat

import (
	"math"
	"testing"

	"github.com/san-kum/matsim/internal/particle"
	"github.com/san-kum/matsim/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func gas(t *testing.T, n int, speed float64) *particle.System {
	t.Helper()
	sys := particle.NewSystem(particle.DefaultMaxBytes)
	for i := range n {
		v := r3.Vec{X: speed}
		if i%2 == 1 {
			v = r3.Scale(-1, v)
		}
		require.NoError(t, sys.Add(particle.Particle{Vel: v, Mass: units.ArgonMass}))
	}
	return sys
}

func TestVelocityRescaleConverges(t *testing.T) {
	sys := gas(t, 100, 200)
	th := NewVelocityRescale(350, 8e-13)
	for range 20000 {
		th.Apply(sys, 1e-15)
	}
	assert.InDelta(t, 350, sys.Temperature(), 1)
}

func TestVelocityRescaleFactor(t *testing.T) {
	sys := gas(t, 10, 300)
	before := sys.Temperature()
	th := NewVelocityRescale(2*before, 1e-12)
	th.Apply(sys, 1e-13)

	lambda2 := 1 + 0.1*(2-1)
	assert.InDelta(t, before*lambda2, sys.Temperature(), before*1e-12)
}

func TestVelocityRescaleSkips(t *testing.T) {
	cold := gas(t, 10, 0)
	NewVelocityRescale(300, 1e-13).Apply(cold, 1e-15)
	assert.Equal(t, 0.0, cold.Temperature())

	sys := gas(t, 10, 300)
	before := sys.At(0).Vel
	NewVelocityRescale(0, 1e-13).Apply(sys, 1e-15)
	assert.Equal(t, before, sys.At(0).Vel)

	// dt/τ large enough to make λ² negative.
	NewVelocityRescale(1e-6, 1e-15).Apply(sys, 1e-13)
	assert.Equal(t, before, sys.At(0).Vel)
}

func TestAndersenDeterministic(t *testing.T) {
	a := gas(t, 50, 100)
	b := gas(t, 50, 100)
	ta := NewAndersen(300, 1e13, 42)
	tb := NewAndersen(300, 1e13, 42)
	for range 10 {
		ta.Apply(a, 1e-14)
		tb.Apply(b, 1e-14)
	}
	for i := range a.Len() {
		assert.Equal(t, a.At(i).Vel, b.At(i).Vel)
	}
}

func TestAndersenSamplesTarget(t *testing.T) {
	sys := gas(t, 2000, 0)
	// ν·dt = 50 resamples every particle.
	th := NewAndersen(300, 5e16, 7)
	th.Apply(sys, 1e-15)
	assert.InDelta(t, 300, sys.Temperature(), 300*0.08)

	sigma := math.Sqrt(units.Boltzmann * 300 / units.ArgonMass)
	var sum float64
	for _, p := range sys.Particles() {
		sum += p.Vel.X * p.Vel.X
	}
	assert.InDelta(t, sigma*sigma, sum/float64(sys.Len()), sigma*sigma*0.15)
}

func TestAndersenNoCollisions(t *testing.T) {
	sys := gas(t, 10, 123)
	before := sys.At(3).Vel
	NewAndersen(300, 0, 1).Apply(sys, 1e-15)
	assert.Equal(t, before, sys.At(3).Vel)
}

func TestNull(t *testing.T) {
	sys := gas(t, 4, 50)
	before := sys.KineticEnergy()
	var th Thermostat = Null{}
	th.Apply(sys, 1)
	th.SetTargetTemperature(500)
	assert.Equal(t, before, sys.KineticEnergy())
	assert.Equal(t, 0.0, th.TargetTemperature())
}
