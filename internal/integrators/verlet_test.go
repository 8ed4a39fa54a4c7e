package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/matsim/internal/particle"
	"gonum.org/v1/gonum/spatial/r3"
)

// spring pulls every particle towards the origin with F = -k·x.
func spring(k float64) func(*particle.System) {
	return func(sys *particle.System) {
		ps := sys.Particles()
		for i := range ps {
			ps[i].Force = r3.Add(ps[i].Force, r3.Scale(-k, ps[i].Pos))
		}
	}
}

func oscillator(t *testing.T) *particle.System {
	t.Helper()
	sys := particle.NewSystem(particle.DefaultMaxBytes)
	if err := sys.Add(particle.Particle{Pos: r3.Vec{X: 1}, Mass: 1}); err != nil {
		t.Fatal(err)
	}
	spring(1)(sys)
	return sys
}

func energy(sys *particle.System) float64 {
	p := sys.At(0)
	return 0.5*p.Mass*r3.Norm2(p.Vel) + 0.5*r3.Norm2(p.Pos)
}

func TestVelocityVerletAccuracy(t *testing.T) {
	sys := oscillator(t)
	vv := NewVelocityVerlet(0.01)
	steps := 100
	for i := 0; i < steps; i++ {
		vv.Integrate(sys, spring(1))
	}

	p := sys.At(0)
	expectedX := math.Cos(float64(steps) * 0.01)
	expectedV := -math.Sin(float64(steps) * 0.01)
	if math.Abs(p.Pos.X-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", p.Pos.X, expectedX)
	}
	if math.Abs(p.Vel.X-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", p.Vel.X, expectedV)
	}
}

func TestVelocityVerletEnergyBounded(t *testing.T) {
	sys := oscillator(t)
	vv := NewVelocityVerlet(0.05)
	e0 := energy(sys)
	for i := 0; i < 10000; i++ {
		vv.Integrate(sys, spring(1))
		if drift := math.Abs(energy(sys)-e0) / e0; drift > 1e-3 {
			t.Fatalf("step %d: energy drift %.2e", i, drift)
		}
	}
}

func TestVelocityVerletReversible(t *testing.T) {
	sys := oscillator(t)
	vv := NewVelocityVerlet(0.05)
	for i := 0; i < 200; i++ {
		vv.Integrate(sys, spring(1))
	}
	sys.At(0).Vel = r3.Scale(-1, sys.At(0).Vel)
	for i := 0; i < 200; i++ {
		vv.Integrate(sys, spring(1))
	}
	if math.Abs(sys.At(0).Pos.X-1) > 1e-9 {
		t.Errorf("not time reversible: x = %.12f", sys.At(0).Pos.X)
	}
}

func TestEulerGainsEnergy(t *testing.T) {
	sys := oscillator(t)
	e := NewEuler(0.05)
	e0 := energy(sys)
	for i := 0; i < 2000; i++ {
		e.Step1(sys)
		sys.ClearForces()
		spring(1)(sys)
		e.Step2(sys)
	}
	// Semi-implicit Euler stays bounded but oscillates more than Verlet.
	if math.IsNaN(energy(sys)) || energy(sys) > 2*e0 {
		t.Errorf("euler energy diverged: %v", energy(sys))
	}
	if e.Dt() != 0.05 {
		t.Errorf("dt = %v", e.Dt())
	}
}

func TestTimeStepEstimate(t *testing.T) {
	sys := particle.NewSystem(particle.DefaultMaxBytes)
	if got := EstimateCharacteristicTime(sys); got != 1 {
		t.Errorf("empty system: got %v", got)
	}
	if err := sys.Add(particle.Particle{Mass: 1}); err != nil {
		t.Fatal(err)
	}
	if got := EstimateCharacteristicTime(sys); got != 1e-14 {
		t.Errorf("static system: got %v", got)
	}

	sys.At(0).Vel = r3.Vec{X: 500}
	tau := EstimateCharacteristicTime(sys)
	if math.Abs(tau-2e-13) > 1e-25 {
		t.Errorf("tau = %v", tau)
	}
	if !IsStable(1e-15, sys) || IsStable(5e-14, sys) {
		t.Error("stability rule should be dt < tau/10")
	}
	if math.Abs(RecommendedMaxDt(sys)-1e-14) > 1e-26 {
		t.Errorf("recommended = %v", RecommendedMaxDt(sys))
	}
}
