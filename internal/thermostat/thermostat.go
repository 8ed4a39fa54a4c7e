// Package thermostat nudges particle velocities toward a target temperature.
package thermostat

import (
	"math"
	"math/rand/v2"

	"github.com/san-kum/matsim/internal/particle"
	"github.com/san-kum/matsim/internal/units"
	"gonum.org/v1/gonum/spatial/r3"
)

// Thermostat is applied once per step after the velocity update.
type Thermostat interface {
	Apply(sys *particle.System, dt float64)
	TargetTemperature() float64
	SetTargetTemperature(t float64)
}

// VelocityRescale is the Berendsen weak-coupling thermostat with relaxation
// time Tau.
type VelocityRescale struct {
	target float64
	tau    float64
}

func NewVelocityRescale(target, tau float64) *VelocityRescale {
	return &VelocityRescale{target: target, tau: tau}
}

// Apply scales every velocity by λ with λ² = 1 + (dt/τ)(T₀/T - 1). Cold
// systems, a zero target and a non-positive λ² leave velocities untouched.
func (r *VelocityRescale) Apply(sys *particle.System, dt float64) {
	current := sys.Temperature()
	if current <= 0 || r.target <= 0 {
		return
	}
	lambda2 := 1 + dt/r.tau*(r.target/current-1)
	if !(lambda2 > 0) {
		return
	}
	lambda := math.Sqrt(lambda2)
	ps := sys.Particles()
	for i := range ps {
		ps[i].Vel = r3.Scale(lambda, ps[i].Vel)
	}
}

func (r *VelocityRescale) TargetTemperature() float64     { return r.target }
func (r *VelocityRescale) SetTargetTemperature(t float64) { r.target = t }
func (r *VelocityRescale) Tau() float64                   { return r.tau }
func (r *VelocityRescale) SetTau(tau float64)             { r.tau = tau }

// Andersen resamples each particle's velocity from the Maxwell-Boltzmann
// distribution with probability 1 - exp(-ν·dt) per step.
type Andersen struct {
	target float64
	nu     float64
	rng    *rand.Rand
}

// NewAndersen seeds the generator deterministically unless seed is 0, in
// which case it draws the seed from system entropy.
func NewAndersen(target, nu float64, seed uint64) *Andersen {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Andersen{
		target: target,
		nu:     nu,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (a *Andersen) Apply(sys *particle.System, dt float64) {
	prob := 1 - math.Exp(-a.nu*dt)
	ps := sys.Particles()
	for i := range ps {
		if a.rng.Float64() >= prob {
			continue
		}
		sigma := math.Sqrt(units.Boltzmann * a.target / ps[i].Mass)
		ps[i].Vel = r3.Vec{
			X: sigma * a.rng.NormFloat64(),
			Y: sigma * a.rng.NormFloat64(),
			Z: sigma * a.rng.NormFloat64(),
		}
	}
}

func (a *Andersen) TargetTemperature() float64     { return a.target }
func (a *Andersen) SetTargetTemperature(t float64) { a.target = t }
func (a *Andersen) CollisionFrequency() float64    { return a.nu }
func (a *Andersen) SetCollisionFrequency(nu float64) {
	a.nu = nu
}

// Null leaves the system untouched, giving constant-energy dynamics.
type Null struct{}

func (Null) Apply(*particle.System, float64) {}
func (Null) TargetTemperature() float64      { return 0 }
func (Null) SetTargetTemperature(float64)    {}
