// Package potential defines stateless pairwise interaction laws.
//
// All functions take the squared separation so callers never need a square
// root on the hot path. ForceDivR returns -dU/dr / r: the force on particle j
// from particle i is ForceDivR(r²)·(r_j - r_i).
package potential

import "math"

// Potential is immutable once built and safe to share between evaluators.
type Potential interface {
	Energy(r2 float64) float64
	ForceDivR(r2 float64) float64
	CutoffSquared() float64
}

func Cutoff(p Potential) float64 {
	return math.Sqrt(p.CutoffSquared())
}

// LennardJones is the 12-6 potential shifted so the energy is zero at the
// cutoff.
type LennardJones struct {
	epsilon  float64
	sigma    float64
	sigma2   float64
	cutoffSq float64
	shift    float64
}

func NewLennardJones(epsilon, sigma, cutoff float64) *LennardJones {
	lj := &LennardJones{
		epsilon:  epsilon,
		sigma:    sigma,
		sigma2:   sigma * sigma,
		cutoffSq: cutoff * cutoff,
	}
	if lj.cutoffSq > 0 {
		lj.shift = lj.raw(lj.cutoffSq)
	}
	return lj
}

func (lj *LennardJones) raw(r2 float64) float64 {
	s6 := lj.sigma2 / r2
	s6 = s6 * s6 * s6
	return 4 * lj.epsilon * (s6*s6 - s6)
}

func (lj *LennardJones) Energy(r2 float64) float64 {
	if r2 >= lj.cutoffSq {
		return 0
	}
	return lj.raw(r2) - lj.shift
}

func (lj *LennardJones) ForceDivR(r2 float64) float64 {
	if r2 >= lj.cutoffSq {
		return 0
	}
	s6 := lj.sigma2 / r2
	s6 = s6 * s6 * s6
	return 24 * lj.epsilon * (2*s6*s6 - s6) / r2
}

func (lj *LennardJones) CutoffSquared() float64 { return lj.cutoffSq }
func (lj *LennardJones) Epsilon() float64       { return lj.epsilon }
func (lj *LennardJones) Sigma() float64         { return lj.sigma }

// Harmonic is a spring U(r) = ½k(r-r0)² truncated at the cutoff.
type Harmonic struct {
	k        float64
	r0       float64
	cutoffSq float64
}

func NewHarmonic(k, r0, cutoff float64) *Harmonic {
	return &Harmonic{k: k, r0: r0, cutoffSq: cutoff * cutoff}
}

func (h *Harmonic) Energy(r2 float64) float64 {
	if r2 >= h.cutoffSq {
		return 0
	}
	dr := math.Sqrt(r2) - h.r0
	return 0.5 * h.k * dr * dr
}

// ForceDivR is -k(r-r0)/r. Coincident particles have no defined direction
// and get zero force.
func (h *Harmonic) ForceDivR(r2 float64) float64 {
	if r2 >= h.cutoffSq || r2 == 0 {
		return 0
	}
	r := math.Sqrt(r2)
	return -h.k * (r - h.r0) / r
}

func (h *Harmonic) CutoffSquared() float64 { return h.cutoffSq }
func (h *Harmonic) K() float64             { return h.k }
func (h *Harmonic) R0() float64            { return h.r0 }
