// Package lattice implements periodic cell geometry for three arbitrary
// basis vectors.
//
// Every operation goes through fractional coordinates, so triclinic cells
// behave exactly like orthogonal ones. The basis is right-handed and in
// metres.
package lattice

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrNonFinite  = errors.New("lattice: non-finite basis")
	ErrDegenerate = errors.New("lattice: degenerate basis")
)

// orthoTol is relative to the basis vector length.
const orthoTol = 1e-10

// Lattice is a periodic cell spanned by A1, A2 and A3. It is a plain value
// and can be copied freely.
type Lattice struct {
	A1 r3.Vec `yaml:"a1"`
	A2 r3.Vec `yaml:"a2"`
	A3 r3.Vec `yaml:"a3"`
}

func New(a1, a2, a3 r3.Vec) Lattice {
	return Lattice{A1: a1, A2: a2, A3: a3}
}

// Default returns the unit cube.
func Default() Lattice {
	return Cubic(1)
}

func Cubic(a float64) Lattice {
	return Lattice{
		A1: r3.Vec{X: a},
		A2: r3.Vec{Y: a},
		A3: r3.Vec{Z: a},
	}
}

// Volume returns the signed triple product a1·(a2×a3).
func (l Lattice) Volume() float64 {
	return r3.Dot(l.A1, r3.Cross(l.A2, l.A3))
}

// degenerate reports whether the volume is negligible against the product of
// the basis lengths. Scaling the cell does not change the answer, so a
// nanometre box is judged the same way as a unit cube.
func (l Lattice) degenerate(vol float64) bool {
	scale := r3.Norm(l.A1) * r3.Norm(l.A2) * r3.Norm(l.A3)
	return scale == 0 || math.Abs(vol)/scale < epsilon
}

const epsilon = 2.220446049250313e-16

// Validate rejects non-finite components and linearly dependent vectors.
func (l Lattice) Validate() error {
	for i, a := range [3]r3.Vec{l.A1, l.A2, l.A3} {
		if !finite(a) {
			return fmt.Errorf("%w: vector a%d contains non-finite components", ErrNonFinite, i+1)
		}
	}
	vol := l.Volume()
	if math.IsNaN(vol) || math.IsInf(vol, 0) {
		return fmt.Errorf("%w: volume is non-finite", ErrNonFinite)
	}
	if l.degenerate(vol) {
		return fmt.Errorf("%w: vectors are linearly dependent (volume %g)", ErrDegenerate, vol)
	}
	return nil
}

// CartesianToFractional solves r = f1·a1 + f2·a2 + f3·a3 by Cramer's rule.
// A degenerate cell maps everything to the origin.
func (l Lattice) CartesianToFractional(r r3.Vec) r3.Vec {
	vol := l.Volume()
	if l.degenerate(vol) {
		return r3.Vec{}
	}
	inv := 1 / vol
	return r3.Vec{
		X: inv * r3.Dot(r, r3.Cross(l.A2, l.A3)),
		Y: inv * r3.Dot(r, r3.Cross(l.A3, l.A1)),
		Z: inv * r3.Dot(r, r3.Cross(l.A1, l.A2)),
	}
}

func (l Lattice) FractionalToCartesian(f r3.Vec) r3.Vec {
	return r3.Add(r3.Add(r3.Scale(f.X, l.A1), r3.Scale(f.Y, l.A2)), r3.Scale(f.Z, l.A3))
}

// MinImageFrac maps each fractional component into [-0.5, 0.5).
func (l Lattice) MinImageFrac(f r3.Vec) r3.Vec {
	return r3.Vec{X: minImage(f.X), Y: minImage(f.Y), Z: minImage(f.Z)}
}

func minImage(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN()
	}
	// Coarse shift first so huge inputs do not loop for ages.
	if v >= 0.5 || v < -0.5 {
		v -= math.Round(v)
	}
	for v >= 0.5 {
		v--
	}
	for v < -0.5 {
		v++
	}
	return v
}

// WrapCartesian folds r back into the cell, fractional [0, 1) on every axis.
func (l Lattice) WrapCartesian(r r3.Vec) r3.Vec {
	f := l.CartesianToFractional(r)
	f = r3.Vec{X: wrap(f.X), Y: wrap(f.Y), Z: wrap(f.Z)}
	return l.FractionalToCartesian(f)
}

func wrap(v float64) float64 {
	v -= math.Floor(v)
	// -1e-17 floors to -1 and rounds back up to exactly 1.
	if v >= 1 {
		v = 0
	}
	return v
}

// MinImageDisplacement returns the shortest periodic vector from r1 to r2.
func (l Lattice) MinImageDisplacement(r1, r2 r3.Vec) r3.Vec {
	f := l.CartesianToFractional(r3.Sub(r2, r1))
	return l.FractionalToCartesian(l.MinImageFrac(f))
}

// ReciprocalVectors returns b1, b2, b3 with b_i·a_j = 2π δ_ij.
func (l Lattice) ReciprocalVectors() (b1, b2, b3 r3.Vec) {
	vol := l.Volume()
	if l.degenerate(vol) {
		return r3.Vec{}, r3.Vec{}, r3.Vec{}
	}
	k := 2 * math.Pi / vol
	return r3.Scale(k, r3.Cross(l.A2, l.A3)),
		r3.Scale(k, r3.Cross(l.A3, l.A1)),
		r3.Scale(k, r3.Cross(l.A1, l.A2))
}

// IsOrthogonal reports whether a1, a2 and a3 lie along x, y and z.
func (l Lattice) IsOrthogonal() bool {
	off := func(along float64, o1, o2 float64) bool {
		tol := orthoTol * math.Max(math.Abs(along), 1e-300)
		return math.Abs(o1) > tol || math.Abs(o2) > tol
	}
	if off(l.A1.X, l.A1.Y, l.A1.Z) || off(l.A2.Y, l.A2.X, l.A2.Z) || off(l.A3.Z, l.A3.X, l.A3.Y) {
		return false
	}
	return true
}

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
