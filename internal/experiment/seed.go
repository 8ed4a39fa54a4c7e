package experiment

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/san-kum/matsim/internal/lattice"
	"github.com/san-kum/matsim/internal/particle"
	"github.com/san-kum/matsim/internal/units"
	"gonum.org/v1/gonum/spatial/r3"
)

// SeedSimpleCubic fills the first n sites of a k×k×k grid spanning the cell,
// k = ⌈∛n⌉, with cell-centred fractional positions. Velocities are drawn
// from the Maxwell-Boltzmann distribution at temperature, centre-of-mass
// drift is removed and the result is rescaled to exactly that temperature.
func SeedSimpleCubic(sys *particle.System, cell lattice.Lattice, n int, mass, temperature float64, rng *rand.Rand) error {
	if n <= 0 {
		return fmt.Errorf("particle count must be positive, got %d", n)
	}
	if mass <= 0 {
		return fmt.Errorf("particle mass must be positive, got %g", mass)
	}
	if err := sys.Reserve(sys.Len() + n); err != nil {
		return err
	}

	k := int(math.Ceil(math.Cbrt(float64(n))))
	for k*k*k < n {
		k++
	}
	sigma := math.Sqrt(units.Boltzmann * temperature / mass)

	placed := 0
	for i := 0; i < k && placed < n; i++ {
		for j := 0; j < k && placed < n; j++ {
			for l := 0; l < k && placed < n; l++ {
				frac := r3.Vec{
					X: (float64(i) + 0.5) / float64(k),
					Y: (float64(j) + 0.5) / float64(k),
					Z: (float64(l) + 0.5) / float64(k),
				}
				p := particle.Particle{
					Pos:  cell.FractionalToCartesian(frac),
					Vel:  r3.Vec{X: sigma * rng.NormFloat64(), Y: sigma * rng.NormFloat64(), Z: sigma * rng.NormFloat64()},
					Mass: mass,
				}
				if err := sys.Add(p); err != nil {
					return err
				}
				placed++
			}
		}
	}

	sys.ZeroCOMVelocity()
	if current := sys.Temperature(); current > 0 && temperature > 0 {
		scale := math.Sqrt(temperature / current)
		for i := range sys.Particles() {
			p := sys.At(i)
			p.Vel = r3.Scale(scale, p.Vel)
		}
	}
	return nil
}

// NewRand returns a seeded PCG source; seed 0 draws one from entropy.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}
