package integrators

import (
	"math"

	"github.com/san-kum/matsim/internal/particle"
	"github.com/san-kum/matsim/internal/units"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// typicalDistance is the length a particle may cross per characteristic time.
	typicalDistance = units.Angstrom
	staticTime      = 1e-14
)

// EstimateCharacteristicTime is the time the fastest particle takes to cross
// one ångström. Nearly static systems get 10 fs; empty systems get 1 s.
func EstimateCharacteristicTime(sys *particle.System) float64 {
	if sys.Len() == 0 {
		return 1
	}
	var vmax float64
	for _, p := range sys.Particles() {
		vmax = math.Max(vmax, r3.Norm(p.Vel))
	}
	if vmax < 1e-10 {
		return staticTime
	}
	return typicalDistance / vmax
}

// IsStable applies the conservative dt < τ/10 rule.
func IsStable(dt float64, sys *particle.System) bool {
	return dt < EstimateCharacteristicTime(sys)/10
}

func RecommendedMaxDt(sys *particle.System) float64 {
	return EstimateCharacteristicTime(sys) / 20
}
