package metrics

import (
	"math"

	"github.com/san-kum/matsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

// Stability is the fraction of observed steps on which the simulation was
// valid and no particle moved faster than threshold (m/s).
type Stability struct {
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold}
}

func (s *Stability) Name() string {
	return "stability"
}

func (s *Stability) Observe(sm *sim.Simulation) {
	s.samples++
	if !sm.IsValid() {
		s.violations++
		return
	}
	sys := sm.System()
	if sys == nil {
		return
	}
	for _, p := range sys.Particles() {
		if v := r3.Norm(p.Vel); math.IsNaN(v) || v > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
