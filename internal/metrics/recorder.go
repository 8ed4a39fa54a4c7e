package metrics

import (
	"github.com/san-kum/matsim/internal/sim"
)

// Sample is one row of a recorded run.
type Sample struct {
	Step        int
	Time        float64
	Kinetic     float64
	Potential   float64
	Total       float64
	Temperature float64
}

// Recorder samples the simulation every Every steps. It satisfies
// sim.Observer.
type Recorder struct {
	Every   int
	samples []Sample
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{Every: every}
}

func (r *Recorder) OnStep(s *sim.Simulation) {
	if s.StepCount()%r.Every != 0 {
		return
	}
	r.Record(s)
}

// Record appends a sample unconditionally, for the initial state.
func (r *Recorder) Record(s *sim.Simulation) {
	r.samples = append(r.samples, Sample{
		Step:        s.StepCount(),
		Time:        s.Time(),
		Kinetic:     s.KineticEnergy(),
		Potential:   s.PotentialEnergy(),
		Total:       s.TotalEnergy(),
		Temperature: temperatureOf(s),
	})
}

func (r *Recorder) Samples() []Sample { return r.samples }

// Series extracts one column: "time", "kinetic", "potential", "total" or
// "temperature". Unknown names return nil.
func (r *Recorder) Series(name string) []float64 {
	var pick func(Sample) float64
	switch name {
	case "time":
		pick = func(s Sample) float64 { return s.Time }
	case "kinetic":
		pick = func(s Sample) float64 { return s.Kinetic }
	case "potential":
		pick = func(s Sample) float64 { return s.Potential }
	case "total":
		pick = func(s Sample) float64 { return s.Total }
	case "temperature":
		pick = func(s Sample) float64 { return s.Temperature }
	default:
		return nil
	}
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		out[i] = pick(s)
	}
	return out
}

func (r *Recorder) Reset() { r.samples = r.samples[:0] }
