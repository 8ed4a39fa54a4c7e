// Package experiment turns a config.Scene into a ready Simulation and runs
// it with metrics and sampling attached.
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/matsim/internal/config"
	"github.com/san-kum/matsim/internal/integrators"
	"github.com/san-kum/matsim/internal/metrics"
	"github.com/san-kum/matsim/internal/sim"
	"github.com/sirupsen/logrus"
)

// maxSamples bounds the recorder to roughly this many rows per run.
const maxSamples = 1000

type Experiment struct {
	scene    config.Scene
	sim      *sim.Simulation
	metrics  metrics.Set
	recorder *metrics.Recorder
}

// Result summarises a finished run.
type Result struct {
	Scene   string             `json:"scene"`
	Mode    string             `json:"mode"`
	Seed    uint64             `json:"seed"`
	Steps   int                `json:"steps"`
	Time    float64            `json:"time"`
	Elapsed time.Duration      `json:"elapsed"`
	Metrics map[string]float64 `json:"metrics"`
	Err     string             `json:"error,omitempty"`

	Samples []metrics.Sample `json:"-"`
	// Field is the final temperature field in heat modes, row-major for 2D.
	Field []float64 `json:"-"`
	NX    int       `json:"nx,omitempty"`
	NY    int       `json:"ny,omitempty"`
}

// New builds the simulation described by scene. Invalid scenes are
// rejected here rather than producing an invalid Simulation.
func New(scene config.Scene, reg *Registry) (*Experiment, error) {
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = NewRegistry()
	}

	var (
		s   *sim.Simulation
		err error
	)
	switch scene.Mode {
	case sim.HeatDiffusion:
		s, err = sim.NewHeat1D(scene.Heat1D)
	case sim.HeatDiffusion2D:
		s, err = sim.NewHeat2D(scene.Heat2D)
	default:
		s, err = buildMD(scene, reg)
	}
	if err != nil {
		return nil, err
	}
	if !s.IsValid() {
		return nil, s.Err()
	}

	e := &Experiment{
		scene:    scene,
		sim:      s,
		metrics:  metrics.Default(scene.Mode),
		recorder: metrics.NewRecorder(expectedSteps(scene) / maxSamples),
	}
	s.AddObserver(e.metrics)
	s.AddObserver(e.recorder)
	return e, nil
}

func buildMD(scene config.Scene, reg *Registry) (*sim.Simulation, error) {
	md := scene.MD
	pot, err := reg.Potential(md.Potential, md.Params)
	if err != nil {
		return nil, err
	}
	s := sim.NewMD(md.Params, pot)
	if !s.IsValid() {
		return nil, s.Err()
	}
	if err := s.SetLattice(md.Cell()); err != nil {
		return nil, err
	}

	rng := NewRand(scene.Seed)
	th, err := reg.Thermostat(md.Thermostat, md.Params, rng.Uint64())
	if err != nil {
		return nil, err
	}
	if err := s.SetThermostat(th); err != nil {
		return nil, err
	}
	in, err := reg.Integrator(md.Integrator, md.Params.Dt)
	if err != nil {
		return nil, err
	}
	if err := s.SetIntegrator(in); err != nil {
		return nil, err
	}

	if err := s.System().Reserve(md.Atoms); err != nil {
		return nil, fmt.Errorf("reserve %d atoms: %w", md.Atoms, err)
	}
	if err := SeedSimpleCubic(s.System(), md.Cell(), md.Atoms, md.Mass, md.Params.Temperature, rng); err != nil {
		return nil, err
	}
	if !integrators.IsStable(md.Params.Dt, s.System()) {
		logrus.WithField("scene", scene.Name).Warnf("dt %g s is above the recommended %g s",
			md.Params.Dt, integrators.RecommendedMaxDt(s.System()))
	}
	return s, nil
}

func expectedSteps(scene config.Scene) int {
	var dt, end float64
	var maxSteps int
	switch scene.Mode {
	case sim.HeatDiffusion:
		dt, end, maxSteps = scene.Heat1D.Dt, scene.Heat1D.EndTime, scene.Heat1D.MaxSteps
	case sim.HeatDiffusion2D:
		dt, end, maxSteps = scene.Heat2D.Dt, scene.Heat2D.EndTime, scene.Heat2D.MaxSteps
	default:
		dt, end, maxSteps = scene.MD.Params.Dt, scene.MD.Params.EndTime, scene.MD.Params.MaxSteps
	}
	if end > 0 && dt > 0 {
		if n := int(end/dt + 0.5); n < maxSteps {
			return n
		}
	}
	return maxSteps
}

func (e *Experiment) Scene() config.Scene         { return e.scene }
func (e *Experiment) Simulation() *sim.Simulation { return e.sim }
func (e *Experiment) Metrics() metrics.Set        { return e.metrics }
func (e *Experiment) Recorder() *metrics.Recorder { return e.recorder }

// Run steps the simulation to completion or until ctx is done. A simulation
// that goes non-finite is reported in Result.Err and as the returned error;
// the partial Result is still returned.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	log := logrus.WithFields(logrus.Fields{"scene": e.scene.Name, "mode": e.scene.Mode})
	log.Debugf("starting run, about %d steps", expectedSteps(e.scene))

	start := time.Now()
	if e.scene.Mode == sim.MD {
		e.sim.Initialize()
	}
	e.recorder.Record(e.sim)
	err := e.sim.RunContext(ctx)
	res := e.result(time.Since(start))

	switch {
	case err == nil:
		log.Infof("finished %d steps, t=%g in %v", res.Steps, res.Time, res.Elapsed)
	case ctx.Err() != nil:
		log.Warnf("cancelled after %d steps", res.Steps)
		res.Err = err.Error()
	default:
		log.Errorf("run failed: %v", err)
		res.Err = err.Error()
	}
	return res, err
}

func (e *Experiment) result(elapsed time.Duration) *Result {
	s := e.sim
	res := &Result{
		Scene:   e.scene.Name,
		Mode:    e.scene.Mode.String(),
		Seed:    e.scene.Seed,
		Steps:   s.StepCount(),
		Time:    s.Time(),
		Elapsed: elapsed,
		Metrics: e.metrics.Values(),
		Samples: append([]metrics.Sample(nil), e.recorder.Samples()...),
	}
	switch {
	case s.Heat1DModel() != nil:
		res.Field = append([]float64(nil), s.Heat1DModel().Temperature()...)
		res.NX = len(res.Field)
	case s.Heat2DModel() != nil:
		m := s.Heat2DModel()
		res.Field = append([]float64(nil), m.Temperature()...)
		res.NX, res.NY = m.NX(), m.NY()
	}
	return res
}
