package sim

import (
	"context"
	"errors"

	"github.com/san-kum/matsim/internal/forcefield"
	"github.com/san-kum/matsim/internal/heat"
	"github.com/san-kum/matsim/internal/integrators"
	"github.com/san-kum/matsim/internal/lattice"
	"github.com/san-kum/matsim/internal/particle"
	"github.com/san-kum/matsim/internal/potential"
	"github.com/san-kum/matsim/internal/thermostat"
)

// Simulation owns either an MD assembly or a heat Model. See the package
// documentation for the lifecycle.
type Simulation struct {
	mode   Mode
	params Params

	// heat modes
	model  Model
	heat1d *heat.Model1D
	heat2d *heat.Model2D

	// MD
	sys         *particle.System
	lat         lattice.Lattice
	hasLattice  bool
	evaluator   forcefield.Evaluator
	integrator  Integrator
	thermostat  thermostat.Thermostat
	epot        float64
	initialized bool
	time        float64
	steps       int
	err         error

	observers []Observer
}

// NewMD builds a molecular dynamics simulation with velocity Verlet and no
// thermostat. pot may be nil and set later.
func NewMD(p Params, pot potential.Potential) *Simulation {
	s := &Simulation{mode: MD, params: p}
	if err := p.Validate(); err != nil {
		s.err = err
		return s
	}
	s.sys = particle.NewSystem(p.MaxParticleBytes)
	s.integrator = integrators.NewVelocityVerlet(p.Dt)
	if pot != nil {
		s.installPotential(pot)
	}
	return s
}

// NewHeat1D wraps a 1D solver. Invalid parameters give an invalid
// Simulation; only budget exhaustion is returned as an error.
func NewHeat1D(p heat.Params1D) (*Simulation, error) {
	m, err := heat.New1D(p)
	if err != nil {
		return nil, err
	}
	return &Simulation{mode: HeatDiffusion, model: m, heat1d: m}, nil
}

// NewHeat2D wraps a 2D solver, with the same error contract as NewHeat1D.
func NewHeat2D(p heat.Params2D) (*Simulation, error) {
	m, err := heat.New2D(p)
	if err != nil {
		return nil, err
	}
	return &Simulation{mode: HeatDiffusion2D, model: m, heat2d: m}, nil
}

func (s *Simulation) Mode() Mode     { return s.mode }
func (s *Simulation) Params() Params { return s.params }

func (s *Simulation) IsValid() bool {
	if s.model != nil {
		return s.model.IsValid()
	}
	return s.err == nil
}

// ErrorMessage is empty exactly when the simulation is valid.
func (s *Simulation) ErrorMessage() string {
	return Message(s.Err())
}

// Err returns the failure as an error value, or nil.
func (s *Simulation) Err() error {
	switch {
	case s.heat1d != nil:
		return s.heat1d.Err()
	case s.heat2d != nil:
		return s.heat2d.Err()
	}
	return s.err
}

func (s *Simulation) Time() float64 {
	if s.model != nil {
		return s.model.Time()
	}
	return s.time
}

func (s *Simulation) StepCount() int {
	if s.model != nil {
		return s.model.StepCount()
	}
	return s.steps
}

// Finished is true when the simulation is invalid, has used MaxSteps, or
// has reached a positive EndTime.
func (s *Simulation) Finished() bool {
	if s.model != nil {
		return s.model.Finished()
	}
	if s.err != nil || s.steps >= s.params.MaxSteps {
		return true
	}
	return s.params.EndTime > 0 && s.time >= s.params.EndTime
}

func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// System gives mutable access to the particles, or nil outside MD mode.
func (s *Simulation) System() *particle.System { return s.sys }

// SetLattice makes the simulation periodic. A rejected lattice leaves the
// previous geometry in place.
func (s *Simulation) SetLattice(l lattice.Lattice) error {
	if s.mode != MD {
		return ErrWrongMode
	}
	if err := l.Validate(); err != nil {
		return err
	}
	s.lat, s.hasLattice = l, true
	s.resetNeighbors()
	return nil
}

// ClearLattice switches to open boundaries.
func (s *Simulation) ClearLattice() {
	s.hasLattice = false
	s.resetNeighbors()
}

func (s *Simulation) HasLattice() bool { return s.hasLattice }

// Lattice returns the periodic cell, or nil when boundaries are open.
func (s *Simulation) Lattice() *lattice.Lattice {
	if !s.hasLattice {
		return nil
	}
	l := s.lat
	return &l
}

// SetPotential installs a brute-force or neighbor-list evaluator depending
// on Params.UseNeighborList.
func (s *Simulation) SetPotential(pot potential.Potential) error {
	if s.mode != MD {
		return ErrWrongMode
	}
	s.installPotential(pot)
	return nil
}

func (s *Simulation) installPotential(pot potential.Potential) {
	if s.params.UseNeighborList {
		s.evaluator = forcefield.NewNeighborForceField(pot, s.params.Cutoff, s.params.NeighborSkin)
	} else {
		s.evaluator = forcefield.New(pot)
	}
}

func (s *Simulation) Potential() potential.Potential {
	if s.evaluator == nil {
		return nil
	}
	return s.evaluator.Potential()
}

// NeighborList exposes the Verlet list when one is in use.
func (s *Simulation) NeighborList() *forcefield.NeighborList {
	if nf, ok := s.evaluator.(*forcefield.NeighborForceField); ok {
		return nf.NeighborList()
	}
	return nil
}

func (s *Simulation) resetNeighbors() {
	if nl := s.NeighborList(); nl != nil {
		nl.Clear()
	}
}

// SetThermostat installs th; nil removes thermostatting.
func (s *Simulation) SetThermostat(th thermostat.Thermostat) error {
	if s.mode != MD {
		return ErrWrongMode
	}
	s.thermostat = th
	return nil
}

func (s *Simulation) Thermostat() thermostat.Thermostat { return s.thermostat }

// SetIntegrator replaces velocity Verlet. The integrator must use Params.Dt.
func (s *Simulation) SetIntegrator(in Integrator) error {
	if s.mode != MD {
		return ErrWrongMode
	}
	if in == nil {
		return ErrNilIntegrator
	}
	if in.Dt() != s.params.Dt {
		return ErrIntegratorDt
	}
	s.integrator = in
	return nil
}

// Initialize removes centre-of-mass drift and computes the starting forces.
// Step calls it on first use if the caller has not.
func (s *Simulation) Initialize() {
	if s.mode != MD || s.err != nil {
		return
	}
	s.sys.ZeroCOMVelocity()
	s.computeForces()
	s.initialized = true
}

func (s *Simulation) computeForces() {
	if s.evaluator == nil {
		s.sys.ClearForces()
		s.epot = 0
		return
	}
	s.epot = s.evaluator.ComputeForces(s.sys, s.cell())
}

func (s *Simulation) cell() *lattice.Lattice {
	if !s.hasLattice {
		return nil
	}
	return &s.lat
}

// Step advances one time step and reports whether it did. It returns false
// once the simulation is finished or has failed.
func (s *Simulation) Step() bool {
	if s.model != nil {
		if !s.model.Step() {
			return false
		}
		s.notify()
		return true
	}
	if s.Finished() {
		return false
	}
	if !s.initialized {
		s.Initialize()
	}

	s.integrator.Step1(s.sys)
	if s.hasLattice {
		s.sys.ApplyPBC(s.lat)
	}
	s.computeForces()
	s.integrator.Step2(s.sys)
	if s.thermostat != nil {
		s.thermostat.Apply(s.sys, s.params.Dt)
	}

	s.time += s.params.Dt
	s.steps++
	if !finite(s.time) {
		s.fail(ErrNonFiniteTime)
		return false
	}
	if s.params.CheckFinite && !(finite(s.epot) && s.sys.Finite()) {
		s.fail(ErrNonFiniteState)
		return false
	}
	// Snap onto EndTime so accumulated rounding cannot add a step.
	if end := s.params.EndTime; end > 0 && s.time >= end-0.5*s.params.Dt {
		s.time = end
	}
	s.notify()
	return true
}

func (s *Simulation) fail(err error) {
	if s.err == nil {
		s.err = &StepError{Step: s.steps, Time: s.time, Wrapped: err}
	}
}

func (s *Simulation) notify() {
	for _, o := range s.observers {
		o.OnStep(s)
	}
}

// Run steps until Step returns false.
func (s *Simulation) Run() {
	if s.mode == MD && !s.initialized {
		s.Initialize()
	}
	for s.Step() {
	}
}

// RunContext is Run with cancellation checked between steps. It returns the
// context error if cancelled, otherwise the simulation error, if any.
func (s *Simulation) RunContext(ctx context.Context) error {
	if s.mode == MD && !s.initialized {
		s.Initialize()
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !s.Step() {
			return s.Err()
		}
	}
}

func (s *Simulation) KineticEnergy() float64 {
	if s.sys == nil {
		return 0
	}
	return s.sys.KineticEnergy()
}

// PotentialEnergy is the value from the most recent force evaluation.
func (s *Simulation) PotentialEnergy() float64 { return s.epot }

func (s *Simulation) TotalEnergy() float64 {
	return s.KineticEnergy() + s.PotentialEnergy()
}

// Temperature is the kinetic temperature in MD mode and zero otherwise.
func (s *Simulation) Temperature() float64 {
	if s.sys == nil {
		return 0
	}
	return s.sys.Temperature()
}

// Heat1DModel returns the 1D solver, or nil in other modes.
func (s *Simulation) Heat1DModel() *heat.Model1D { return s.heat1d }

// Heat2DModel returns the 2D solver, or nil in other modes.
func (s *Simulation) Heat2DModel() *heat.Model2D { return s.heat2d }

// IsNonFinite reports whether err is a runtime numerical failure.
func IsNonFinite(err error) bool {
	return errors.Is(err, ErrNonFiniteTime) || errors.Is(err, ErrNonFiniteState) ||
		errors.Is(err, heat.ErrNonFiniteTime)
}
