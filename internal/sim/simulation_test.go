package sim_test

import (
	"context"
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/matsim/internal/experiment"
	"github.com/san-kum/matsim/internal/heat"
	"github.com/san-kum/matsim/internal/integrators"
	"github.com/san-kum/matsim/internal/lattice"
	"github.com/san-kum/matsim/internal/particle"
	"github.com/san-kum/matsim/internal/potential"
	"github.com/san-kum/matsim/internal/sim"
	"github.com/san-kum/matsim/internal/thermostat"
	"github.com/san-kum/matsim/internal/units"
)

func argonLJ() *potential.LennardJones {
	return potential.NewLennardJones(units.ArgonEpsilon, units.ArgonSigma, 1.1e-9)
}

// periodicArgon seeds n argon atoms into a cubic cell of side a.
func periodicArgon(p sim.Params, n int, a, temperature float64, seed uint64) *sim.Simulation {
	s := sim.NewMD(p, argonLJ())
	Expect(s.IsValid()).To(BeTrue(), s.ErrorMessage())
	cell := lattice.Cubic(a)
	Expect(s.SetLattice(cell)).To(Succeed())
	Expect(experiment.SeedSimpleCubic(s.System(), cell, n, units.ArgonMass, temperature, experiment.NewRand(seed))).To(Succeed())
	return s
}

func allFinite(sys *particle.System) bool {
	return sys.Finite()
}

var _ = Describe("Simulation", func() {
	Describe("construction", func() {
		It("marks invalid parameters and never steps", func() {
			p := sim.DefaultParams()
			p.Dt = -1
			s := sim.NewMD(p, nil)
			Expect(s.IsValid()).To(BeFalse())
			Expect(s.ErrorMessage()).NotTo(BeEmpty())
			Expect(s.Err()).To(MatchError(sim.ErrInvalidParams))
			Expect(s.Step()).To(BeFalse())
			Expect(s.Finished()).To(BeTrue())
			Expect(s.StepCount()).To(Equal(0))
		})

		It("rejects a time step longer than the end time", func() {
			p := sim.DefaultParams()
			p.EndTime = 1e-16
			Expect(sim.NewMD(p, nil).IsValid()).To(BeFalse())
		})

		It("starts valid with an empty error message", func() {
			s := sim.NewMD(sim.DefaultParams(), argonLJ())
			Expect(s.IsValid()).To(BeTrue())
			Expect(s.ErrorMessage()).To(BeEmpty())
			Expect(s.Mode()).To(Equal(sim.MD))
			Expect(s.Heat2DModel()).To(BeNil())
			Expect(s.Heat1DModel()).To(BeNil())
			Expect(s.NeighborList()).NotTo(BeNil())
		})
	})

	Describe("stepping", func() {
		It("clamps onto the end time and then stops", func() {
			p := sim.DefaultParams()
			p.EndTime = 5e-15
			s := sim.NewMD(p, nil)
			s.Run()
			Expect(s.StepCount()).To(Equal(5))
			Expect(s.Time()).To(Equal(5e-15))
			Expect(s.Finished()).To(BeTrue())
			Expect(s.Step()).To(BeFalse())
			Expect(s.IsValid()).To(BeTrue())
		})

		It("stops at max steps", func() {
			p := sim.DefaultParams()
			p.MaxSteps = 7
			s := sim.NewMD(p, nil)
			s.Run()
			Expect(s.StepCount()).To(Equal(7))
			Expect(s.Time()).To(BeNumerically("~", 7e-15, 1e-25))
		})

		It("is deterministic", func() {
			p := sim.DefaultParams()
			p.EndTime = 20e-15
			a := periodicArgon(p, 64, 3e-9, 120, 9)
			b := periodicArgon(p, 64, 3e-9, 120, 9)
			a.Run()
			b.Run()
			Expect(a.StepCount()).To(Equal(b.StepCount()))
			Expect(math.Abs(a.Time() - b.Time())).To(BeNumerically("<=", 1e-20))
			Expect(a.System().At(17).Pos).To(Equal(b.System().At(17).Pos))
		})

		It("invalidates on non-finite time", func() {
			p := sim.DefaultParams()
			p.Dt = 1e308
			s := sim.NewMD(p, nil)
			Expect(s.Step()).To(BeTrue())
			Expect(s.Step()).To(BeFalse())
			Expect(s.IsValid()).To(BeFalse())
			Expect(s.Err()).To(MatchError(sim.ErrNonFiniteTime))
			Expect(s.ErrorMessage()).To(Equal("Time value became non-finite."))
			Expect(s.Err().Error()).To(ContainSubstring("step 2"))
			Expect(sim.IsNonFinite(s.Err())).To(BeTrue())
		})

		It("invalidates on non-finite particle state", func() {
			s := periodicArgon(sim.DefaultParams(), 8, 3e-9, 100, 1)
			s.Initialize()
			s.System().At(3).Vel = r3.Vec{X: math.NaN()}
			Expect(s.Step()).To(BeFalse())
			Expect(s.Err()).To(MatchError(sim.ErrNonFiniteState))
			Expect(s.ErrorMessage()).To(Equal("Particle state became non-finite."))

			var stepErr *sim.StepError
			Expect(s.Err()).To(BeAssignableToTypeOf(stepErr))
			Expect(s.Step()).To(BeFalse())
		})

		It("notifies observers after each step", func() {
			p := sim.DefaultParams()
			p.MaxSteps = 4
			s := sim.NewMD(p, nil)
			var seen []int
			s.AddObserver(sim.ObserverFunc(func(s *sim.Simulation) {
				seen = append(seen, s.StepCount())
			}))
			s.Run()
			Expect(seen).To(Equal([]int{1, 2, 3, 4}))
		})

		It("honours context cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			s := sim.NewMD(sim.DefaultParams(), nil)
			Expect(s.RunContext(ctx)).To(MatchError(context.Canceled))
			Expect(s.StepCount()).To(Equal(0))
		})
	})

	Describe("MD assembly", func() {
		It("removes centre-of-mass drift on initialize", func() {
			s := sim.NewMD(sim.DefaultParams(), argonLJ())
			sys := s.System()
			Expect(sys.Add(particle.Particle{Pos: r3.Vec{X: 0}, Vel: r3.Vec{X: 100}, Mass: units.ArgonMass})).To(Succeed())
			Expect(sys.Add(particle.Particle{Pos: r3.Vec{X: 5e-10}, Vel: r3.Vec{X: 300}, Mass: units.ArgonMass})).To(Succeed())
			s.Initialize()
			Expect(sys.COMVelocity().X).To(BeNumerically("~", 0, 1e-9))
			Expect(s.PotentialEnergy()).NotTo(BeZero())
			Expect(s.TotalEnergy()).To(BeNumerically("~", s.KineticEnergy()+s.PotentialEnergy(), 1e-30))
		})

		It("rejects a degenerate lattice and keeps the old one", func() {
			s := sim.NewMD(sim.DefaultParams(), nil)
			Expect(s.SetLattice(lattice.Cubic(3e-9))).To(Succeed())
			bad := lattice.New(r3.Vec{X: 1}, r3.Vec{X: 2}, r3.Vec{Z: 1})
			Expect(s.SetLattice(bad)).To(MatchError(lattice.ErrDegenerate))
			Expect(s.Lattice().Volume()).To(BeNumerically("~", 27e-27, 1e-40))
			s.ClearLattice()
			Expect(s.HasLattice()).To(BeFalse())
			Expect(s.Lattice()).To(BeNil())
		})

		It("only accepts integrators with the configured dt", func() {
			s := sim.NewMD(sim.DefaultParams(), nil)
			Expect(s.SetIntegrator(integrators.NewEuler(2e-15))).To(MatchError(sim.ErrIntegratorDt))
			Expect(s.SetIntegrator(nil)).To(MatchError(sim.ErrNilIntegrator))
			Expect(s.SetIntegrator(integrators.NewEuler(sim.DefaultDt))).To(Succeed())
		})

		It("matches brute force when using the neighbor list", func() {
			p := sim.DefaultParams()
			p.MaxSteps = 40
			listed := periodicArgon(p, 125, 2.7e-9, 200, 4)
			p.UseNeighborList = false
			brute := periodicArgon(p, 125, 2.7e-9, 200, 4)
			Expect(brute.NeighborList()).To(BeNil())

			listed.Run()
			brute.Run()
			Expect(listed.PotentialEnergy()).To(BeNumerically("~", brute.PotentialEnergy(), math.Abs(brute.PotentialEnergy())*1e-9))
			for i := 0; i < listed.System().Len(); i += 13 {
				d := r3.Sub(listed.System().At(i).Pos, brute.System().At(i).Pos)
				Expect(r3.Norm(d)).To(BeNumerically("<", 1e-18))
			}
		})

		It("conserves energy without a thermostat", func() {
			p := sim.DefaultParams()
			p.MaxSteps = 400
			s := sim.NewMD(p, argonLJ())
			cluster := lattice.Cubic(3 * 3.82e-10)
			Expect(experiment.SeedSimpleCubic(s.System(), cluster, 27, units.ArgonMass, 20, experiment.NewRand(3))).To(Succeed())
			Expect(s.SetThermostat(thermostat.Null{})).To(Succeed())

			s.Initialize()
			e0 := s.TotalEnergy()
			maxDrift := 0.0
			s.AddObserver(sim.ObserverFunc(func(s *sim.Simulation) {
				maxDrift = math.Max(maxDrift, math.Abs(s.TotalEnergy()-e0)/math.Abs(e0))
			}))
			s.Run()
			Expect(s.StepCount()).To(Equal(400))
			Expect(maxDrift).To(BeNumerically("<", 1e-3))
		})
	})

	Describe("heat modes", func() {
		It("delegates to the 1D solver", func() {
			p := heat.DefaultParams1D()
			p.Dt = 0.85 * p.StabilityLimit()
			p.EndTime = 0
			p.MaxSteps = 200
			s, err := sim.NewHeat1D(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Mode()).To(Equal(sim.HeatDiffusion))
			Expect(s.IsValid()).To(BeTrue())
			s.Run()
			Expect(s.StepCount()).To(Equal(200))
			Expect(s.StepCount()).To(Equal(s.Heat1DModel().StepCount()))
			Expect(s.Time()).To(Equal(s.Heat1DModel().Time()))
			for _, v := range s.Heat1DModel().Temperature() {
				Expect(math.IsNaN(v) || math.IsInf(v, 0)).To(BeFalse())
			}
			Expect(s.SetPotential(argonLJ())).To(MatchError(sim.ErrWrongMode))
			Expect(s.System()).To(BeNil())
		})

		It("reports unstable parameters as invalid", func() {
			p := heat.DefaultParams1D()
			p.Dt = 2 * p.StabilityLimit()
			s, err := sim.NewHeat1D(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.IsValid()).To(BeFalse())
			Expect(s.Err()).To(MatchError(heat.ErrStabilityLimit))
			Expect(s.Step()).To(BeFalse())
		})

		It("exposes the 2D field", func() {
			p := heat.DefaultParams2D()
			p.NX, p.NY, p.MaxSteps = 16, 12, 10
			s, err := sim.NewHeat2D(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Mode()).To(Equal(sim.HeatDiffusion2D))
			steps := 0
			s.AddObserver(sim.ObserverFunc(func(*sim.Simulation) { steps++ }))
			s.Run()
			Expect(steps).To(Equal(10))
			m := s.Heat2DModel()
			Expect(m).NotTo(BeNil())
			Expect(m.NX()).To(Equal(16))
			Expect(m.Temperature()).To(HaveLen(16 * 12))
			Expect(s.Temperature()).To(BeZero())
		})
	})

	Describe("argon scenario", func() {
		It("keeps 1700 atoms finite for 300 steps at 350 K", func() {
			if testing.Short() {
				Skip("long scenario")
			}
			p := sim.DefaultParams()
			p.MaxSteps = 300
			s := periodicArgon(p, 1700, 8e-9, 350, 2024)
			Expect(s.SetThermostat(thermostat.NewVelocityRescale(350, 8e-13))).To(Succeed())
			Expect(s.System().Len()).To(Equal(1700))

			s.AddObserver(sim.ObserverFunc(func(s *sim.Simulation) {
				Expect(allFinite(s.System())).To(BeTrue(), "step %d", s.StepCount())
			}))
			s.Run()
			Expect(s.IsValid()).To(BeTrue(), s.ErrorMessage())
			Expect(s.StepCount()).To(Equal(300))
			Expect(s.Temperature()).To(BeNumerically("~", 350, 100))
		})
	})
})
