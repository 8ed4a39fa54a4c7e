// Package sim drives a single simulation one time step at a time.
//
// A Simulation runs in exactly one Mode, fixed at construction:
//
//   - MD: a particle system under a pairwise potential, advanced with
//     velocity Verlet, optionally wrapped into a periodic lattice and
//     coupled to a thermostat.
//   - HeatDiffusion / HeatDiffusion2D: an explicit heat solver from package
//     heat, driven through the Model interface.
//
// Parameters are validated when the Simulation is built. An invalid
// Simulation keeps its error message and never steps; there is no way to
// repair an instance, build a new one instead.
//
// # Example
//
//	pot := potential.NewLennardJones(units.ArgonEpsilon, units.ArgonSigma, 1.1e-9)
//	s := sim.NewMD(sim.DefaultParams(), pot)
//	if err := s.SetLattice(lattice.Cubic(8e-9)); err != nil {
//		return err
//	}
//	// populate s.System() ...
//	s.Run()
//	if !s.IsValid() {
//		return s.Err()
//	}
//
// # Thread Safety
//
// A Simulation is not safe for concurrent use. Drivers call Step from one
// goroutine; to stop early they simply stop calling it.
package sim
