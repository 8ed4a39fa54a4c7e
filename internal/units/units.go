// Package units holds the physical constants and reference values shared by
// the simulation packages. Everything is SI.
package units

const (
	// Boltzmann is the Boltzmann constant in J/K (exact since the 2019 SI redefinition).
	Boltzmann = 1.380649e-23

	Femtosecond = 1e-15
	Picosecond  = 1e-12
	Nanometre   = 1e-9
	Angstrom    = 1e-10

	MiB = 1 << 20
	GiB = 1 << 30
)

// Argon Lennard-Jones reference parameters.
const (
	ArgonMass    = 6.63e-26  // kg
	ArgonEpsilon = 1.654e-21 // J
	ArgonSigma   = 3.405e-10 // m
)
