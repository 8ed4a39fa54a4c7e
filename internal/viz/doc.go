// Package viz drives a simulation live in the terminal.
//
// [Model] is a Bubble Tea model that steps a [sim.Simulation] for a fixed
// wall-clock budget per frame, so a slow MD system and a fast heat grid both
// stay responsive. MD runs are drawn as a rotatable Braille projection of the
// periodic cell, 2D heat runs as a coloured temperature map and 1D heat runs
// as a profile chart. [Menu] picks a preset and hands over to a Model.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	.     - Single step while paused
//	R     - Rebuild the simulation from its scene
//	T     - Cycle color themes
//	X/Y   - Rotate the MD view
//	+/-   - Zoom the MD view
//	?     - Show help overlay
//	Q     - Quit
package viz
