package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/san-kum/matsim/internal/config"
	"github.com/san-kum/matsim/internal/heat"
	"github.com/san-kum/matsim/internal/lattice"
	"github.com/san-kum/matsim/internal/sim"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list the built-in scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMODE\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				s, _ := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, s.Mode, s.Description)
			}
			return w.Flush()
		},
	}
}

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "example [lattice|heat]",
		Short:     "run a small built-in demonstration",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"lattice", "heat"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "lattice":
				return exampleLattice(os.Stdout)
			case "heat":
				return exampleHeat(os.Stdout)
			}
			return fmt.Errorf("unknown example: %s", args[0])
		},
	}
}

func exampleLattice(w io.Writer) error {
	l := lattice.Default()
	if err := l.Validate(); err != nil {
		return err
	}
	f := r3.Vec{X: 0.7, Y: -0.3, Z: 0.1}
	m := l.MinImageFrac(f)
	fmt.Fprintf(w, "unit cubic cell, volume %g\n", l.Volume())
	fmt.Fprintf(w, "min image of (%g, %g, %g) is (%g, %g, %g)\n", f.X, f.Y, f.Z, m.X, m.Y, m.Z)
	return nil
}

func exampleHeat(w io.Writer) error {
	s, err := sim.NewHeat1D(heat.Params1D{
		Alpha:    1e-5,
		Dx:       1e-3,
		Dt:       4e-7,
		EndTime:  1e-3,
		MaxSteps: 10000,
		NCells:   50,
	})
	if err != nil {
		return err
	}
	start := time.Now()
	s.Run()
	if !s.IsValid() {
		return s.Err()
	}
	fmt.Fprintf(w, "rod of %d cells reached t=%g s after %d steps in %v\n",
		s.Heat1DModel().NCells(), s.Time(), s.StepCount(), time.Since(start).Round(time.Microsecond))
	return nil
}
