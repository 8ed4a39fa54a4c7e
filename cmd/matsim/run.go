package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/matsim/internal/config"
	"github.com/san-kum/matsim/internal/experiment"
	"github.com/san-kum/matsim/internal/export"
	"github.com/san-kum/matsim/internal/heat"
	"github.com/san-kum/matsim/internal/sim"
	"github.com/san-kum/matsim/internal/storage"
	"github.com/san-kum/matsim/internal/units"
	"github.com/spf13/cobra"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

// runScene runs scene to completion, stores it unless --no-save and prints
// a summary. Ctrl-C stops the run early; the partial run is still stored.
func runScene(scene config.Scene) (*experiment.Result, error) {
	exp, err := experiment.New(scene, nil)
	if err != nil {
		return nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(titleStyle.Render(fmt.Sprintf("running %s (%s)", scene.Name, scene.Mode)))
	res, runErr := exp.Run(ctx)
	if res == nil {
		return nil, runErr
	}

	if !noSave {
		st := storage.New(dataDir)
		id, err := st.Save(&scene, res)
		if err != nil {
			return res, fmt.Errorf("save run: %w", err)
		}
		fmt.Printf("run id: %s\n", id)
	}
	printResult(res)
	return res, runErr
}

func printResult(res *experiment.Result) {
	fmt.Printf("completed in %v\n", res.Elapsed)
	fmt.Printf("steps: %d\n", res.Steps)
	fmt.Printf("time:  %g s\n", res.Time)
	if res.Err != "" {
		fmt.Printf("error: %s\n", res.Err)
	}

	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, res.Metrics[name])
	}
	w.Flush()
}

func baseScene(preset string) (config.Scene, error) {
	if preset == "" {
		return config.DefaultScene(), nil
	}
	s, ok := config.GetPreset(preset)
	if !ok {
		return config.Scene{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	return s, nil
}

func newRunCmd() *cobra.Command {
	var (
		preset, configFile string
		thermo, integ, pot string
		xyzPath            string
		atoms, xyzEvery    int
		seed               uint64
		boxNm, temperature float64
		tau, nu            float64
		picoseconds        float64
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a molecular dynamics simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := baseScene(preset)
			if err != nil {
				return err
			}
			if scene.Mode != sim.MD {
				return fmt.Errorf("preset %s is a %s scene, not md", preset, scene.Mode)
			}
			if configFile != "" {
				p, err := config.Load(configFile)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				scene.MD.Params = p
			}

			// flags override the preset and the config file
			f := cmd.Flags()
			if f.Changed("atoms") {
				scene.MD.Atoms = atoms
			}
			if f.Changed("box") {
				scene.MD.Box = boxNm * units.Nanometre
				scene.MD.Lattice = nil
			}
			if f.Changed("temperature") {
				scene.MD.Params.Temperature = temperature
			}
			if f.Changed("time") {
				scene.MD.Params.EndTime = picoseconds * units.Picosecond
			}
			if f.Changed("seed") {
				scene.Seed = seed
			}
			if f.Changed("thermostat") {
				scene.MD.Thermostat.Kind = thermo
			}
			// a newly picked thermostat gets the flag defaults for its coupling
			th := &scene.MD.Thermostat
			if f.Changed("tau") || (th.Kind == "rescale" && th.Tau <= 0) {
				th.Tau = tau * units.Picosecond
			}
			if f.Changed("nu") || (th.Kind == "andersen" && th.Nu <= 0) {
				th.Nu = nu
			}
			if f.Changed("integrator") {
				scene.MD.Integrator = integ
			}
			if f.Changed("potential") {
				scene.MD.Potential.Kind = pot
			}

			if xyzPath == "" {
				_, err = runScene(scene)
				return err
			}
			return runWithTrajectory(scene, xyzPath, xyzEvery)
		},
	}
	cmd.Flags().StringVar(&preset, "preset", "argon-nve", "starting preset")
	cmd.Flags().StringVar(&configFile, "config", "", "key=value parameter file")
	cmd.Flags().IntVar(&atoms, "atoms", 256, "number of atoms")
	cmd.Flags().Float64Var(&boxNm, "box", 3.6, "cubic box edge (nm)")
	cmd.Flags().Float64Var(&temperature, "temperature", 300, "initial and target temperature (K)")
	cmd.Flags().Float64Var(&picoseconds, "time", 10, "simulated time (ps)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed, 0 for entropy")
	cmd.Flags().StringVar(&thermo, "thermostat", "none", "none, rescale or andersen")
	cmd.Flags().Float64Var(&tau, "tau", config.DefaultTau/units.Picosecond, "rescale coupling time (ps)")
	cmd.Flags().Float64Var(&nu, "nu", config.DefaultNu, "andersen collision frequency (1/s)")
	cmd.Flags().StringVar(&integ, "integrator", "verlet", "verlet or euler")
	cmd.Flags().StringVar(&pot, "potential", "lj", "lj, harmonic or none")
	cmd.Flags().StringVar(&xyzPath, "xyz", "", "write an XYZ trajectory to this file")
	cmd.Flags().IntVar(&xyzEvery, "xyz-every", 100, "steps between trajectory frames")
	return cmd
}

func runWithTrajectory(scene config.Scene, path string, every int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	exp, err := experiment.New(scene, nil)
	if err != nil {
		return err
	}
	rec := &export.XYZRecorder{W: f, Element: "Ar", Every: every}
	exp.Simulation().AddObserver(rec)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, runErr := exp.Run(ctx)
	if res == nil {
		return runErr
	}
	if rec.Err != nil {
		return fmt.Errorf("write trajectory: %w", rec.Err)
	}
	if !noSave {
		id, err := storage.New(dataDir).Save(&scene, res)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", id)
	}
	printResult(res)
	fmt.Printf("trajectory: %s (%d frames)\n", path, rec.Frames)
	return runErr
}

func newHeatCmd() *cobra.Command {
	p := heat.DefaultParams1D()
	var png string
	cmd := &cobra.Command{
		Use:   "heat",
		Short: "run 1D heat diffusion along a rod",
		RunE: func(cmd *cobra.Command, args []string) error {
			scene := config.DefaultScene()
			scene.Name = "heat-rod"
			scene.Mode = sim.HeatDiffusion
			scene.Heat1D = p
			res, err := runScene(scene)
			if err != nil || png == "" {
				return err
			}
			pl, err := export.ProfilePlot(scene.Name, res.Field, p.Dx)
			if err != nil {
				return err
			}
			return export.Save(pl, png)
		},
	}
	cmd.Flags().Float64Var(&p.Alpha, "alpha", p.Alpha, "thermal diffusivity (m²/s)")
	cmd.Flags().Float64Var(&p.Dx, "dx", p.Dx, "cell size (m)")
	cmd.Flags().Float64Var(&p.Dt, "dt", p.Dt, "time step (s)")
	cmd.Flags().Float64Var(&p.EndTime, "end", p.EndTime, "end time (s), 0 to run to max steps")
	cmd.Flags().IntVar(&p.MaxSteps, "max-steps", p.MaxSteps, "step limit")
	cmd.Flags().IntVar(&p.NCells, "cells", p.NCells, "number of cells")
	cmd.Flags().StringVar(&png, "png", "", "save the final profile to this image")
	return cmd
}

func newHeat2DCmd() *cobra.Command {
	p := heat.DefaultParams2D()
	p.MaxSteps = 2000
	var initial, png string
	cmd := &cobra.Command{
		Use:   "heat2d",
		Short: "run 2D heat diffusion on a plate",
		RunE: func(cmd *cobra.Command, args []string) error {
			ic, err := heat.ParseInitialCondition(initial)
			if err != nil {
				return err
			}
			p.Initial = ic
			scene := config.DefaultScene()
			scene.Name = "heat-plate"
			scene.Mode = sim.HeatDiffusion2D
			scene.Heat2D = p
			res, err := runScene(scene)
			if err != nil || png == "" {
				return err
			}
			pl, err := export.HeatMap(scene.Name, res.Field, res.NX, res.NY, p.Dx)
			if err != nil {
				return err
			}
			return export.Save(pl, png)
		},
	}
	cmd.Flags().Float64Var(&p.Alpha, "alpha", p.Alpha, "thermal diffusivity (m²/s)")
	cmd.Flags().Float64Var(&p.Dx, "dx", p.Dx, "cell size (m)")
	cmd.Flags().Float64Var(&p.Dt, "dt", p.Dt, "time step (s)")
	cmd.Flags().Float64Var(&p.EndTime, "end", p.EndTime, "end time (s), 0 to run to max steps")
	cmd.Flags().IntVar(&p.MaxSteps, "max-steps", p.MaxSteps, "step limit")
	cmd.Flags().IntVar(&p.NX, "nx", p.NX, "cells along x")
	cmd.Flags().IntVar(&p.NY, "ny", p.NY, "cells along y")
	cmd.Flags().Float64Var(&p.TBoundary, "t-boundary", p.TBoundary, "edge temperature (K)")
	cmd.Flags().Float64Var(&p.THot, "t-hot", p.THot, "hot temperature (K)")
	cmd.Flags().StringVar(&initial, "initial", p.Initial.String(), "hot_center or uniform_hot")
	cmd.Flags().StringVar(&png, "png", "", "save the final field to this image")
	return cmd
}

func newSceneCmd() *cobra.Command {
	var writeTo, writeConfig string
	cmd := &cobra.Command{
		Use:   "scene [file.yaml]",
		Short: "run a YAML scene",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if writeTo != "" {
				s := config.DefaultScene()
				return config.SaveScene(writeTo, &s)
			}
			if writeConfig != "" {
				f, err := os.Create(writeConfig)
				if err != nil {
					return err
				}
				defer f.Close()
				return config.Write(f, sim.DefaultParams())
			}
			if len(args) == 0 {
				return fmt.Errorf("scene file required")
			}
			scene, err := config.LoadScene(args[0])
			if err != nil {
				return err
			}
			_, err = runScene(*scene)
			return err
		},
	}
	cmd.Flags().StringVar(&writeTo, "write-default", "", "write the default scene to this file and exit")
	cmd.Flags().StringVar(&writeConfig, "write-config", "", "write the default key=value config to this file and exit")
	return cmd
}
