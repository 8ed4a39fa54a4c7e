package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/matsim/internal/automation"
	"github.com/san-kum/matsim/internal/optim"
	"github.com/san-kum/matsim/internal/storage"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	var (
		preset, param, scenario string
		lo, hi                  float64
		points, workers, seeds  int
		seedStart               uint64
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep a parameter, run a seed ensemble or a scenario file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			if scenario != "" {
				sc, err := automation.LoadScenario(scenario)
				if err != nil {
					return err
				}
				results, err := automation.RunScenario(ctx, sc, nil)
				for i, r := range results {
					fmt.Printf("step %d: %s  %d steps  t=%g s\n", i+1, r.Scene, r.Steps, r.Time)
				}
				return err
			}

			base, err := baseScene(preset)
			if err != nil {
				return err
			}

			var results []automation.SweepResult
			if seeds > 0 {
				results, err = automation.RunEnsemble(ctx, base, seeds, seedStart, workers, nil)
			} else {
				sw := &automation.ParameterSweep{
					Base:    base,
					Param:   param,
					Min:     lo,
					Max:     hi,
					Points:  points,
					Workers: workers,
				}
				results, err = automation.RunSweep(ctx, sw, nil)
			}
			if err != nil {
				return err
			}
			return printSweep(results, param, seeds > 0)
		},
	}
	cmd.Flags().StringVar(&preset, "preset", "argon-nve", "base preset")
	cmd.Flags().StringVar(&param, "param", "temperature", fmt.Sprintf("parameter to sweep %v", automation.ParamNames()))
	cmd.Flags().Float64Var(&lo, "min", 100, "first value")
	cmd.Flags().Float64Var(&hi, "max", 300, "last value")
	cmd.Flags().IntVar(&points, "points", 5, "number of values")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel runs, 0 for one per CPU")
	cmd.Flags().IntVar(&seeds, "seeds", 0, "run an ensemble of this many seeds instead of a sweep")
	cmd.Flags().Uint64Var(&seedStart, "seed-start", 1, "first ensemble seed")
	cmd.Flags().StringVar(&scenario, "scenario", "", "run the steps of a YAML scenario file")
	return cmd
}

func printSweep(results []automation.SweepResult, param string, ensemble bool) error {
	st := storage.New(dataDir)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if ensemble {
		fmt.Fprintln(w, "SEED\tSTEPS\tTEMPERATURE\tDRIFT\tRUN")
	} else {
		fmt.Fprintf(w, "%s\tSTEPS\tTEMPERATURE\tDRIFT\tRUN\n", param)
	}
	for _, r := range results {
		key := fmt.Sprintf("%g", r.Value)
		if ensemble {
			key = fmt.Sprintf("%d", r.Seed)
		}
		if r.Result == nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t%v\n", key, r.Err)
			continue
		}
		id := "-"
		if !noSave {
			saved, err := st.Save(nil, r.Result)
			if err != nil {
				return err
			}
			id = saved
		}
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.3g\t%s\n", key, r.Result.Steps,
			r.Result.Metrics["temperature"], r.Result.Metrics["energy_drift"], id)
	}
	return w.Flush()
}

// parseAxis reads "name=v1,v2,..." or "name=min:max:points".
func parseAxis(s string) (optim.Axis, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return optim.Axis{}, fmt.Errorf("axis %q: want name=values", s)
	}
	axis := optim.Axis{Param: strings.TrimSpace(name)}
	if parts := strings.Split(list, ":"); len(parts) == 3 {
		var lo, hi float64
		var n int
		if _, err := fmt.Sscanf(list, "%g:%g:%d", &lo, &hi, &n); err != nil {
			return optim.Axis{}, fmt.Errorf("axis %q: %w", s, err)
		}
		sw := automation.ParameterSweep{Min: lo, Max: hi, Points: n}
		axis.Values = sw.Values()
		return axis, nil
	}
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return optim.Axis{}, fmt.Errorf("axis %q: %w", s, err)
		}
		axis.Values = append(axis.Values, v)
	}
	return axis, nil
}

func newOptimizeCmd() *cobra.Command {
	var (
		preset, metric string
		axes           []string
	)
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search scene parameters for the lowest metric",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := baseScene(preset)
			if err != nil {
				return err
			}
			g := optim.NewGridSearch(base, metric)
			for _, a := range axes {
				axis, err := parseAxis(a)
				if err != nil {
					return err
				}
				g.Axes = append(g.Axes, axis)
			}
			if len(g.Axes) == 0 {
				return fmt.Errorf("at least one --axis is required")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			best, err := g.Search(ctx, nil)
			if err != nil {
				return err
			}
			fmt.Println(titleStyle.Render(fmt.Sprintf("best %s = %g", metric, best.Value)))
			fmt.Printf("%d runs, %d failed\n", best.Runs, best.Failed)
			names := make([]string, 0, len(best.Params))
			for k := range best.Params {
				names = append(names, k)
			}
			sort.Strings(names)
			for _, k := range names {
				fmt.Printf("  %s = %g\n", k, best.Params[k])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&preset, "preset", "argon-nve", "base preset")
	cmd.Flags().StringVar(&metric, "metric", "energy_drift", "metric to minimise")
	cmd.Flags().StringArrayVar(&axes, "axis", nil, "searched parameter as name=v1,v2 or name=min:max:points")
	return cmd
}
