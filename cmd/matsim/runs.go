package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/matsim/internal/config"
	"github.com/san-kum/matsim/internal/export"
	"github.com/san-kum/matsim/internal/metrics"
	"github.com/san-kum/matsim/internal/sim"
	"github.com/san-kum/matsim/internal/storage"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCENE\tMODE\tSTEPS\tTIME\tSTATUS")
			for _, r := range runs {
				status := "ok"
				if r.Error != "" {
					status = r.Error
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%s\n", r.ID, r.Scene, r.Mode, r.Steps, r.Time, status)
			}
			return w.Flush()
		},
	}
}

// runPlot builds the gonum plot for a stored run: a heat map or profile for
// heat runs, energies for MD.
func runPlot(st *storage.Store, id string) (*plot.Plot, error) {
	meta, err := st.Load(id)
	if err != nil {
		return nil, err
	}
	mode, err := sim.ParseMode(meta.Mode)
	if err != nil {
		return nil, err
	}
	if mode == sim.MD {
		samples, err := st.LoadSamples(id)
		if err != nil {
			return nil, err
		}
		return export.EnergyPlot(meta.Scene, samples)
	}

	field, nx, ny, err := st.LoadField(id)
	if err != nil {
		return nil, err
	}
	// sweep members are stored without their scene
	scene, err := st.LoadScene(id)
	if errors.Is(err, fs.ErrNotExist) {
		def := config.DefaultScene()
		scene, err = &def, nil
	}
	if err != nil {
		return nil, err
	}
	if mode == sim.HeatDiffusion2D {
		return export.HeatMap(meta.Scene, field, nx, ny, scene.Heat2D.Dx)
	}
	return export.ProfilePlot(meta.Scene, field, scene.Heat1D.Dx)
}

func newPlotCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			id := args[0]
			meta, err := st.Load(id)
			if err != nil {
				return err
			}
			fmt.Println(titleStyle.Render(fmt.Sprintf("%s (%s)", meta.Scene, meta.Mode)))

			samples, err := st.LoadSamples(id)
			if err != nil {
				return err
			}
			if len(samples) > 1 {
				if meta.Mode == sim.MD.String() {
					total := seriesOf(samples, func(s metrics.Sample) float64 { return s.Total })
					fmt.Println(asciigraph.Plot(total, asciigraph.Height(10), asciigraph.Width(70), asciigraph.Caption("total energy (J)")))
					fmt.Println()
				}
				temp := seriesOf(samples, func(s metrics.Sample) float64 { return s.Temperature })
				fmt.Println(asciigraph.Plot(temp, asciigraph.Height(10), asciigraph.Width(70), asciigraph.Caption("temperature (K)")))
			}

			if meta.Mode != sim.MD.String() {
				field, nx, ny, err := st.LoadField(id)
				if err != nil {
					return err
				}
				row := field
				if ny > 1 {
					// middle row of the plate
					row = field[(ny/2)*nx : (ny/2+1)*nx]
				}
				fmt.Println()
				fmt.Println(asciigraph.Plot(row, asciigraph.Height(10), asciigraph.Width(70), asciigraph.Caption("final profile (K)")))
			}

			if out == "" {
				return nil
			}
			p, err := runPlot(st, id)
			if err != nil {
				return err
			}
			return export.Save(p, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "also save the plot to a .png, .svg or .pdf file")
	return cmd
}

func seriesOf(samples []metrics.Sample, pick func(metrics.Sample) float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = pick(s)
	}
	return out
}

func newExportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as json or an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			id := args[0]
			if out == "" {
				out = filepath.Join(".", id+"."+format)
			}
			switch format {
			case "json":
				meta, err := st.Load(id)
				if err != nil {
					return err
				}
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				enc := json.NewEncoder(f)
				enc.SetIndent("", "  ")
				if err := enc.Encode(meta); err != nil {
					return err
				}
			case "png", "svg", "pdf":
				p, err := runPlot(st, id)
				if err != nil {
					return err
				}
				if err := export.Save(p, out); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format: %s", format)
			}
			fmt.Printf("exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json, png, svg or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	return cmd
}
