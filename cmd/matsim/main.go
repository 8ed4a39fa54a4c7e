package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	noSave   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "matsim",
		Short: "molecular dynamics and heat diffusion lab",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchMenu()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".matsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noSave, "no-save", false, "do not store the run")

	rootCmd.AddCommand(
		newRunCmd(),
		newHeatCmd(),
		newHeat2DCmd(),
		newSceneCmd(),
		newSweepCmd(),
		newOptimizeCmd(),
		newWatchCmd(),
		newListCmd(),
		newPlotCmd(),
		newExportCmd(),
		newPresetsCmd(),
		newExampleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
