// Command snesim runs a single- or multi-resolution SNESIM simulation from
// a GSLIB training image onto a blank or hard-data-conditioned grid,
// writing the realization back out in GSLIB format.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kelindar/snesim"
	"github.com/kelindar/snesim/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var flagTheta float64
	var flagSeed uint32
	var flagOut string
	var hasTheta, hasSeed, hasOut bool

	root := &cobra.Command{
		Use:   "snesim",
		Short: "Multiple-point geostatistical simulation of a categorical property",
	}

	run := &cobra.Command{
		Use:   "run [ti-file] [grid-file]",
		Short: "Simulate a realization from a training image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if hasTheta {
				cfg.Theta = flagTheta
			}
			if hasSeed {
				cfg.Seed = flagSeed
			}
			if hasOut {
				cfg.OutputPath = flagOut
			}
			return runSimulation(args[0], args[1], cfg)
		},
	}

	flags := run.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path to TOML run configuration")
	flags.Float64Var(&flagTheta, "theta", 0, "forward/reverse switchover percentage (overrides config)")
	flags.Uint32Var(&flagSeed, "seed", 0, "PRNG seed (overrides config)")
	flags.StringVarP(&flagOut, "output", "o", "", "output GSLIB file path (overrides config)")
	run.PreRun = func(cmd *cobra.Command, args []string) {
		hasTheta = flags.Changed("theta")
		hasSeed = flags.Changed("seed")
		hasOut = flags.Changed("output")
	}

	root.AddCommand(run)
	return root
}

func runSimulation(tiPath, gridPath string, cfg config.Config) error {
	log := logrus.NewEntry(logrus.StandardLogger())

	grid, err := snesim.NewGridStructure(cfg.Nx, cfg.Ny, cfg.Nz, cfg.Sx, cfg.Sy, cfg.Sz, cfg.X0, cfg.Y0, cfg.Z0)
	if err != nil {
		return fmt.Errorf("grid: %w", err)
	}

	tiFile, err := os.Open(tiPath)
	if err != nil {
		return fmt.Errorf("opening TI file: %w", err)
	}
	defer tiFile.Close()
	ti, _, err := snesim.ReadGSLIB(tiFile, grid, cfg.TIProperty, cfg.Sentinel, cfg.DelimRune())
	if err != nil {
		return fmt.Errorf("reading TI: %w", err)
	}

	realFile, err := os.Open(gridPath)
	if err != nil {
		return fmt.Errorf("opening grid file: %w", err)
	}
	defer realFile.Close()
	realization, _, err := snesim.ReadGSLIB(realFile, grid, cfg.TIProperty, cfg.Sentinel, cfg.DelimRune())
	if err != nil {
		return fmt.Errorf("reading realization grid: %w", err)
	}

	levels := make([]snesim.PyramidLevel, len(cfg.Levels))
	for i, lv := range cfg.Levels {
		levels[i] = snesim.PyramidLevel{K: lv.K, Rx: lv.Rx, Ry: lv.Ry, Rz: lv.Rz}
	}

	result, err := snesim.RunPyramid(realization, ti, snesim.PyramidConfig{
		Levels: levels,
		Theta:  cfg.Theta,
		Seed:   cfg.Seed,
		CDMin:  cfg.CDMin,
		Log:    log,
	})
	if err != nil {
		log.WithError(err).Error("simulation failed")
		return err
	}

	out, err := os.Create(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()
	if err := snesim.WriteGSLIB(out, result, "snesim realization", cfg.TIProperty, cfg.Sentinel); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	log.WithField("output", cfg.OutputPath).Info("wrote realization")
	return nil
}
