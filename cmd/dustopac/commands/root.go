// Package commands wires the CLI: flag parsing, config-file and environment
// overrides, startup validation, and the handoff to the pipeline.
package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/astrodust/dustopac/internal/config"
	"github.com/astrodust/dustopac/internal/display"
	"github.com/astrodust/dustopac/internal/logging"
	"github.com/astrodust/dustopac/internal/material"
	"github.com/astrodust/dustopac/internal/optool"
	"github.com/astrodust/dustopac/internal/pipeline"
)

// version is injected at build time via -ldflags.
var version = "1.0.0-dev"

var (
	cfgFile string
	cfg     = config.DefaultConfig()

	forceColor bool
	noColor    bool
)

// errBatchFailed signals a partial batch; the summary has already been
// logged, so Execute only needs to turn it into exit code 1.
var errBatchFailed = errors.New("one or more opacity files failed to generate")

var rootCmd = &cobra.Command{
	Use:   "dustopac",
	Short: "Generate RADMC-3D dust opacity files with optool",
	Long: `dustopac drives the external optool binary to generate dust opacity
files (dustkappa_*.inp / dustkapscatmat_*.inp) for RADMC-3D models.

It resolves refractive-index (.lnk) input files by naming convention, runs
optool once per requested temperature, and renames the results into
deterministic, parameter-encoding filenames.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: `  # Default parameters (material E40R, grain size 0.3 um, 10/100/200/300 K)
  dustopac

  # Custom material and grain size
  dustopac --material E20R --grain-size 0.5

  # Single file without temperature dependency
  dustopac --material E40R --no-temp-dependent

  # 20% x035 mantle on an E40R core
  dustopac --material E40R --mantle-material x035 --mantle-fraction 0.2

  # Scattering-matrix files instead of plain opacities
  dustopac --scatmat --temperatures 50,150,250`,
	RunE: run,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errBatchFailed) {
			fmt.Fprintf(os.Stderr, "dustopac: %v\n", err)
		}
		return 1
	}
	return 0
}

func init() {
	cobra.OnInitialize(initConfig)

	f := rootCmd.Flags()

	// Request parameters.
	f.StringVar(&cfg.Material, "material", cfg.Material,
		"Core dust material: a local identifier (see density database) or an optool built-in")
	f.Float64Var(&cfg.GrainSize, "grain-size", cfg.GrainSize, "Grain size in microns")
	f.StringVar(&cfg.TemperaturesRaw, "temperatures", cfg.TemperaturesRaw,
		"Comma-separated temperatures in Kelvin")
	f.BoolVar(&cfg.NoTempDependent, "no-temp-dependent", false,
		"Generate a single file without temperature dependency")
	f.StringVar(&cfg.MantleMaterial, "mantle-material", "",
		"Mantle material (requires --mantle-fraction)")
	f.Float64Var(&cfg.MantleFraction, "mantle-fraction", 0,
		"Mantle mass fraction relative to core mass, in (0,1]")
	f.BoolVar(&cfg.ScatMat, "scatmat", false,
		"Generate scattering-matrix files (dustkapscatmat_*.inp, optool -s)")

	// Paths.
	f.StringVar(&cfg.NKDir, "nk-dir", cfg.NKDir, "Directory containing .lnk refractive-index files")
	f.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "Directory for the final opacity files")
	f.StringVar(&cfg.MaterialsFile, "materials-file", "",
		"YAML file extending/overriding the material density database")

	// Display and logging.
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output (streams optool output live)")
	f.BoolVar(&forceColor, "color", false, "Force colored logs")
	f.BoolVar(&noColor, "no-color", false, "Disable colored logs")
	f.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	f.BoolVar(&cfg.CheckOnly, "check", false, "Probe for optool and exit")

	f.StringVar(&cfgFile, "config", "", "Config file (default: $HOME/.dustopac.yaml)")
}

// initConfig sets up viper: explicit --config wins, otherwise
// ~/.dustopac.yaml, plus DUSTOPAC_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.SetConfigFile(filepath.Join(home, ".dustopac.yaml"))
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("dustopac")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// applyViperOverrides copies config-file/env values into cfg for flags the
// user did not set explicitly. Flags always win.
func applyViperOverrides(cmd *cobra.Command) {
	set := func(flag string, apply func()) {
		if !cmd.Flags().Changed(flag) && viper.IsSet(flag) {
			apply()
		}
	}
	set("material", func() { cfg.Material = viper.GetString("material") })
	set("grain-size", func() { cfg.GrainSize = viper.GetFloat64("grain-size") })
	set("temperatures", func() { cfg.TemperaturesRaw = viper.GetString("temperatures") })
	set("nk-dir", func() { cfg.NKDir = viper.GetString("nk-dir") })
	set("output-dir", func() { cfg.OutputDir = viper.GetString("output-dir") })
	set("materials-file", func() { cfg.MaterialsFile = viper.GetString("materials-file") })
	set("log", func() { cfg.LogFile = viper.GetString("log") })
}

func run(cmd *cobra.Command, _ []string) error {
	applyViperOverrides(cmd)

	switch {
	case noColor:
		cfg.ColorMode = config.ColorNever
	case forceColor:
		cfg.ColorMode = config.ColorAlways
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	display.PrintBanner(cfg.ColorMode != config.ColorNever)

	if cfg.CheckOnly {
		if !optool.RunCheck(log) {
			return errBatchFailed
		}
		return nil
	}

	// Fail fast before touching the filesystem: optool must be present.
	if err := optool.Check(); err != nil {
		log.Error("%v", err)
		log.Info("Install optool and ensure it is on your PATH: https://github.com/cdominik/optool")
		return errBatchFailed
	}

	// The .lnk directory must exist up front; individual requests would
	// all fail against a missing directory anyway.
	if _, err := os.Stat(cfg.NKDir); err != nil {
		return fmt.Errorf("nk directory %q not found", cfg.NKDir)
	}

	db := material.Builtin()
	if cfg.MaterialsFile != "" {
		db, err = material.Load(cfg.MaterialsFile)
		if err != nil {
			return err
		}
	}

	// Cancel on SIGINT/SIGTERM so the batch stops between invocations.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats := pipeline.Run(ctx, &cfg, db, log)
	if !stats.AllSucceeded() {
		return errBatchFailed
	}
	return nil
}
