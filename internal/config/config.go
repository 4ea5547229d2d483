// Package config holds runtime configuration: defaults, validation, and the
// temperature-list parsing shared by the CLI layer. Defaults match the
// legacy Python runner for parity.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/astrodust/dustopac/internal/naming"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by the CLI layer before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Request parameters.
	Material       string
	GrainSize      float64 // microns, must be > 0
	Temperatures   []int   // parsed from TemperaturesRaw
	MantleMaterial string  // optional; requires MantleFraction
	MantleFraction float64 // mass fraction in (0,1]; requires MantleMaterial

	// Paths.
	NKDir     string // directory of .lnk refractive-index files
	OutputDir string

	// Behavior.
	TemperaturesRaw string // comma-separated Kelvin values
	NoTempDependent bool   // single file, no temperature qualifier
	ScatMat         bool   // use the scattering-matrix scheme (-s)
	MaterialsFile   string // optional YAML density database override

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode
	LogFile   string
	CheckOnly bool // run --check diagnostics and exit
}

// DefaultConfig returns a Config with defaults matching the legacy runner.
func DefaultConfig() Config {
	return Config{
		Material:        "E40R",
		GrainSize:       0.3,
		TemperaturesRaw: "10,100,200,300",
		NKDir:           "data/nk_files",
		OutputDir:       "radmc3d_model",
		ColorMode:       ColorAuto,
	}
}

// Scheme returns the naming convention selected by the ScatMat flag.
func (c *Config) Scheme() naming.Scheme {
	if c.ScatMat {
		return naming.SchemeScatMat
	}
	return naming.SchemePlain
}

// MantleSet reports whether a mantle coating was requested.
func (c *Config) MantleSet() bool {
	return c.MantleMaterial != ""
}

// ParseTemperatures fills Temperatures from the comma-separated raw string.
// Skipped in no-temp-dependent mode, where the list is unused.
func (c *Config) ParseTemperatures() error {
	if c.NoTempDependent {
		c.Temperatures = nil
		return nil
	}
	parts := strings.Split(c.TemperaturesRaw, ",")
	temps := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		t, err := strconv.Atoi(p)
		if err != nil || t <= 0 {
			return fmt.Errorf("invalid temperature %q (use positive Kelvin integers, e.g. 10,100,200)", p)
		}
		temps = append(temps, t)
	}
	if len(temps) == 0 {
		return errors.New("temperature list is empty")
	}
	c.Temperatures = temps
	return nil
}

// Validate checks request parameters: positive grain size, mantle fields
// both-or-neither, fraction in (0,1], and a parsable temperature list.
func (c *Config) Validate() error {
	if c.CheckOnly {
		return nil
	}

	if c.Material == "" {
		return errors.New("material must not be empty")
	}
	if c.GrainSize <= 0 {
		return fmt.Errorf("grain size must be positive (got %v)", c.GrainSize)
	}

	hasMantleMat := c.MantleMaterial != ""
	hasMantleFrac := c.MantleFraction != 0
	if hasMantleMat != hasMantleFrac {
		return errors.New("mantle material and mantle fraction must be given together")
	}
	if hasMantleFrac && (c.MantleFraction <= 0 || c.MantleFraction > 1) {
		return fmt.Errorf("mantle fraction must be in (0, 1] (got %v)", c.MantleFraction)
	}
	if c.ScatMat && hasMantleMat {
		return errors.New("mantle coatings are not supported in scattering-matrix mode")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.NKDir == "" || c.OutputDir == "" {
		return errors.New("nk-dir and output-dir must not be empty")
	}

	return c.ParseTemperatures()
}
