package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/astrodust/dustopac/internal/config"
	"github.com/astrodust/dustopac/internal/display"
	"github.com/astrodust/dustopac/internal/material"
	"github.com/astrodust/dustopac/internal/naming"
	"github.com/astrodust/dustopac/internal/nk"
	"github.com/astrodust/dustopac/internal/optool"
)

// Logger is the minimal logging interface the pipeline needs, mirroring
// logging.Logger. Defined here so tests can supply a mock.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Executor runs a built optool command. The production executor is
// optool.Execute; tests substitute a fake.
type Executor func(ctx context.Context, args []string, verbose bool) optool.ExecResult

// Run is the top-level batch entry point: it fans the request out over the
// configured temperature series (or runs a single temperature-independent
// request) and returns aggregate stats. One failed temperature does not stop
// the remaining ones.
func Run(ctx context.Context, cfg *config.Config, db *material.Database, log Logger) RunStats {
	return runWith(ctx, cfg, db, log, optool.Execute)
}

func runWith(ctx context.Context, cfg *config.Config, db *material.Database, log Logger, exec Executor) RunStats {
	var stats RunStats

	logBatchHeader(cfg, db, log)

	temps := cfg.Temperatures
	if cfg.NoTempDependent {
		temps = []int{0}
	}
	stats.Total = len(temps)

	for _, temp := range temps {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			stats.Failed += stats.Total - stats.Succeeded - stats.Failed
			break
		}
		if err := processRequest(ctx, cfg, log, exec, temp); err != nil {
			if temp > 0 {
				log.Error("Failed at %d K: %v", temp, err)
			} else {
				log.Error("Failed: %v", err)
			}
			stats.Failed++
			continue
		}
		stats.Succeeded++
	}

	logSummary(cfg, log, &stats)
	return stats
}

// processRequest handles one optool invocation: resolve inputs, prepare the
// working directory, run the tool, verify and rename its output. temp == 0
// means a temperature-independent request.
func processRequest(ctx context.Context, cfg *config.Config, log Logger, exec Executor, temp int) error {
	scheme := cfg.Scheme()
	params := naming.Params{
		Material:       cfg.Material,
		GrainSize:      cfg.GrainSize,
		Temp:           temp,
		MantleMaterial: cfg.MantleMaterial,
		MantleFraction: cfg.MantleFraction,
	}

	// --- Resolve the core input ---
	core, err := nk.Resolve(cfg.NKDir, cfg.Material, temp)
	if err != nil {
		return err
	}
	switch {
	case core.Builtin && scheme == naming.SchemeScatMat:
		// The scattering-matrix workflow has no built-in fallback.
		return fmt.Errorf("no .lnk file found for material %s in %s", cfg.Material, cfg.NKDir)
	case core.Builtin:
		log.Info("Using built-in optool material: %s", cfg.Material)
	case core.Approximate:
		log.Warn("Using %s which may not match %d K exactly", filepath.Base(core.Path), temp)
	}

	// --- Resolve the mantle input (plain scheme only) ---
	mantleInput := ""
	if scheme == naming.SchemePlain && cfg.MantleSet() {
		mantle, err := nk.Resolve(cfg.NKDir, cfg.MantleMaterial, temp)
		if err != nil {
			return err
		}
		if mantle.Builtin {
			log.Info("Using built-in optool material for mantle: %s", cfg.MantleMaterial)
		} else if mantle.Approximate {
			log.Warn("Using %s for mantle which may not match %d K exactly", filepath.Base(mantle.Path), temp)
		}
		mantleInput = mantle.Path
	}

	// --- Prepare directories ---
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}

	// The two schemes keep their historical working-directory layouts.
	var workDir, cleanupRoot string
	if scheme == naming.SchemeScatMat {
		cleanupRoot = filepath.Join(cfg.OutputDir, "temp_optool_output")
		workDir = filepath.Join(cleanupRoot, naming.ScatMatWorkDir(params))
	} else {
		cleanupRoot = filepath.Join(cfg.OutputDir, "temp_optool")
		workDir = cleanupRoot
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("cannot create working directory: %w", err)
	}
	// Scoped cleanup: the working directory goes away on every path,
	// including tool failure.
	defer os.RemoveAll(cleanupRoot)

	// --- Run optool ---
	args := optool.BuildArgs(optool.Invocation{
		Input:          core.Path,
		Scheme:         scheme,
		GrainSize:      cfg.GrainSize,
		OutputDir:      workDir,
		MantleInput:    mantleInput,
		MantleFraction: cfg.MantleFraction,
	})

	log.Info("Running optool for %s, grain size %s%s%s...",
		cfg.Material, display.FormatMicrons(cfg.GrainSize), tempLabel(temp), mantleLabel(cfg))
	log.Debug(cfg.Verbose, "Command: %s", strings.Join(args, " "))

	res := exec(ctx, args, cfg.Verbose)
	if res.Err != nil {
		logToolOutput(log, res)
		return fmt.Errorf("optool failed: %w", res.Err)
	}

	// --- Verify and rename the output ---
	src := filepath.Join(workDir, scheme.RawOutputFile())
	if _, err := os.Stat(src); err != nil {
		logToolOutput(log, res)
		return fmt.Errorf("optool exited cleanly but %s was not produced", scheme.RawOutputFile())
	}

	finalName := naming.OutputFileName(scheme, params)
	if err := copyFile(src, filepath.Join(cfg.OutputDir, finalName)); err != nil {
		return fmt.Errorf("copying result: %w", err)
	}

	log.Success("Generated: %s", finalName)
	return nil
}

func tempLabel(temp int) string {
	if temp <= 0 {
		return ""
	}
	return fmt.Sprintf(" at %d K", temp)
}

func mantleLabel(cfg *config.Config) string {
	if !cfg.MantleSet() {
		return ""
	}
	return fmt.Sprintf(" with %s mantle (%s)", cfg.MantleMaterial, display.FormatPercent(cfg.MantleFraction))
}

// logToolOutput surfaces the captured optool streams after a failure,
// trimmed to the last lines to keep the console readable.
func logToolOutput(log Logger, res optool.ExecResult) {
	dump := func(label, s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		log.Error("optool %s:", label)
		lines := strings.Split(s, "\n")
		if len(lines) > 20 {
			lines = lines[len(lines)-20:]
		}
		for _, l := range lines {
			log.Error("  %s", l)
		}
	}
	dump("output", res.Stdout)
	dump("errors", res.Stderr)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// --- Batch logging ---

func logBatchHeader(cfg *config.Config, db *material.Database, log Logger) {
	runID := uuid.NewString()[:8]
	log.Info("=== dustopac run %s ===", runID)
	log.Info("Material: %s, grain size %s", cfg.Material, display.FormatMicrons(cfg.GrainSize))

	if !db.IsLocal(cfg.Material) {
		log.Info("Material %q is not in the local density database; trying it as an optool built-in", cfg.Material)
		log.Info("Local materials: %s", strings.Join(db.LocalIDs(), ", "))
	} else if d, ok := db.Density(cfg.Material); ok {
		log.Debug(cfg.Verbose, "Local density: %.2f g/cm3", d)
	}

	if cfg.MantleSet() {
		log.Info("Mantle: %s (%s of core mass)", cfg.MantleMaterial, display.FormatPercent(cfg.MantleFraction))
		if !db.IsLocal(cfg.MantleMaterial) {
			log.Info("Mantle material %q is not in the local density database; trying it as an optool built-in", cfg.MantleMaterial)
		}
	}

	log.Info("Scheme: %s (%s_*.inp)", cfg.Scheme(), cfg.Scheme().Prefix())
	if cfg.NoTempDependent {
		log.Info("Temperatures: none (single file)")
	} else {
		log.Info("Temperatures: %s", display.FormatTemperatures(cfg.Temperatures))
	}
	log.Info("NK dir: %s", cfg.NKDir)
	log.Info("Out:    %s", cfg.OutputDir)
	fmt.Println()
}

func logSummary(cfg *config.Config, log Logger, stats *RunStats) {
	fmt.Println()
	log.Info("==============================")
	if stats.AllSucceeded() {
		log.Success("Generated %d/%d files", stats.Succeeded, stats.Total)
	} else {
		log.Warn("Generated %d/%d files (%d failed)", stats.Succeeded, stats.Total, stats.Failed)
	}
	if abs, err := filepath.Abs(cfg.OutputDir); err == nil {
		log.Info("Output directory: %s", abs)
	}
}
