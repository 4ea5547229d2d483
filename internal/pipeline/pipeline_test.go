package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrodust/dustopac/internal/config"
	"github.com/astrodust/dustopac/internal/material"
	"github.com/astrodust/dustopac/internal/optool"
)

// testLogger collects formatted log lines per level.
type testLogger struct {
	lines []string
}

func (l *testLogger) record(level, format string, args ...interface{}) {
	l.lines = append(l.lines, level+": "+fmt.Sprintf(format, args...))
}

func (l *testLogger) Info(f string, a ...interface{})    { l.record("INFO", f, a...) }
func (l *testLogger) Success(f string, a ...interface{}) { l.record("SUCCESS", f, a...) }
func (l *testLogger) Warn(f string, a ...interface{})    { l.record("WARN", f, a...) }
func (l *testLogger) Error(f string, a ...interface{})   { l.record("ERROR", f, a...) }
func (l *testLogger) Debug(v bool, f string, a ...interface{}) {
	if v {
		l.record("DEBUG", f, a...)
	}
}

// fakeTool mimics optool: it writes the raw output file into the -o
// directory unless told to fail or stay silent.
type fakeTool struct {
	calls      [][]string
	failOn     func(args []string) error
	skipOutput bool
}

func (f *fakeTool) run(_ context.Context, args []string, _ bool) optool.ExecResult {
	f.calls = append(f.calls, slices.Clone(args))

	if f.failOn != nil {
		if err := f.failOn(args); err != nil {
			return optool.ExecResult{Stderr: "ERROR: simulated optool failure", Err: err}
		}
	}
	if f.skipOutput {
		return optool.ExecResult{Stdout: "done (but wrote nothing)"}
	}

	raw := "dustkappa.inp"
	if slices.Contains(args, "-s") {
		raw = "dustkapscatmat.inp"
	}
	outDir := argAfter(args, "-o")
	if err := os.WriteFile(filepath.Join(outDir, raw), []byte("opacity data\n"), 0o644); err != nil {
		return optool.ExecResult{Err: err}
	}
	return optool.ExecResult{Stdout: "optool fake run"}
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// newTestConfig returns a validated config pointing at fresh nk/output dirs
// populated with the given .lnk files.
func newTestConfig(t *testing.T, lnkFiles ...string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.NKDir = t.TempDir()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	for _, n := range lnkFiles {
		require.NoError(t, os.WriteFile(filepath.Join(cfg.NKDir, n), []byte("nk data\n"), 0o644))
	}
	return &cfg
}

func TestRun_PlainSeries(t *testing.T) {
	cfg := newTestConfig(t, "E40R_10K.lnk", "E40R_100K.lnk", "E40R_200K.lnk")
	cfg.TemperaturesRaw = "10,100,200"
	require.NoError(t, cfg.Validate())

	tool := &fakeTool{}
	stats := runWith(context.Background(), cfg, material.Builtin(), &testLogger{}, tool.run)

	assert.Equal(t, RunStats{Total: 3, Succeeded: 3, Failed: 0}, stats)
	assert.True(t, stats.AllSucceeded())

	for _, temp := range []int{10, 100, 200} {
		name := fmt.Sprintf("dustkappa_E40R_%dK_a0.3.inp", temp)
		assert.FileExists(t, filepath.Join(cfg.OutputDir, name))
	}

	// Scoped cleanup: the working directory is gone after the run.
	assert.NoDirExists(t, filepath.Join(cfg.OutputDir, "temp_optool"))

	// Each call used the temperature-specific input file.
	require.Len(t, tool.calls, 3)
	assert.Equal(t, filepath.Join(cfg.NKDir, "E40R_10K.lnk"), tool.calls[0][1])
}

func TestRun_SingleFileNoTemperature(t *testing.T) {
	cfg := newTestConfig(t, "E40R.lnk")
	cfg.NoTempDependent = true
	require.NoError(t, cfg.Validate())

	stats := runWith(context.Background(), cfg, material.Builtin(), &testLogger{}, (&fakeTool{}).run)

	assert.True(t, stats.AllSucceeded())
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "dustkappa_E40R_a0.3.inp"))
}

func TestRun_BuiltinFallback(t *testing.T) {
	cfg := newTestConfig(t) // empty nk dir
	cfg.Material = "pyr"
	cfg.NoTempDependent = true
	require.NoError(t, cfg.Validate())

	tool := &fakeTool{}
	log := &testLogger{}
	stats := runWith(context.Background(), cfg, material.Builtin(), log, tool.run)

	// Unknown material falls through to optool's built-in set, no error.
	assert.True(t, stats.AllSucceeded())
	require.Len(t, tool.calls, 1)
	assert.Equal(t, "pyr", tool.calls[0][1])
	assert.Contains(t, log.lines, "INFO: Using built-in optool material: pyr")
}

func TestRun_MantleArgsAndName(t *testing.T) {
	cfg := newTestConfig(t, "E40R_100K.lnk", "x035.lnk")
	cfg.TemperaturesRaw = "100"
	cfg.MantleMaterial = "x035"
	cfg.MantleFraction = 0.2
	require.NoError(t, cfg.Validate())

	tool := &fakeTool{}
	stats := runWith(context.Background(), cfg, material.Builtin(), &testLogger{}, tool.run)

	assert.True(t, stats.AllSucceeded())
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "dustkappa_E40R_mx035_0.2_100K_a0.3.inp"))

	require.Len(t, tool.calls, 1)
	args := tool.calls[0]
	i := slices.Index(args, "-m")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, filepath.Join(cfg.NKDir, "x035.lnk"), args[i+1])
	assert.Equal(t, "0.2", args[i+2])
}

func TestRun_OneFailureDoesNotAbortBatch(t *testing.T) {
	cfg := newTestConfig(t, "E40R_10K.lnk", "E40R_100K.lnk", "E40R_200K.lnk")
	cfg.TemperaturesRaw = "10,100,200"
	require.NoError(t, cfg.Validate())

	tool := &fakeTool{
		failOn: func(args []string) error {
			if argAfter(args, "-a") == "0.3" && filepath.Base(args[1]) == "E40R_100K.lnk" {
				return errors.New("exit status 1")
			}
			return nil
		},
	}
	log := &testLogger{}
	stats := runWith(context.Background(), cfg, material.Builtin(), log, tool.run)

	// Exactly N-1 successes; the batch keeps going past the failure.
	assert.Equal(t, RunStats{Total: 3, Succeeded: 2, Failed: 1}, stats)
	assert.False(t, stats.AllSucceeded())
	require.Len(t, tool.calls, 3)

	// The captured tool output is surfaced.
	assert.Contains(t, log.lines, "ERROR:   ERROR: simulated optool failure")
}

func TestRun_ScatMat(t *testing.T) {
	cfg := newTestConfig(t, "E40R_100K.lnk")
	cfg.TemperaturesRaw = "100"
	cfg.ScatMat = true
	require.NoError(t, cfg.Validate())

	tool := &fakeTool{}
	stats := runWith(context.Background(), cfg, material.Builtin(), &testLogger{}, tool.run)

	assert.True(t, stats.AllSucceeded())
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "dustkapscatmat_E40R_100K_a0.3.inp"))
	assert.NoDirExists(t, filepath.Join(cfg.OutputDir, "temp_optool_output"))

	require.Len(t, tool.calls, 1)
	assert.Contains(t, tool.calls[0], "-s")
}

func TestRun_ScatMatNoBuiltinFallback(t *testing.T) {
	cfg := newTestConfig(t) // no .lnk files at all
	cfg.Material = "pyr"
	cfg.TemperaturesRaw = "100,200"
	cfg.ScatMat = true
	require.NoError(t, cfg.Validate())

	tool := &fakeTool{}
	stats := runWith(context.Background(), cfg, material.Builtin(), &testLogger{}, tool.run)

	// Unlike the plain scheme, scatmat treats an unresolved input as a
	// per-request failure.
	assert.Equal(t, RunStats{Total: 2, Succeeded: 0, Failed: 2}, stats)
	assert.Empty(t, tool.calls)
}

func TestRun_ExpectedOutputMissing(t *testing.T) {
	cfg := newTestConfig(t, "E40R.lnk")
	cfg.NoTempDependent = true
	require.NoError(t, cfg.Validate())

	tool := &fakeTool{skipOutput: true}
	stats := runWith(context.Background(), cfg, material.Builtin(), &testLogger{}, tool.run)

	// Tool exited cleanly but wrote nothing: counted as a failure.
	assert.Equal(t, RunStats{Total: 1, Succeeded: 0, Failed: 1}, stats)
	assert.NoDirExists(t, filepath.Join(cfg.OutputDir, "temp_optool"))
}

func TestRun_NKDirMissing(t *testing.T) {
	cfg := newTestConfig(t, "E40R.lnk")
	cfg.NKDir = filepath.Join(cfg.NKDir, "missing")
	cfg.TemperaturesRaw = "10,100"
	require.NoError(t, cfg.Validate())

	stats := runWith(context.Background(), cfg, material.Builtin(), &testLogger{}, (&fakeTool{}).run)

	assert.Equal(t, RunStats{Total: 2, Succeeded: 0, Failed: 2}, stats)
}

func TestRun_CleanupSurvivesToolFailure(t *testing.T) {
	cfg := newTestConfig(t, "E40R.lnk")
	cfg.NoTempDependent = true
	require.NoError(t, cfg.Validate())

	tool := &fakeTool{failOn: func([]string) error { return errors.New("exit status 2") }}
	runWith(context.Background(), cfg, material.Builtin(), &testLogger{}, tool.run)

	assert.NoDirExists(t, filepath.Join(cfg.OutputDir, "temp_optool"))
}

func TestRun_InterruptStopsBatch(t *testing.T) {
	cfg := newTestConfig(t, "E40R.lnk")
	cfg.TemperaturesRaw = "10,100,200"
	require.NoError(t, cfg.Validate())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tool := &fakeTool{}
	stats := runWith(ctx, cfg, material.Builtin(), &testLogger{}, tool.run)

	assert.False(t, stats.AllSucceeded())
	assert.Empty(t, tool.calls)
	assert.Equal(t, stats.Total, stats.Succeeded+stats.Failed)
}
