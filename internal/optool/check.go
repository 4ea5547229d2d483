// Package optool builds and executes invocations of the external optool
// binary (github.com/cdominik/optool) and probes for its presence.
package optool

import (
	"errors"
	"os/exec"
	"strings"
)

// ErrOptoolNotFound is returned when the optool binary is missing or does not
// respond to a version probe. Fatal: no work is attempted without it.
var ErrOptoolNotFound = errors.New("optool not found on PATH")

// Binary is the external tool name looked up on PATH.
const Binary = "optool"

// Check probes for a usable optool binary before any work is done. The probe
// accepts either a zero exit status or any output mentioning "optool", since
// some optool builds exit non-zero on --version.
func Check() error {
	path, err := exec.LookPath(Binary)
	if err != nil {
		return ErrOptoolNotFound
	}

	out, err := exec.Command(path, "--version").CombinedOutput()
	if err == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(string(out)), "optool") {
		return nil
	}
	return ErrOptoolNotFound
}

// Logger is the minimal logging interface needed by RunCheck. Defined here so
// the package stays testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive --check flow: reports whether optool is on
// PATH and what the version probe says. Informational only.
func RunCheck(log Logger) bool {
	log.Info("=== System Check ===")

	path, err := exec.LookPath(Binary)
	if err != nil {
		log.Error("optool not found on PATH")
		log.Info("See: https://github.com/cdominik/optool")
		return false
	}
	log.Success("optool: %s", path)

	out, err := exec.Command(path, "--version").CombinedOutput()
	line := strings.TrimSpace(string(out))
	if idx := strings.IndexByte(line, '\n'); idx > 0 {
		line = line[:idx]
	}
	if err != nil && !strings.Contains(strings.ToLower(line), "optool") {
		log.Warn("optool found but version probe failed: %v", err)
		return false
	}
	if line == "" {
		line = "(no version output)"
	}
	log.Success("version: %s", line)
	return true
}
