package optool

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
)

// ExecResult holds the outcome of a single optool invocation. Stdout and
// Stderr are always captured so failures can be surfaced to the user.
type ExecResult struct {
	Stdout string
	Stderr string
	Err    error
}

// Execute runs a built optool command and blocks until it exits. When verbose
// is set, both streams are tee'd to the terminal in real time; otherwise they
// are captured silently. There is no retry: a failed invocation is reported
// as-is.
func Execute(ctx context.Context, args []string, verbose bool) ExecResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stdoutBuf, stderrBuf bytes.Buffer
	if verbose {
		cmd.Stdout = io.MultiWriter(&stdoutBuf, os.Stdout)
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}
