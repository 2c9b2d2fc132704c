package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CommandRunner runs an external program and captures its output
type CommandRunner interface {
	Run(ctx context.Context, program string, args ...string) (*CommandResult, error)
}

// CommandResult contains the outcome of a program run
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// ProcessRunner runs programs with a timeout
type ProcessRunner struct {
	defaultTimeout time.Duration
}

// NewProcessRunner creates a runner; a zero timeout means 30 seconds
func NewProcessRunner(timeout time.Duration) *ProcessRunner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ProcessRunner{defaultTimeout: timeout}
}

// Run executes program with args. A start failure, a non-zero exit status
// and a timeout are all reported as errors; the result is returned whenever
// the program ran.
func (r *ProcessRunner) Run(ctx context.Context, program string, args ...string) (*CommandResult, error) {
	startTime := time.Now()

	execCtx, cancel := context.WithTimeout(ctx, r.defaultTimeout)
	defer cancel()

	//nolint:gosec // G204: program is the browser/driver path or a fixed system utility
	cmd := exec.CommandContext(execCtx, program, args...)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(startTime),
	}

	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(execCtx.Err(), context.DeadlineExceeded):
		result.ExitCode = -1
		return result, fmt.Errorf("can't run '%s': timeout after %v", program, r.defaultTimeout)
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		return result, fmt.Errorf("'%s' exited with status %d: %s", program, result.ExitCode, trimOutput(result.Stderr))
	default:
		result.ExitCode = -1
		return result, fmt.Errorf("can't run '%s': %w", program, err)
	}
}

// trimOutput keeps error messages readable when a program floods stderr
func trimOutput(s string) string {
	const maxLen = 512
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
