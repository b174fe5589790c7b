// Package execx runs external commands behind an interface so engines can be
// exercised without the real binaries.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// waitDelay bounds how long Run waits for output pipes after the process is
// killed on context cancellation.
const waitDelay = 2 * time.Second

// Result is what a finished process reported.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Runner starts commands and reports their exit status.
//
// Run returns a nil error for any process that started and exited, whatever
// its exit code. Errors are reserved for processes that could not be started
// or were cut short by ctx.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
	LookPath(file string) (string, error)
}

// OSRunner runs commands with os/exec.
type OSRunner struct{}

func (OSRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("%s: %w", name, ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("%s %v failed to start: %w", name, args, err)
	}
	return res, nil
}

func (OSRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
