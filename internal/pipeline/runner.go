// Package pipeline runs built divdata commands as subprocesses.
package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"time"
)

// Result describes a finished subprocess. ExitCode is -1 when the process
// could not be started or was killed by a signal.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// Runner executes an argument vector and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, argv []string) (Result, error)
}

// ExecRunner runs commands with os/exec. The child inherits the parent's
// stdout and stderr unless they are set.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Env    []string
}

// Run starts argv[0] with the remaining arguments and blocks until it exits.
// A non-zero exit is reported in Result, not as an error; only start failures
// and context cancellation return an error.
func (r ExecRunner) Run(ctx context.Context, argv []string) (Result, error) {
	if len(argv) == 0 {
		return Result{ExitCode: -1}, stderrors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = nil
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if r.Env != nil {
		cmd.Env = r.Env
	}

	start := time.Now()
	err := cmd.Run()
	res := Result{ExitCode: -1, Duration: time.Since(start)}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return res, nil
		}
		return res, err
	}
	return res, nil
}
