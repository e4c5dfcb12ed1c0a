package container

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Runner executes a container run specification and reports the
// downstream exit code.
type Runner interface {
	// Run blocks until the container process exits. A nonzero
	// downstream exit code is returned as (code, nil); an error is
	// returned only when the process could not be run at all or was
	// killed before producing an exit status.
	Run(ctx context.Context, spec RunSpec) (int, error)
}

// CLIRunner implements Runner by spawning the runtime binary with
// inherited stdio, so the pipeline's output lands directly in the
// batch job log.
type CLIRunner struct {
	// Binary is the resolved runtime executable.
	Binary string
}

// NewCLIRunner creates a Runner for the given runtime binary.
// Use ResolveRuntime() to find one first.
func NewCLIRunner(binary string) *CLIRunner {
	return &CLIRunner{Binary: binary}
}

// Run executes the spec synchronously. Context cancellation kills the
// child; the child is given a short grace period to exit after the
// kill signal before Wait is abandoned.
func (r *CLIRunner) Run(ctx context.Context, spec RunSpec) (int, error) {
	cmd := exec.CommandContext(ctx, r.Binary, spec.Argv()...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), spec.Env...)
	cmd.WaitDelay = 10 * time.Second

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Interrupted children surface as a signal, not an exit
		// code; report that as an error so the caller can map it
		// to the interrupt path.
		if ctx.Err() != nil {
			return -1, fmt.Errorf("container run canceled: %w", context.Cause(ctx))
		}
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("run %s: %w", r.Binary, err)
}
