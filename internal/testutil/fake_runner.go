package testutil

import (
	"context"
	"sync"

	"github.com/nmr-tools/xcpd-launch/internal/container"
)

// FakeRunner records container run specs and plays back a configured
// result, so launcher tests never spawn a real runtime.
type FakeRunner struct {
	mu    sync.Mutex
	specs []container.RunSpec

	// Code and Err are returned from every Run call.
	Code int
	Err  error

	// OnRun, when set, is invoked with each spec before returning;
	// useful for asserting filesystem state mid-run.
	OnRun func(spec container.RunSpec)
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

func (f *FakeRunner) Run(ctx context.Context, spec container.RunSpec) (int, error) {
	f.mu.Lock()
	f.specs = append(f.specs, spec)
	onRun := f.OnRun
	f.mu.Unlock()

	if onRun != nil {
		onRun(spec)
	}
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	return f.Code, f.Err
}

// Specs returns a copy of the recorded run specs in call order.
func (f *FakeRunner) Specs() []container.RunSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]container.RunSpec, len(f.specs))
	copy(out, f.specs)
	return out
}

// Calls returns how many times Run was invoked.
func (f *FakeRunner) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.specs)
}
