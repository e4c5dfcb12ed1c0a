package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/nmr-tools/xcpd-launch/internal/config"
	"github.com/nmr-tools/xcpd-launch/internal/container"
	"github.com/nmr-tools/xcpd-launch/internal/launcher"
	"github.com/nmr-tools/xcpd-launch/internal/lsf"
)

// LaunchOptions holds the raw launch flags as given on the command
// line, before validation and parsing.
type LaunchOptions struct {
	Input        string
	Output       string
	Version      string
	Bind         string
	Env          string
	Cleanup      string
	TemplateFlow string
	DryRun       bool
	PassThrough  []string
}

// Validate checks the raw flags and converts them into launcher
// options. All failures are config errors: nothing has touched the
// filesystem yet.
func (o LaunchOptions) Validate() (launcher.Options, error) {
	var opts launcher.Options

	if o.Input == "" {
		return opts, launcher.NewConfigError("-i/--input is required")
	}
	if o.Output == "" {
		return opts, launcher.NewConfigError("-o/--output is required")
	}
	if o.Version == "" {
		return opts, launcher.NewConfigError("-v/--image-version is required")
	}

	binds, err := container.ParseBindList(o.Bind)
	if err != nil {
		return opts, &launcher.ConfigError{Err: err}
	}

	env, err := parseEnvList(o.Env)
	if err != nil {
		return opts, err
	}

	var cleanup bool
	switch o.Cleanup {
	case "1":
		cleanup = true
	case "0":
		cleanup = false
	default:
		return opts, launcher.NewConfigError("-c/--cleanup must be 0 or 1, got %q", o.Cleanup)
	}

	return launcher.Options{
		InputDir:        o.Input,
		OutputDir:       o.Output,
		Version:         o.Version,
		TemplateFlowDir: o.TemplateFlow,
		Binds:           binds,
		Env:             env,
		Cleanup:         cleanup,
		DryRun:          o.DryRun,
		PassThrough:     o.PassThrough,
	}, nil
}

// parseEnvList splits comma-separated NAME=VALUE pairs.
func parseEnvList(list string) ([]string, error) {
	if list == "" {
		return nil, nil
	}
	var pairs []string
	for _, pair := range strings.Split(list, ",") {
		name, _, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, launcher.NewConfigError("invalid environment pair %q: expected NAME=VALUE", pair)
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// Launch validates flags, resolves configuration and scheduler
// context, and runs the launch pipeline with signal-driven
// cancellation.
func (a *App) Launch(ctx context.Context) error {
	opts, err := a.launchOpts.Validate()
	if err != nil {
		return err
	}

	home, err := config.Home()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(home)
	if err != nil {
		return err
	}

	job, err := lsf.CurrentJob()
	if err != nil {
		return &launcher.ResourceNotFoundError{Resource: "scheduler context", Err: err}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.sigHandler = NewSignalHandler(cancel)
	a.sigHandler.OnShutdown(func() {
		fmt.Fprintln(os.Stderr, "\ninterrupted, cleaning up...")
	})
	a.sigHandler.Start()
	defer a.sigHandler.Stop()

	useColor := term.IsTerminal(int(os.Stderr.Fd()))
	renderer := NewSummaryRenderer(os.Stderr, useColor)

	l := &launcher.Launcher{
		Config:    cfg,
		Job:       job,
		Out:       os.Stderr,
		Summarize: renderer.Render,
	}

	code, err := l.Run(ctx, opts)
	if err != nil {
		return err
	}
	a.exitCode = code
	return nil
}
