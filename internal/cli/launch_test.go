package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/nmr-tools/xcpd-launch/internal/launcher"
)

func validLaunchOpts() LaunchOptions {
	return LaunchOptions{
		Input:   "/data/in",
		Output:  "/data/out",
		Version: "0.5.0",
		Cleanup: "1",
	}
}

func TestLaunchOptions_Valid(t *testing.T) {
	opts, err := validLaunchOpts().Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !opts.Cleanup {
		t.Error("cleanup should default on")
	}
	if opts.InputDir != "/data/in" || opts.OutputDir != "/data/out" {
		t.Errorf("paths not carried over: %+v", opts)
	}
}

func TestLaunchOptions_MissingRequired(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*LaunchOptions)
		want   string
	}{
		{"input", func(o *LaunchOptions) { o.Input = "" }, "--input"},
		{"output", func(o *LaunchOptions) { o.Output = "" }, "--output"},
		{"version", func(o *LaunchOptions) { o.Version = "" }, "--image-version"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validLaunchOpts()
			tc.mutate(&raw)

			_, err := raw.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			var cfgErr *launcher.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *launcher.ConfigError, got %T", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error should mention %s, got: %v", tc.want, err)
			}
		})
	}
}

func TestLaunchOptions_Binds(t *testing.T) {
	raw := validLaunchOpts()
	raw.Bind = "a:b,c:d"

	opts, err := raw.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(opts.Binds) != 2 {
		t.Fatalf("got %d binds", len(opts.Binds))
	}
	if opts.Binds[0].String() != "a:b" || opts.Binds[1].String() != "c:d" {
		t.Errorf("binds = %v", opts.Binds)
	}
}

func TestLaunchOptions_BadBind(t *testing.T) {
	raw := validLaunchOpts()
	raw.Bind = "nodest"

	_, err := raw.Validate()
	var cfgErr *launcher.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *launcher.ConfigError, got %v", err)
	}
}

func TestLaunchOptions_EnvPairs(t *testing.T) {
	raw := validLaunchOpts()
	raw.Env = "FOO=bar,EMPTY="

	opts, err := raw.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(opts.Env) != 2 || opts.Env[0] != "FOO=bar" || opts.Env[1] != "EMPTY=" {
		t.Errorf("env = %v", opts.Env)
	}
}

func TestLaunchOptions_BadEnvPair(t *testing.T) {
	for _, list := range []string{"NOVALUE", "=bar", "A=1,JUNK"} {
		raw := validLaunchOpts()
		raw.Env = list

		if _, err := raw.Validate(); err == nil {
			t.Errorf("env list %q: expected error", list)
		}
	}
}

func TestLaunchOptions_Cleanup(t *testing.T) {
	raw := validLaunchOpts()
	raw.Cleanup = "0"

	opts, err := raw.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if opts.Cleanup {
		t.Error("cleanup should be disabled")
	}

	raw.Cleanup = "yes"
	if _, err := raw.Validate(); err == nil {
		t.Error("expected error for -c yes")
	}
}

func TestLaunchOptions_PassThroughCarried(t *testing.T) {
	raw := validLaunchOpts()
	raw.PassThrough = []string{"--fd-thresh", "0.5"}

	opts, err := raw.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(opts.PassThrough) != 2 || opts.PassThrough[0] != "--fd-thresh" {
		t.Errorf("pass-through = %v", opts.PassThrough)
	}
}
