// Package cli wires the xcpd-launch cobra application: the root
// launch command plus the version, doctor, and scrub subcommands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nmr-tools/xcpd-launch/internal/launcher"
)

// VersionInfo carries build-time identification (set via ldflags).
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// App represents the CLI application with all wired dependencies.
type App struct {
	// Root command
	rootCmd *cobra.Command

	// Launch flags bound on the root command
	launchOpts LaunchOptions

	// Signal handling for the active launch
	sigHandler *SignalHandler

	// exitCode recorded by a completed launch (downstream code)
	exitCode int

	// Version information
	versionInfo VersionInfo
}

// New creates a new CLI application.
func New() *App {
	app := &App{}
	app.setupRootCmd()
	return app
}

// SetVersion sets the version information for the version command.
func (a *App) SetVersion(version, commit, date string) {
	a.versionInfo = VersionInfo{Version: version, Commit: commit, Date: date}
}

// Execute runs the application and returns the process exit code:
// the downstream exit code on success, a taxonomy code on launcher
// failure, or 128+signal after an interrupt.
func (a *App) Execute() int {
	err := a.rootCmd.Execute()
	if err == nil {
		return a.exitCode
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	if a.sigHandler != nil {
		if sig := a.sigHandler.Received(); sig != 0 {
			return 128 + int(sig)
		}
	}

	code := launcher.ExitCode(err)
	if code == launcher.ExitConfig {
		fmt.Fprint(os.Stderr, "\n"+a.rootCmd.UsageString())
	}
	return code
}

// setupRootCmd configures the root cobra command. The launcher is
// invoked as a single command carrying the launch flags, matching the
// original bsub-facing interface; auxiliary operations are
// subcommands.
func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "xcpd-launch -i input-dir -o output-dir -v version [flags] [-- xcp_d args...]",
		Short: "Run the containerized xcp_d pipeline under an LSF job",
		Long: `xcpd-launch runs the xcp_d postprocessing pipeline inside a
Singularity/Apptainer container from within an LSF batch allocation.

It validates inputs, derives thread counts from the scheduler
environment, assembles the container invocation (bind mounts, container
environment, pass-through arguments), and removes its scratch work
directory on every exit path unless -c 0 is given.

Arguments after -- are forwarded to xcp_d verbatim.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().NFlag() == 0 && len(args) == 0 {
				return launcher.NewConfigError("no arguments given")
			}
			a.launchOpts.PassThrough = passThroughArgs(cmd, args)
			return a.Launch(cmd.Context())
		},
	}

	// Flag parse failures (unknown flag, missing value) are config
	// errors, not internal ones.
	a.rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &launcher.ConfigError{Err: err}
	})

	flags := a.rootCmd.Flags()
	flags.StringVarP(&a.launchOpts.Input, "input", "i", "", "Input (BIDS derivatives) directory")
	flags.StringVarP(&a.launchOpts.Output, "output", "o", "", "Output directory (created if missing)")
	flags.StringVarP(&a.launchOpts.Version, "image-version", "v", "", "xcp_d container version (selects xcp_d-<version>.sif)")
	flags.StringVarP(&a.launchOpts.Bind, "bind", "B", "", "Extra bind mounts, comma-separated source:destination pairs")
	flags.StringVarP(&a.launchOpts.Env, "env", "e", "", "Extra container environment, comma-separated NAME=VALUE pairs")
	flags.StringVarP(&a.launchOpts.Cleanup, "cleanup", "c", "1", "Remove the scratch work directory on exit (1) or keep it (0)")
	flags.StringVarP(&a.launchOpts.TemplateFlow, "templateflow", "t", "", "TemplateFlow directory (default from site config)")
	flags.BoolVar(&a.launchOpts.DryRun, "dry-run", false, "Print the assembled command without executing")

	a.rootCmd.AddCommand(NewVersionCmd(a))
	a.rootCmd.AddCommand(NewDoctorCmd())
	a.rootCmd.AddCommand(NewScrubCmd())
}

// passThroughArgs returns the tokens after --, or all positional args
// when no -- was given (they have nowhere else to go).
func passThroughArgs(cmd *cobra.Command, args []string) []string {
	if at := cmd.ArgsLenAtDash(); at >= 0 {
		return args[at:]
	}
	return args
}
