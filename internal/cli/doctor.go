package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nmr-tools/xcpd-launch/internal/config"
	"github.com/nmr-tools/xcpd-launch/internal/container"
	"github.com/nmr-tools/xcpd-launch/internal/lsf"
)

// doctorCheck is one environment probe. Optional checks are reported
// but do not fail the command (the scheduler context is absent on
// login nodes, where doctor is typically run).
type doctorCheck struct {
	name     string
	optional bool
	run      func(cfg *config.Config) (string, error)
}

var doctorChecks = []doctorCheck{
	{
		name: "container runtime",
		run: func(cfg *config.Config) (string, error) {
			return container.ResolveRuntime(cfg.Runtime)
		},
	},
	{
		name: "containers directory",
		run: func(cfg *config.Config) (string, error) {
			if err := statDir(cfg.ContainersDir); err != nil {
				return "", err
			}
			images, _ := filepath.Glob(filepath.Join(cfg.ContainersDir, "xcp_d-*.sif"))
			return fmt.Sprintf("%s (%d images)", cfg.ContainersDir, len(images)), nil
		},
	},
	{
		name: "license file",
		run: func(cfg *config.Config) (string, error) {
			if _, err := os.Stat(cfg.LicenseFile); err != nil {
				return "", err
			}
			return cfg.LicenseFile, nil
		},
	},
	{
		name: "templateflow directory",
		run: func(cfg *config.Config) (string, error) {
			if err := statDir(cfg.TemplateFlowDir); err != nil {
				return "", err
			}
			return cfg.TemplateFlowDir, nil
		},
	},
	{
		name: "scratch directory",
		run: func(cfg *config.Config) (string, error) {
			probe, err := os.MkdirTemp(cfg.ScratchDir, "xcpd-launch-doctor-")
			if err != nil {
				return "", fmt.Errorf("not writable: %w", err)
			}
			os.RemoveAll(probe)
			return cfg.ScratchDir, nil
		},
	},
	{
		name:     "scheduler context",
		optional: true,
		run: func(cfg *config.Config) (string, error) {
			job, err := lsf.CurrentJob()
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("job %s, %d processors", job.ID, job.NumProc), nil
		},
	},
}

// NewDoctorCmd creates the doctor command, which verifies the
// launcher's environment without running anything.
func NewDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the launcher environment without running xcp_d",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := config.Home()
			if err != nil {
				return err
			}
			cfg, err := config.LoadConfig(home)
			if err != nil {
				return err
			}
			return runDoctor(cmd, cfg)
		},
	}
}

func runDoctor(cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()
	useColor := false
	if f, ok := out.(*os.File); ok {
		useColor = term.IsTerminal(int(f.Fd()))
	}
	r := NewSummaryRenderer(out, useColor)

	failed := 0
	for _, check := range doctorChecks {
		detail, err := check.run(cfg)
		switch {
		case err == nil:
			fmt.Fprintf(out, "%s %-24s %s\n", r.checkMark(true), check.name, detail)
		case check.optional:
			fmt.Fprintf(out, "%s %-24s %v (optional)\n", r.checkMark(false), check.name, err)
		default:
			fmt.Fprintf(out, "%s %-24s %v\n", r.checkMark(false), check.name, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d required check(s) failed", failed)
	}
	return nil
}

func statDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
