package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nmr-tools/xcpd-launch/internal/config"
)

// ScrubOptions holds flags for the scrub command.
type ScrubOptions struct {
	Job    string // restrict to one job ID
	DryRun bool   // list without removing
}

// NewScrubCmd creates the scrub command, which removes leftover work
// directories under the scratch root: runs launched with -c 0, or
// jobs killed before their cleanup could run.
func NewScrubCmd() *cobra.Command {
	var opts ScrubOptions

	cmd := &cobra.Command{
		Use:   "scrub",
		Short: "Remove leftover xcp_d work directories from scratch",
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
			return runScrub(cmd, cfg.ScratchDir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Job, "job", "", "Only remove work directories of this job ID")
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "List matching directories without removing")

	return cmd
}

func runScrub(cmd *cobra.Command, scratchDir string, opts ScrubOptions) error {
	prefix := "xcp_d-"
	if opts.Job != "" {
		prefix = "xcp_d-" + opts.Job + "-"
	}

	matches, err := filepath.Glob(filepath.Join(scratchDir, prefix+"*"))
	if err != nil {
		return fmt.Errorf("scan %s: %w", scratchDir, err)
	}

	out := cmd.OutOrStdout()
	var failures []string
	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		if opts.DryRun {
			fmt.Fprintf(out, "would remove %s\n", path)
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			fmt.Fprintf(out, "failed to remove %s: %v\n", path, err)
			failures = append(failures, path)
			continue
		}
		fmt.Fprintf(out, "removed %s\n", path)
		removed++
	}

	if opts.DryRun {
		return nil
	}
	fmt.Fprintf(out, "%d work director%s removed\n", removed, plural(removed, "y", "ies"))
	if len(failures) > 0 {
		return fmt.Errorf("failed to remove %d director(ies)", len(failures))
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
