// Package launcher implements the xcp_d launch pipeline: resource
// validation, work-directory lifecycle, container command assembly,
// and execution with a cleanup guarantee on every exit path.
package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nmr-tools/xcpd-launch/internal/config"
	"github.com/nmr-tools/xcpd-launch/internal/container"
	"github.com/nmr-tools/xcpd-launch/internal/lsf"
)

// Fixed in-container paths. The host side of each mount varies per
// invocation; the container side never does, because xcp_d's own
// flags below refer to these paths.
const (
	ContainerWorkDir      = "/work"
	ContainerTemplateFlow = "/templateflow"
	ContainerLicense      = "/license/license.txt"
	ContainerInput        = "/data/input"
	ContainerOutput       = "/data/output"

	// AnalysisLevel is the fixed positional stage argument.
	AnalysisLevel = "participant"
)

// Options is the per-invocation configuration, built once from the
// command line before anything runs.
type Options struct {
	// InputDir is the BIDS derivatives directory to process.
	InputDir string

	// OutputDir receives xcp_d outputs; created if missing.
	OutputDir string

	// Version selects the container image: xcp_d-<Version>.sif.
	Version string

	// TemplateFlowDir overrides the configured TemplateFlow cache.
	// Empty means use the configured default.
	TemplateFlowDir string

	// Binds are user-supplied extra mounts, appended after the
	// fixed mounts in the order given. Never deduplicated.
	Binds []container.BindMount

	// Env are user-supplied NAME=VALUE pairs exported into the
	// container via the runtime's environment prefix.
	Env []string

	// Cleanup controls work-directory removal on exit.
	Cleanup bool

	// DryRun prints the assembled command without executing it and
	// without touching the filesystem.
	DryRun bool

	// PassThrough tokens are forwarded verbatim to xcp_d after the
	// launcher-assembled flags.
	PassThrough []string
}

// Plan is the fully resolved invocation: everything needed to run,
// plus the pieces the summary wants to show.
type Plan struct {
	RuntimeBinary string
	ImagePath     string
	WorkdirPath   string
	Job           lsf.Job
	Spec          container.RunSpec
}

// CommandLine renders the final command for display.
func (p *Plan) CommandLine() []string {
	return append([]string{p.RuntimeBinary}, p.Spec.Argv()...)
}

// Launcher runs one xcp_d invocation.
type Launcher struct {
	Config *config.Config
	Job    lsf.Job

	// Runner overrides process execution in tests. When nil, a
	// CLIRunner for the resolved runtime binary is used.
	Runner container.Runner

	// Out receives progress and cleanup reporting. Defaults to
	// os.Stderr so it never interleaves with downstream stdout.
	Out io.Writer

	// Summarize, when set, renders the pre-execution summary of the
	// resolved plan. Defaults to a plain listing on Out.
	Summarize func(*Plan)
}

func (l *Launcher) out() io.Writer {
	if l.Out != nil {
		return l.Out
	}
	return os.Stderr
}

// Run executes the launch pipeline and returns the downstream exit
// code. The returned error is non-nil only for launcher-side
// failures (see errors.go) or interruption; the work directory is
// released on every path once it exists.
func (l *Launcher) Run(ctx context.Context, opts Options) (int, error) {
	imagePath := l.Config.ImagePath(opts.Version)
	templateFlow := opts.TemplateFlowDir
	if templateFlow == "" {
		templateFlow = l.Config.TemplateFlowDir
	}

	// All existence checks happen before any filesystem mutation.
	if err := checkDir("input directory", opts.InputDir); err != nil {
		return ExitResourceNotFound, err
	}
	if err := checkDir("templateflow directory", templateFlow); err != nil {
		return ExitResourceNotFound, err
	}
	if err := checkFile("container image", imagePath); err != nil {
		return ExitResourceNotFound, err
	}
	if err := checkFile("license file", l.Config.LicenseFile); err != nil {
		return ExitResourceNotFound, err
	}

	runtimeBin, err := container.ResolveRuntime(l.Config.Runtime)
	if err != nil {
		return ExitResourceNotFound, &ResourceNotFoundError{Resource: "container runtime", Err: err}
	}

	if opts.DryRun {
		// Show the path a real run would create without creating it.
		plan := l.plan(runtimeBin, imagePath, templateFlow,
			filepath.Join(l.Config.ScratchDir, "xcp_d-"+l.Job.ID+"-XXXXXXXXXX"), opts)
		l.summarize(plan)
		fmt.Fprintln(l.out(), "dry run: not executing")
		return ExitOK, nil
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return ExitEnvironment, &EnvironmentError{
			Op:  fmt.Sprintf("create output directory %s", opts.OutputDir),
			Err: err,
		}
	}

	workdir, err := CreateWorkdir(l.Config.ScratchDir, l.Job.ID)
	if err != nil {
		return ExitEnvironment, err
	}
	if !opts.Cleanup {
		workdir.Keep()
	}
	defer l.release(workdir)

	plan := l.plan(runtimeBin, imagePath, templateFlow, workdir.Path, opts)
	l.summarize(plan)

	runner := l.Runner
	if runner == nil {
		runner = container.NewCLIRunner(runtimeBin)
	}
	code, err := runner.Run(ctx, plan.Spec)
	if err != nil {
		return ExitCode(err), err
	}
	if code != 0 {
		fmt.Fprintf(l.out(), "xcp_d exited with code %d\n", code)
	}
	return code, nil
}

// plan assembles the resolved invocation. Fixed mounts come first, in
// a fixed order, then user mounts exactly as supplied.
func (l *Launcher) plan(runtimeBin, imagePath, templateFlow, workdirPath string, opts Options) *Plan {
	nproc := strconv.Itoa(l.Job.NumProc)

	binds := []container.BindMount{
		{Source: workdirPath, Dest: ContainerWorkDir},
		{Source: templateFlow, Dest: ContainerTemplateFlow},
		{Source: l.Config.LicenseFile, Dest: ContainerLicense},
		{Source: opts.InputDir, Dest: ContainerInput},
		{Source: opts.OutputDir, Dest: ContainerOutput},
	}
	binds = append(binds, opts.Binds...)

	env := []string{
		"SINGULARITYENV_TMPDIR=" + ContainerWorkDir,
		"SINGULARITYENV_TEMPLATEFLOW_HOME=" + ContainerTemplateFlow,
		"SINGULARITYENV_FS_LICENSE=" + ContainerLicense,
	}
	for _, pair := range opts.Env {
		env = append(env, "SINGULARITYENV_"+pair)
	}

	args := []string{
		ContainerInput, ContainerOutput, AnalysisLevel,
		"--notrack",
		"--nthreads", nproc,
		"--omp-nthreads", nproc,
		"-w", ContainerWorkDir,
		"-v",
	}
	// Pass-through goes last so repeated flags resolve downstream.
	args = append(args, opts.PassThrough...)

	return &Plan{
		RuntimeBinary: runtimeBin,
		ImagePath:     imagePath,
		WorkdirPath:   workdirPath,
		Job:           l.Job,
		Spec: container.RunSpec{
			Image:    imagePath,
			Binds:    binds,
			Env:      env,
			Args:     args,
			CleanEnv: true,
			NoHome:   true,
		},
	}
}

func (l *Launcher) summarize(plan *Plan) {
	if l.Summarize != nil {
		l.Summarize(plan)
		return
	}
	fmt.Fprintf(l.out(), "image: %s\nwork dir: %s\ncommand: %v\n",
		plan.ImagePath, plan.WorkdirPath, plan.CommandLine())
}

// release reports the work directory's fate. Removal failures are
// reported, not returned: the run's own outcome takes precedence.
func (l *Launcher) release(w *Workdir) {
	removed, err := w.Release()
	switch {
	case err != nil:
		fmt.Fprintf(l.out(), "warning: %v\n", err)
	case removed:
		fmt.Fprintf(l.out(), "removed work directory %s\n", w.Path)
	default:
		fmt.Fprintf(l.out(), "keeping work directory %s\n", w.Path)
	}
}

func checkDir(what, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &ResourceNotFoundError{Resource: what, Err: err}
	}
	if !info.IsDir() {
		return &ResourceNotFoundError{Resource: what, Err: fmt.Errorf("%s is not a directory", path)}
	}
	return nil
}

func checkFile(what, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &ResourceNotFoundError{Resource: what, Err: err}
	}
	if info.IsDir() {
		return &ResourceNotFoundError{Resource: what, Err: fmt.Errorf("%s is a directory, expected a file", path)}
	}
	return nil
}
