// Package container wraps the Singularity/Apptainer CLI: runtime
// detection, bind-mount handling, and synchronous image execution with
// inherited stdio.
package container

import (
	"fmt"
	"strings"
)

// BindMount maps a host path into the container filesystem namespace.
type BindMount struct {
	// Source is the host path.
	Source string

	// Dest is the path inside the container.
	Dest string
}

// String renders the mount in the runtime's source:destination syntax.
func (b BindMount) String() string {
	return b.Source + ":" + b.Dest
}

// ParseBindList parses a comma-separated list of source:destination
// pairs, preserving order. Source paths may not be empty; a pair
// without a destination is rejected rather than defaulting, since the
// launcher's fixed mounts already cover identity binds.
func ParseBindList(list string) ([]BindMount, error) {
	if list == "" {
		return nil, nil
	}
	var mounts []BindMount
	for _, pair := range strings.Split(list, ",") {
		src, dst, ok := strings.Cut(pair, ":")
		if !ok || src == "" || dst == "" {
			return nil, fmt.Errorf("invalid bind pair %q: expected source:destination", pair)
		}
		mounts = append(mounts, BindMount{Source: src, Dest: dst})
	}
	return mounts, nil
}

// RunSpec specifies a single `<runtime> run` invocation.
type RunSpec struct {
	// Image is the host path of the .sif image.
	Image string

	// Binds are applied in order, exactly as given. Duplicate or
	// conflicting destinations are passed through untouched; the
	// runtime resolves precedence.
	Binds []BindMount

	// Env contains NAME=VALUE entries appended to the runtime
	// process environment (e.g. SINGULARITYENV_* variables).
	Env []string

	// Args follow the image path verbatim: positional arguments,
	// tool flags, then user pass-through.
	Args []string

	// CleanEnv requests --cleanenv so host variables do not leak
	// into the container.
	CleanEnv bool

	// NoHome requests --no-home to keep $HOME unmounted.
	NoHome bool
}

// Argv returns the full runtime argument list for the spec, excluding
// the runtime binary itself. Tokens are kept discrete; nothing is
// shell-quoted because nothing passes through a shell.
func (s RunSpec) Argv() []string {
	args := []string{"run"}
	if s.CleanEnv {
		args = append(args, "--cleanenv")
	}
	if s.NoHome {
		args = append(args, "--no-home")
	}
	for _, b := range s.Binds {
		args = append(args, "-B", b.String())
	}
	args = append(args, s.Image)
	args = append(args, s.Args...)
	return args
}
