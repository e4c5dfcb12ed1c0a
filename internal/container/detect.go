package container

import (
	"errors"
	"os/exec"
)

// ErrNoRuntime is returned when no container runtime is found.
var ErrNoRuntime = errors.New("no container runtime found (need singularity or apptainer)")

// DetectRuntime finds an available container runtime on PATH.
// Checks singularity first, then apptainer. Verifies the binary
// actually works by running `<runtime> version`.
func DetectRuntime() (string, error) {
	for _, bin := range []string{"singularity", "apptainer"} {
		if _, err := exec.LookPath(bin); err != nil {
			continue
		}
		cmd := exec.Command(bin, "version")
		if err := cmd.Run(); err != nil {
			continue
		}
		return bin, nil
	}
	return "", ErrNoRuntime
}

// ResolveRuntime returns the runtime binary to use. A configured
// name or path is looked up as-is; empty means autodetect.
func ResolveRuntime(configured string) (string, error) {
	if configured == "" {
		return DetectRuntime()
	}
	path, err := exec.LookPath(configured)
	if err != nil {
		return "", errors.Join(ErrNoRuntime, err)
	}
	return path, nil
}
