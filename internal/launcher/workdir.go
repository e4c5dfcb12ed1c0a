package launcher

import (
	"fmt"
	"os"
)

// Workdir is the scoped scratch directory for one launch. It is
// created once after validation passes, owned exclusively by this
// invocation, and released on every exit path unless kept.
type Workdir struct {
	// Path is the unique directory under the scratch root.
	Path string

	keep     bool
	released bool
}

// CreateWorkdir makes a uniquely named directory under scratchRoot,
// prefixed with the job ID so leftovers are attributable to a job.
func CreateWorkdir(scratchRoot, jobID string) (*Workdir, error) {
	path, err := os.MkdirTemp(scratchRoot, "xcp_d-"+jobID+"-")
	if err != nil {
		return nil, &EnvironmentError{
			Op:  fmt.Sprintf("create work directory under %s", scratchRoot),
			Err: err,
		}
	}
	return &Workdir{Path: path}, nil
}

// Keep disables removal on release; the directory survives the run.
func (w *Workdir) Keep() {
	w.keep = true
}

// Release removes the directory unless Keep was called. Safe to call
// more than once; only the first call acts. Returns whether the
// directory was removed.
func (w *Workdir) Release() (removed bool, err error) {
	if w.released {
		return false, nil
	}
	w.released = true

	if w.keep {
		return false, nil
	}
	if err := os.RemoveAll(w.Path); err != nil {
		return false, fmt.Errorf("remove work directory %s: %w", w.Path, err)
	}
	return true, nil
}
