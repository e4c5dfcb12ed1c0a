// Package lsf reads the LSF batch environment. It is the only place in
// the launcher that touches scheduler-assigned environment variables.
package lsf

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// EnvJobID is set by LSF for every dispatched job.
	EnvJobID = "LSB_JOBID"

	// EnvNumProc is the number of processors LSF reserved for the job.
	EnvNumProc = "LSB_DJOB_NUMPROC"
)

// Job describes the batch allocation the launcher is running under.
type Job struct {
	// ID is the LSF job identifier.
	ID string

	// NumProc is the number of reserved processors.
	NumProc int
}

// CurrentJob reads the batch allocation from the environment.
// Returns an error when the launcher is not running inside a
// scheduled job, or when the processor reservation is missing or
// not a positive integer.
func CurrentJob() (Job, error) {
	id := os.Getenv(EnvJobID)
	if id == "" {
		return Job{}, fmt.Errorf("%s is not set: this launcher must run inside an LSF job (bsub)", EnvJobID)
	}

	raw := os.Getenv(EnvNumProc)
	if raw == "" {
		return Job{}, fmt.Errorf("%s is not set: cannot determine reserved processor count", EnvNumProc)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return Job{}, fmt.Errorf("%s has invalid value %q: expected a positive integer", EnvNumProc, raw)
	}

	return Job{ID: id, NumProc: n}, nil
}
