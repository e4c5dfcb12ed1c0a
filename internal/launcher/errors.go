package launcher

import (
	"errors"
	"fmt"
)

// Process exit codes for launcher-side failures. Downstream failures
// are mirrored verbatim instead, and interrupts exit 128+signal.
const (
	ExitOK               = 0
	ExitConfig           = 2
	ExitResourceNotFound = 3
	ExitEnvironment      = 4
)

// ConfigError reports bad or missing command-line input. No resource
// has been created when it is returned.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError wraps a formatted message as a ConfigError.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Err: fmt.Errorf(format, args...)}
}

// ResourceNotFoundError reports a missing external prerequisite: the
// image, a directory, the license, the runtime binary, or scheduler
// context. Returned before the work directory is created.
type ResourceNotFoundError struct {
	Resource string
	Err      error
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s: %v", e.Resource, e.Err)
}
func (e *ResourceNotFoundError) Unwrap() error { return e.Err }

// EnvironmentError reports a failed filesystem mutation (output or
// work directory creation).
type EnvironmentError struct {
	Op  string
	Err error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}
func (e *EnvironmentError) Unwrap() error { return e.Err }

// ExitCode maps a launcher error to its process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfig
	}
	var nfErr *ResourceNotFoundError
	if errors.As(err, &nfErr) {
		return ExitResourceNotFound
	}
	var envErr *EnvironmentError
	if errors.As(err, &envErr) {
		return ExitEnvironment
	}
	return 1
}
