package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ValidationError contains details about what failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config.%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// validateConfig checks all config values for validity.
// Returns nil if valid, or joined errors for all validation failures.
func validateConfig(cfg *Config) error {
	var errs []error

	if cfg.ContainersDir == "" {
		errs = append(errs, &ValidationError{
			Field:   "containers_dir",
			Value:   cfg.ContainersDir,
			Message: "must not be empty",
		})
	}

	if cfg.LicenseFile == "" {
		errs = append(errs, &ValidationError{
			Field:   "license_file",
			Value:   cfg.LicenseFile,
			Message: "must not be empty",
		})
	}

	if cfg.TemplateFlowDir == "" {
		errs = append(errs, &ValidationError{
			Field:   "templateflow_dir",
			Value:   cfg.TemplateFlowDir,
			Message: "must not be empty",
		})
	}

	if !filepath.IsAbs(cfg.ScratchDir) {
		errs = append(errs, &ValidationError{
			Field:   "scratch_dir",
			Value:   cfg.ScratchDir,
			Message: "must be an absolute path",
		})
	}

	return errors.Join(errs...)
}
