package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SettingsFileName is the optional launcher settings file, looked up
// in the launcher home directory.
const SettingsFileName = "xcpd-launch.yaml"

// Config holds all site-level configuration for the launcher.
// It is immutable after creation via LoadConfig().
type Config struct {
	// ContainersDir holds the versioned .sif images.
	ContainersDir string `yaml:"containers_dir"`

	// LicenseFile is the host path of the FreeSurfer license.
	LicenseFile string `yaml:"license_file"`

	// TemplateFlowDir is the host path of the TemplateFlow cache.
	TemplateFlowDir string `yaml:"templateflow_dir"`

	// ScratchDir is the root under which per-job work directories
	// are created.
	ScratchDir string `yaml:"scratch_dir"`

	// Runtime is the container runtime binary name or path.
	// Empty means autodetect (singularity, then apptainer).
	Runtime string `yaml:"runtime"`
}

// ImagePath returns the expected image path for a version token.
// The token is opaque; it is not validated beyond non-emptiness,
// which happens in flag validation before this is called.
func (c *Config) ImagePath(version string) string {
	return filepath.Join(c.ContainersDir, "xcp_d-"+version+".sif")
}

// Home returns the launcher home directory: $XCPD_LAUNCH_HOME when
// set, otherwise the directory containing the running executable.
func Home() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	return filepath.Dir(exe), nil
}

// LoadConfig builds the launcher configuration: defaults, then the
// optional settings file under home, then environment overrides.
// Relative paths in the settings file are resolved from home.
//
// Existence of the configured paths is deliberately not checked here;
// that happens per-run in the launcher so that error reporting can
// distinguish which resource is missing.
func LoadConfig(home string) (*Config, error) {
	cfg := DefaultConfig(home)

	settingsPath := filepath.Join(home, SettingsFileName)
	if data, err := os.ReadFile(settingsPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", settingsPath, err)
		}
	}
	// Note: missing settings file is not an error (use defaults)

	applyEnvOverrides(cfg)

	// Resolve relative paths against home
	for _, p := range []*string{&cfg.ContainersDir, &cfg.LicenseFile, &cfg.TemplateFlowDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(home, *p)
		}
	}

	// A scratch override that is not an existing directory is ignored
	if info, err := os.Stat(cfg.ScratchDir); err != nil || !info.IsDir() {
		if cfg.ScratchDir != DefaultScratchDir {
			cfg.ScratchDir = DefaultScratchDir
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
