package config

import "path/filepath"

const (
	DefaultContainersDirName = "containers"
	DefaultLicenseFileName   = "license.txt"
	DefaultTemplateFlowName  = "templateflow"
	DefaultScratchDir        = "/scratch"
)

// DefaultConfig returns a Config with all default values applied,
// anchored at the launcher home directory.
func DefaultConfig(home string) *Config {
	return &Config{
		ContainersDir:   filepath.Join(home, DefaultContainersDirName),
		LicenseFile:     filepath.Join(home, DefaultLicenseFileName),
		TemplateFlowDir: filepath.Join(home, DefaultTemplateFlowName),
		ScratchDir:      DefaultScratchDir,
		Runtime:         "",
	}
}
