package config

import "os"

// EnvHome relocates the launcher home (settings file, default asset paths).
const EnvHome = "XCPD_LAUNCH_HOME"

// envOverrides maps environment variables to config field setters.
var envOverrides = []struct {
	envVar string
	apply  func(*Config, string)
}{
	{
		envVar: "XCPD_LAUNCH_CONTAINERS",
		apply: func(c *Config, v string) {
			c.ContainersDir = v
		},
	},
	{
		envVar: "XCPD_LAUNCH_LICENSE",
		apply: func(c *Config, v string) {
			c.LicenseFile = v
		},
	},
	{
		envVar: "XCPD_LAUNCH_TEMPLATEFLOW",
		apply: func(c *Config, v string) {
			c.TemplateFlowDir = v
		},
	},
	{
		envVar: "XCPD_LAUNCH_SCRATCH",
		apply: func(c *Config, v string) {
			c.ScratchDir = v
		},
	},
	{
		envVar: "XCPD_LAUNCH_RUNTIME",
		apply: func(c *Config, v string) {
			c.Runtime = v
		},
	},
}

// applyEnvOverrides modifies config in place with environment variable values.
func applyEnvOverrides(cfg *Config) {
	for _, override := range envOverrides {
		if val := os.Getenv(override.envVar); val != "" {
			override.apply(cfg, val)
		}
	}
}
