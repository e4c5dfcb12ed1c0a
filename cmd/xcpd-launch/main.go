package main

import (
	"os"

	"github.com/nmr-tools/xcpd-launch/internal/cli"
)

// Build-time variables (set via ldflags)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := cli.New()
	app.SetVersion(version, commit, date)

	// Execute prints errors itself; the exit code carries the
	// downstream result or the failure category.
	os.Exit(app.Execute())
}
