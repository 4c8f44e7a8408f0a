package main

import (
	"os"

	"github.com/biolens/biolens/internal/cmd"
)

// Version information, overridden at build time via -ldflags.
var (
	version   = "0.1.0"
	commit    = "dev"
	buildDate = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, buildDate)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
