package cmd

import (
	"os"

	"github.com/spf13/pflag"
)

// Mode constants
const (
	ModeSingleArtifact = "single-artifact"
	ModeBatch          = "batch"
)

// DetermineMode returns ModeSingleArtifact when exactly one path is given and
// it is not a directory. A single path that cannot be read is still a single
// artifact, so the failure ends the run.
func DetermineMode(args []string) string {
	if len(args) != 1 {
		return ModeBatch
	}
	if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
		return ModeBatch
	}
	return ModeSingleArtifact
}

// HasFlags reports whether any flag was set on the command line.
func HasFlags(flags *pflag.FlagSet) bool {
	changed := false
	flags.Visit(func(*pflag.Flag) { changed = true })
	return changed
}
