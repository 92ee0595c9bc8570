package core

import (
	"os"
	"runtime/debug"
)

var (
	IsStdinTerm  bool
	IsStderrTerm bool
	IsStdoutTerm bool

	Version string
)

func init() {
	// Determine if stdin, stderr and stdout are TTYs.
	IsStdinTerm = isTerminal(int(os.Stdin.Fd()))
	IsStderrTerm = isTerminal(int(os.Stderr.Fd()))
	IsStdoutTerm = isTerminal(int(os.Stdout.Fd()))

	Version = getVersion()
}

// getVersion attempts to read the executable's BuildInfo, returning the version.
func getVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "v(dev)"
	}
	return info.Main.Version
}
