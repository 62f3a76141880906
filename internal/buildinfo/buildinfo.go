package buildinfo

import "fmt"

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Date is set at build time via -ldflags.
var Date = "unknown"

// Short returns a compact build identifier for UI/logging.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// Title is the window title.
func Title() string {
	return "orbit (" + Short() + ")"
}

// Long includes commit and build date for startup logs.
func Long() string {
	return fmt.Sprintf("orbit %s commit=%s date=%s", Version, Commit, Date)
}
