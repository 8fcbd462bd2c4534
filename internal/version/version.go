// Package version holds build metadata injected via -ldflags.
package version

import "fmt"

var (
	// Version is the release version, e.g. v0.3.0.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// Info returns a single-line version string.
func Info() string {
	return fmt.Sprintf("goarmor %s (commit %s, built %s)", Version, Commit, Date)
}
