// Package version carries build-time version metadata.
package version

import "fmt"

// Set at build time via -ldflags "-X circuit-cad/internal/version.Version=...".
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns a one-line version summary for logs and the About box.
func String() string {
	return fmt.Sprintf("v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
}
