// Package version carries build identification injected at link time via
// -ldflags "-X github.com/parity-tools/fairadjust/internal/version.Version=...".
package version

import "fmt"

var (
	// Version is the release version of the binary
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String renders the full build identification on one line.
func String() string {
	return fmt.Sprintf("fairadjust %s (%s, built %s)", Version, GitSHA, BuildTime)
}
