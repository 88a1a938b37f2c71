package version

import "fmt"

// Overridden at build time with -ldflags "-X".
var (
	// Version is the release tag
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build information on one line.
func String() string {
	return fmt.Sprintf("bevel-deformer %s (%s, built %s)", Version, GitSHA, BuildTime)
}
