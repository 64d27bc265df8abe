package version

import "fmt"

// Build metadata, stamped through -ldflags when release binaries are built.
// The defaults cover plain `go build` during development.
var (
	// Version is the semantic version of the deploy tooling.
	Version = "1.0.0"
	// Commit is the abbreviated git revision the binary was built from.
	Commit = "none"
	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// Short returns just the semantic version.
func Short() string {
	return Version
}

// Full returns the version together with the source revision and build time.
func Full() string {
	return fmt.Sprintf("version: %s, commit: %s, built at: %s", Version, Commit, BuildTime)
}
