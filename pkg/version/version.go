// Package version exposes the streamtap build identity, stamped at link
// time via -ldflags.
package version

import "runtime"

var (
	// Version is the semantic version (set by build flags)
	Version = "dev"

	// GitCommit is the git commit hash (set by build flags)
	GitCommit = "unknown"

	// BuildDate is the build timestamp (set by build flags)
	BuildDate = "unknown"

	// GoVersion is the Go version used to build the binary
	GoVersion = runtime.Version()
)
