// Package version carries the build stamp injected at link time via
// -ldflags; unstamped builds report the dev defaults.
package version

var (
	// Version is the release tag of this build.
	Version = "dev"
	// GitSHA is the commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)
