// Package version carries the build metadata stamped in through release
// ldflags. The zero values identify a local build.
package version

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
