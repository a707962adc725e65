// Package version holds build information injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// UserAgent is the User-Agent header sent when fetching remote images.
func UserAgent() string {
	return fmt.Sprintf("colorthief/%s", Version)
}

// String returns a multi-line, human-readable description of the build.
func String() string {
	return fmt.Sprintf("colorthief %s\n  Build time: %s\n  Git commit: %s\n  Go: %s %s/%s",
		Version, BuildTime, GitCommit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
