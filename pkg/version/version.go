// Package version exposes build metadata injected with -ldflags.
package version

import "fmt"

// Set at build time:
//
//	go build -ldflags "-X github.com/rshade/pagedview/pkg/version.version=v1.2.3"
//
//nolint:gochecknoglobals // Populated by the linker.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersion returns the release version, "dev" for local builds.
func GetVersion() string {
	return version
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	return commit
}

// String renders version, commit and build date on one line.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}
