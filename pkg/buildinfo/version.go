// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/KubrakovDmitry/the-graph-visualizer/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/KubrakovDmitry/the-graph-visualizer/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("graphvis %s (commit %s, built %s)", Version, Commit, Date)
}

// Template returns the version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
