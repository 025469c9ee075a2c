// Package version carries the cookfind build stamp, set with
// -ldflags "-X github.com/kailas-cloud/cookfind/internal/version.Version=...".
package version

import "fmt"

//nolint:revive // Overwritten at link time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the stamp as shown by `cookfind --version`.
func String() string {
	return fmt.Sprintf("%s (%s, %s)", Version, Commit, Date)
}
