// Package version reports build information stamped in via -ldflags.
package version

import "fmt"

// These variables are set at build time, e.g.
//
//	go build -ldflags "-X github.com/example/paydesk/internal/version.Version=1.2.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the version line shown by paydesk --version.
func String() string {
	return fmt.Sprintf("paydesk %s (commit: %s, built: %s)", Version, shortCommit(), BuildTime)
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
