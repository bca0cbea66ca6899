// Package buildinfo holds the release identity stamped into raycast binaries.
//
//	go build -ldflags "-X raycast/internal/buildinfo.Version=v1.2.0 -X raycast/internal/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the source revision.
	Commit = "unknown"
	// Date is the build time.
	Date = "unknown"
)

// Short names the build in window titles and log lines: the release tag when
// stamped, else the commit, else "dev".
func Short() string {
	switch {
	case Version != "" && Version != "dev":
		return Version
	case Commit != "" && Commit != "unknown":
		return Commit
	}
	return "dev"
}

// String is the full identity printed by "raycast version".
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Short(), orUnknown(Commit), orUnknown(Date))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
