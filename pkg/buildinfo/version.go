// Package buildinfo holds version information stamped in at build time:
//
//	go build -ldflags "-X github.com/greatlse/openchemlib/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/greatlse/openchemlib/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/greatlse/openchemlib/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/depict
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the multi-line form printed by "depict version".
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, %s)\n", Version, Commit, Date)
}

// CacheScope prefixes cache keys so that layouts computed by one release
// are not served by another.
func CacheScope() string {
	return Version + ":"
}
