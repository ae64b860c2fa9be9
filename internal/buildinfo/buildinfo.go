// Package buildinfo carries version control metadata stamped in at link time:
//
//	go build -ldflags "-X metroplanner.transit.org/internal/buildinfo.CommitHash=$(git rev-parse HEAD)"
//
// Binaries built without ldflags fall back to the VCS stamp the go tool embeds.
package buildinfo

import "runtime/debug"

var (
	CommitHash = "unknown"
	Branch     = "unknown"
	Version    = "dev"
	BuildTime  = ""
	CommitTime = ""
	Dirty      = "false"
	Host       = ""
)

var readBuildInfo = debug.ReadBuildInfo

// Commit returns the full commit hash, reading the embedded VCS settings
// when nothing was stamped.
func Commit() string {
	if CommitHash != "unknown" && CommitHash != "" {
		return CommitHash
	}
	if info, ok := readBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return "unknown"
}

// ShortCommit is the first seven characters of Commit.
func ShortCommit() string {
	c := Commit()
	if len(c) < 7 {
		return c
	}
	return c[:7]
}
