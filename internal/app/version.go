package app

import "fmt"

// Version, Commit, and BuildTime are set via ldflags at build time:
//
//	go build -ldflags "-X github.com/aerotrack/partledger/internal/app.Version=1.4.0" ./cmd/server
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion returns a formatted version string for startup logs.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
