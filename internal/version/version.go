// Package version holds the CLI version string.
package version

// Version is overridable at build time:
//
//	go build -ldflags "-X github.com/docbridge/docbridge/internal/version.Version=1.2.3"
var Version = "0.1.0-dev"
