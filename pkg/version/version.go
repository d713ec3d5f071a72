// Package version provides the unused-import analyzer's own version string.
package version

// Version is the tool's version.
// Can be overridden at build time with:
//   go build -ldflags "-X github.com/cmyui/remove-unused-imports-py/pkg/version.Version=2.0.1"
var Version = "dev"
