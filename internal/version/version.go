// Package version holds build metadata injected with -ldflags.
package version

// Version is overridden at build time with -ldflags "-X github.com/bnema/notebook-runner-cli/internal/version.Version=...".
var Version = "dev"
