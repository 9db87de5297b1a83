// Package version provides build-time version information.
package version

// Set at build time with
// -ldflags "-X smartdip/internal/version.Version=... -X smartdip/internal/version.BuildTime=... -X smartdip/internal/version.GitCommit=..."
var (
	// Version is the semantic version
	Version = "0.1.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)
