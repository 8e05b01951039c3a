package buildinfo

var (
	// Version will be set via ldflags during build, e.g.
	// -ldflags "-X github.com/fintrack-dev/fintrack/internal/buildinfo.Version=v0.3.0".
	Version = "dev"
	// Commit will be set via ldflags during build.
	Commit = "none"
	// Date will be set via ldflags during build.
	Date = "unknown"
)
