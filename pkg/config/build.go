package config

var (
	// Version of the release (filled at build time with -ldflags)
	Version = "unreleased"
	// BuildTime is ISO-8601 UTC string representation of the time of
	// the build
	BuildTime string
	// BuildMode is the build mode of the release. Should be either
	// production or development.
	BuildMode = "development"
)
