// Package version exposes build metadata injected via ldflags.
package version

import "runtime"

// Set at build time:
//
//	go build -ldflags "-X .../internal/version.version=v1.2.3 ..."
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Info is the build metadata served on the version endpoint.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information baked into the binary.
func Get() Info {
	return Info{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}
