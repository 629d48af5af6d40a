// Package version provides build version information.
// The values can be set at build time using ldflags:
//
//	go build -ldflags "-X github.com/Noor7086/Obyyo-sub002/internal/version.Version=v1.2.3 -X github.com/Noor7086/Obyyo-sub002/internal/version.Commit=abc123"
package version

import "runtime"

// Set at build time. Version defaults to "dev".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Service   string `json:"service"`
}

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}

// Get returns the full build information.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Service:   "obyyo",
	}
}
