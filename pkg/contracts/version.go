package contracts

import (
	"fmt"
	"runtime"
)

// APIVersion is the version of the JSON API and the WebSocket messages.
const APIVersion = "v1"

// Set with -ldflags "-X floorcheck/pkg/contracts.Version=..." at build time.
var (
	Version   = "dev"
	BuildTime = ""
	GitCommit = ""
)

// VersionInfo is the build description served by /api/health/version.
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time,omitempty"`
	GitCommit    string `json:"git_commit,omitempty"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	APIVersion   string `json:"api_version"`
}

// GetVersionInfo returns the version of the running binary.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		APIVersion:   APIVersion,
	}
}

// VersionString is the one-line form printed by floorcheck --version.
func VersionString() string {
	s := Version
	if GitCommit != "" {
		s += " (" + GitCommit + ")"
	}
	return fmt.Sprintf("%s %s/%s", s, runtime.GOOS, runtime.GOARCH)
}

// IsDevelopment reports whether the binary was built without a release version.
func IsDevelopment() bool {
	return Version == "dev"
}
