// Package version reports build information for the zkcommit binary.
package version

import (
	"runtime"
	"runtime/debug"
)

// Service is the name reported by meta endpoints and the CLI
const Service = "zkcommit"

// BuildInfo holds version information about the build.
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// Set via -ldflags "-X 'zkcommit/internal/core/version.version=v0.1.0'
// -X 'zkcommit/internal/core/version.commit=abcd' -X 'zkcommit/internal/core/version.date=2026-01-02'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// readBuild is a seam for tests
var readBuild = debug.ReadBuildInfo

// Info returns the build information. Unset ldflags fall back to the vcs
// stamp the toolchain embeds, when present.
func Info() BuildInfo {
	bi := BuildInfo{
		Service:   Service,
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
	}
	info, ok := readBuild()
	if !ok {
		return bi
	}
	if bi.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		bi.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if bi.Commit == "none" {
				bi.Commit = s.Value
			}
		case "vcs.time":
			if bi.Date == "unknown" {
				bi.Date = s.Value
			}
		}
	}
	return bi
}
