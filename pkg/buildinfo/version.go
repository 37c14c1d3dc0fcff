// Package buildinfo reports the archmind version.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/Arch-Mind/frontend-sub001/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/Arch-Mind/frontend-sub001/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/archmind
//
// Development builds fall back to the VCS stamp recorded by the Go toolchain.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the resolved build metadata.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Modified  bool   `json:"modified,omitempty"`
}

// Get returns the ldflags values, filling unset commit and date from the
// embedded VCS settings.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	return info
}

// ShortCommit returns the first 12 characters of the commit.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 12 {
		return i.Commit[:12]
	}
	return i.Commit
}

// String returns the formatted build information.
func String() string {
	i := Get()
	dirty := ""
	if i.Modified {
		dirty = " (modified)"
	}
	return fmt.Sprintf("version: %s\ncommit: %s%s\nbuilt: %s\ngo: %s", i.Version, i.ShortCommit(), dirty, i.Date, i.GoVersion)
}

// Template returns the version template string for cobra.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", i.Version, i.ShortCommit(), i.Date)
}
