// Package version reports the entity-audit build.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at release time via -ldflags "-X". Left unset, the values recorded by
// the Go toolchain in the binary are used instead.
var (
	Version   = ""
	Commit    = ""
	BuildTime = ""
)

// Info is the resolved build description.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	Modified  bool
}

// Get resolves the build description from ldflags, falling back to the
// module version and VCS stamps of the running binary.
func Get() Info {
	bi, _ := debug.ReadBuildInfo()
	return resolve(bi)
}

func resolve(bi *debug.BuildInfo) Info {
	info := Info{Version: Version, Commit: Commit, BuildTime: BuildTime}
	if bi != nil {
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.BuildTime == "" {
		info.BuildTime = "unknown"
	}
	return info
}

// String returns the version line shown by --version.
func String() string {
	return Get().String()
}

func (i Info) String() string {
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if i.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", i.Version, commit, i.BuildTime)
}
