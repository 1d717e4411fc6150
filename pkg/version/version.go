// Package version holds build metadata for the typst-intern binary.
package version

import (
	"runtime/debug"
)

// Unknown is reported for metadata the build did not record.
const Unknown = "<unknown>"

// BinaryVersion is the release version, set with -ldflags "-X".
var BinaryVersion = "dev"

// BinaryGitHash is the Git hash of the typst-intern binary which is executing.
var BinaryGitHash = Unknown

// Info is a snapshot of the build metadata.
type Info struct {
	Version   string `json:"version"   yaml:"version"`
	GitHash   string `json:"git_hash"  yaml:"git_hash"`
	GoVersion string `json:"go"        yaml:"go"`
	Dirty     bool   `json:"dirty"     yaml:"dirty"`
}

// Get returns the build metadata, filling what ldflags left unset from the
// module build info embedded by the Go toolchain.
func Get() Info {
	info := Info{Version: BinaryVersion, GitHash: BinaryGitHash, GoVersion: Unknown}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	return fromBuildInfo(info, bi)
}

func fromBuildInfo(info Info, bi *debug.BuildInfo) Info {
	info.GoVersion = bi.GoVersion

	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitHash == Unknown {
				info.GitHash = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}

	return info
}
