// Package buildinfo reports build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/dmitrijs2005/sessionguard/internal/buildinfo.Version=v1.2.0"
package buildinfo

import (
	"fmt"
	"io"
	"runtime/debug"
)

var (
	Version = ""
	Date    = ""
	Commit  = ""
)

const na = "N/A"

// Data returns version, date and commit. Missing values fall back to the
// module build info, then to "N/A".
func Data() (version, date, commit string) {
	version, date, commit = Version, Date, Commit

	if bi, ok := debug.ReadBuildInfo(); ok {
		if version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if commit == "" {
					commit = s.Value
				}
			case "vcs.time":
				if date == "" {
					date = s.Value
				}
			}
		}
	}

	if version == "" {
		version = na
	}
	if date == "" {
		date = na
	}
	if commit == "" {
		commit = na
	}
	return version, date, commit
}

// PrintBuildData writes the build metadata to w, one field per line.
func PrintBuildData(w io.Writer) {
	version, date, commit := Data()
	fmt.Fprintf(w, "Build version: %s\n", version)
	fmt.Fprintf(w, "Build date: %s\n", date)
	fmt.Fprintf(w, "Build commit: %s\n", commit)
}
