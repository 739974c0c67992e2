// Package buildinfo reports which revision of the tools produced a result
// file, so that output workbooks can be traced back to the code.
package buildinfo

import (
	"fmt"
	"path"
	"runtime/debug"
)

type Info struct {
	Tool      string
	GoVersion string
	Revision  string
	Time      string
	Dirty     bool
}

func (i Info) String() string {
	if i.Tool == "" {
		return "build information unavailable"
	}

	rev := i.Revision
	if rev == "" {
		rev = "unknown revision"
	}
	if i.Dirty {
		rev += " (modified)"
	}

	out := fmt.Sprintf("%s built with %s from %s", i.Tool, i.GoVersion, rev)
	if i.Time != "" {
		out += " at " + i.Time
	}

	return out
}

// Read returns the build information embedded in the running binary.
func Read() Info {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{}
	}

	return fromBuildInfo(bi)
}

func fromBuildInfo(bi *debug.BuildInfo) Info {
	out := Info{
		Tool:      path.Base(bi.Path),
		GoVersion: bi.GoVersion,
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Revision = s.Value
		case "vcs.time":
			out.Time = s.Value
		case "vcs.modified":
			out.Dirty = s.Value == "true"
		}
	}

	return out
}
