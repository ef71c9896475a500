package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

var (
	// These variables are set at build time using -ldflags
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info represents version information.
type Info struct {
	Version   string            `json:"version"`
	GitCommit string            `json:"git_commit,omitempty"`
	BuildTime string            `json:"build_time,omitempty"`
	GoVersion string            `json:"go_version"`
	Module    string            `json:"module,omitempty"`
	IsRelease bool              `json:"is_release"`
	IsDirty   bool              `json:"is_dirty"`
	Deps      map[string]string `json:"deps,omitempty"`
}

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Get returns the version information of the running binary. Deps lists the
// resolved versions of the given module paths, when the binary depends on them.
func Get(deps ...string) *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}

	info.GoVersion = bi.GoVersion
	info.Module = bi.Main.Path
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = shortCommit(setting.Value)
			}
		case "vcs.modified":
			info.IsDirty = setting.Value == "true"
		case "vcs.time":
			if info.BuildTime == "" {
				if _, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					info.BuildTime = setting.Value
				}
			}
		}
	}

	if len(deps) > 0 {
		wanted := make(map[string]bool, len(deps))
		for _, d := range deps {
			wanted[d] = true
		}
		for _, m := range bi.Deps {
			if !wanted[m.Path] {
				continue
			}
			if info.Deps == nil {
				info.Deps = make(map[string]string)
			}
			if m.Replace != nil {
				m = m.Replace
			}
			info.Deps[m.Path] = m.Version
		}
	}
	return info
}

// String returns version, commit and dirty marker, e.g. "1.2.0-a1b2c3d-dirty".
func (i *Info) String() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.IsDirty {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "-")
}

// Full returns String plus build time and Go version when known.
func (i *Info) Full() string {
	s := i.String()
	if i.BuildTime != "" {
		s += fmt.Sprintf(" (built %s)", i.BuildTime)
	}
	if i.GoVersion != "" {
		s += " " + i.GoVersion
	}
	return s
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
