package version

import (
	"runtime/debug"
	"testing"
)

func withBuildInfo(t *testing.T, bi *debug.BuildInfo, ok bool) {
	t.Helper()
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	origRead := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, ok }
	t.Cleanup(func() {
		Version, GitCommit, BuildTime = origVersion, origCommit, origBuildTime
		readBuildInfo = origRead
	})
}

func testBuildInfo() *debug.BuildInfo {
	return &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Main:      debug.Module{Path: "github.com/kbukum/wirekit"},
		Deps: []*debug.Module{
			{Path: "github.com/rs/zerolog", Version: "v1.34.0"},
			{Path: "github.com/spf13/cobra", Version: "v1.10.2"},
			{
				Path:    "github.com/spf13/viper",
				Version: "v1.21.0",
				Replace: &debug.Module{Path: "github.com/spf13/viper", Version: "v1.21.1"},
			},
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "a1b2c3d4e5f6"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}
}

func TestGetDefaults(t *testing.T) {
	withBuildInfo(t, nil, false)
	Version, GitCommit, BuildTime = "dev", "", ""

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev should not be a release")
	}
	if info.String() != "dev" {
		t.Errorf("expected 'dev', got %q", info.String())
	}
}

func TestGetFromBuildInfo(t *testing.T) {
	withBuildInfo(t, testBuildInfo(), true)
	Version, GitCommit, BuildTime = "1.2.0", "", ""

	info := Get("github.com/rs/zerolog", "github.com/spf13/viper", "github.com/gin-gonic/gin")
	if info.GitCommit != "a1b2c3d" {
		t.Errorf("expected short commit, got %q", info.GitCommit)
	}
	if !info.IsDirty {
		t.Error("expected dirty build")
	}
	if info.BuildTime != "2026-01-02T03:04:05Z" {
		t.Errorf("unexpected build time %q", info.BuildTime)
	}
	if info.Module != "github.com/kbukum/wirekit" {
		t.Errorf("unexpected module %q", info.Module)
	}
	if !info.IsRelease {
		t.Error("expected release")
	}
	if got := info.Deps["github.com/rs/zerolog"]; got != "v1.34.0" {
		t.Errorf("expected zerolog v1.34.0, got %q", got)
	}
	if got := info.Deps["github.com/spf13/viper"]; got != "v1.21.1" {
		t.Errorf("expected replaced viper v1.21.1, got %q", got)
	}
	if _, ok := info.Deps["github.com/spf13/cobra"]; ok {
		t.Error("unrequested deps should not be listed")
	}
	if _, ok := info.Deps["github.com/gin-gonic/gin"]; ok {
		t.Error("absent deps should not be listed")
	}
	if info.String() != "1.2.0-a1b2c3d-dirty" {
		t.Errorf("unexpected String %q", info.String())
	}
	if info.Full() != "1.2.0-a1b2c3d-dirty (built 2026-01-02T03:04:05Z) go1.26.0" {
		t.Errorf("unexpected Full %q", info.Full())
	}
}

func TestGetLdflagsWin(t *testing.T) {
	withBuildInfo(t, testBuildInfo(), true)
	Version, GitCommit, BuildTime = "1.2.0-dirty", "feedbee", "2025-12-31T00:00:00Z"

	info := Get()
	if info.GitCommit != "feedbee" {
		t.Errorf("expected ldflags commit, got %q", info.GitCommit)
	}
	if info.BuildTime != "2025-12-31T00:00:00Z" {
		t.Errorf("expected ldflags build time, got %q", info.BuildTime)
	}
	if info.IsRelease {
		t.Error("dirty versions are not releases")
	}
}
