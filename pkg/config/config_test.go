package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[layout]
mode = "tree"
horizontal_gap = 80

[query]
max_depth = 4

[prepare]
drop_isolated = true

[server]
session_ttl = "5m"

[cache]
backend = "none"
ttl = "90s"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Layout.Mode != ModeTree || cfg.Layout.HorizontalGap != 80 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.VerticalGap != 200 {
		t.Errorf("vertical_gap default lost: %v", cfg.Layout.VerticalGap)
	}
	if cfg.QueryOptions().MaxDepth != 4 {
		t.Errorf("max_depth = %d", cfg.Query.MaxDepth)
	}
	if !cfg.Prepare.Collapse || !cfg.Prepare.DropIsolated {
		t.Errorf("prepare = %+v, want collapse kept and drop_isolated set", cfg.Prepare)
	}
	if cfg.Server.SessionTTL.Duration != 5*time.Minute || cfg.Cache.TTL.Duration != 90*time.Second {
		t.Errorf("durations = %v, %v", cfg.Server.SessionTTL, cfg.Cache.TTL)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("LogLevel() = %v", cfg.LogLevel())
	}
	if got := cfg.TreeOptions(); got.FallbackGap != 80 || got.Width != 1000 {
		t.Errorf("TreeOptions() = %+v", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[layout\nmode=", "read config"},
		{"unknown key", "[layout]\nmdoe = \"tree\"\n", "unknown keys: layout.mdoe"},
		{"bad mode", "[layout]\nmode = \"radial\"\n", "layout.mode"},
		{"negative depth", "[query]\nmax_depth = -1\n", "max_depth"},
		{"nan gap", "[layout]\nhorizontal_gap = nan\n", "layout.horizontal_gap"},
		{"infinite width", "[layout]\ntree_width = inf\n", "layout.tree_width"},
		{"negative gap", "[layout]\nvertical_gap = -5.0\n", "layout.vertical_gap"},
		{"bad duration", "[cache]\nttl = \"soon\"\n", "read config"},
		{"bad backend", "[cache]\nbackend = \"s3\"\n", "cache.backend"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\nredis_addr = \"\"\n", "redis_addr"},
		{"bad level", "[log]\nlevel = \"chatty\"\n", "log.level"},
		{"zero ttl", "[server]\nsession_ttl = \"0s\"\n", "session_ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want INVALID_CONFIG", errors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.Mode != ModeLayered {
		t.Errorf("got %+v, want defaults", cfg.Layout)
	}

	if err := os.WriteFile(FileName, []byte("[query]\nmax_depth = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadOrDefault("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Query.MaxDepth != 3 {
		t.Errorf("max_depth = %d, want 3 from ./%s", cfg.Query.MaxDepth, FileName)
	}
}
