// Package config loads graphvis settings from a TOML file.
//
// Every section is optional; missing keys keep the values of [Default]:
//
//	[layout]
//	mode = "layered"        # or "tree"
//	horizontal_gap = 100
//	vertical_gap = 200
//
//	[query]
//	max_depth = 12
//
//	[prepare]
//	collapse = true
//	drop_isolated = false
//
//	[server]
//	addr = ":8080"
//	session_ttl = "30m"
//	session_backend = "memory"   # or "redis"
//
//	[cache]
//	backend = "file"        # "file", "redis" or "none"
//	dir = ""                # default: user cache dir
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[log]
//	level = "info"
//
// Command-line flags override file values.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/errors"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph/transform"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/layout"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/paths"
)

// FileName is the config file looked up by [Find].
const FileName = "graphvis.toml"

// Layout modes.
const (
	ModeLayered = "layered"
	ModeTree    = "tree"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Session backends.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Duration is a time.Duration written as a Go duration string ("90s", "1h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type LayoutConfig struct {
	Mode          string  `toml:"mode"`
	HorizontalGap float64 `toml:"horizontal_gap"`
	VerticalGap   float64 `toml:"vertical_gap"`
	TreeWidth     float64 `toml:"tree_width"`
}

type QueryConfig struct {
	MaxDepth int `toml:"max_depth"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	SessionTTL     Duration `toml:"session_ttl"`
	SessionBackend string   `toml:"session_backend"`
}

type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Config is the complete application configuration.
type Config struct {
	Layout  LayoutConfig      `toml:"layout"`
	Query   QueryConfig       `toml:"query"`
	Prepare transform.Options `toml:"prepare"`
	Server  ServerConfig      `toml:"server"`
	Cache   CacheConfig       `toml:"cache"`
	Log     LogConfig         `toml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			Mode:          ModeLayered,
			HorizontalGap: layout.DefaultHorizontalGap,
			VerticalGap:   layout.DefaultVerticalGap,
			TreeWidth:     layout.DefaultTreeWidth,
		},
		Query:   QueryConfig{MaxDepth: paths.DefaultMaxDepth},
		Prepare: transform.Options{Collapse: true},
		Server: ServerConfig{
			Addr:           ":8080",
			SessionTTL:     Duration{30 * time.Minute},
			SessionBackend: SessionMemory,
		},
		Cache: CacheConfig{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration{24 * time.Hour},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the TOML file at path on top of [Default] and validates the
// result. Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Find returns the first config file that exists among ./graphvis.toml and
// <user config dir>/graphvis/graphvis.toml, or "" if there is none.
func Find() string {
	candidates := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "graphvis", FileName))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// LoadOrDefault loads path, or the file found by [Find] when path is empty,
// or returns [Default] when there is no file at all.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		path = Find()
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, format, args...)
	}

	if !slices.Contains([]string{ModeLayered, ModeTree}, c.Layout.Mode) {
		return invalid("layout.mode must be %q or %q, got %q", ModeLayered, ModeTree, c.Layout.Mode)
	}
	gaps := []struct {
		name string
		v    float64
	}{
		{"layout.horizontal_gap", c.Layout.HorizontalGap},
		{"layout.vertical_gap", c.Layout.VerticalGap},
		{"layout.tree_width", c.Layout.TreeWidth},
	}
	for _, g := range gaps {
		if g.v < 0 || math.IsNaN(g.v) || math.IsInf(g.v, 0) {
			return invalid("%s must be a non-negative finite number, got %v", g.name, g.v)
		}
	}
	if c.Query.MaxDepth < 0 {
		return invalid("query.max_depth must not be negative, got %d", c.Query.MaxDepth)
	}
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return invalid("cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return invalid("cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL.Duration < 0 {
		return invalid("cache.ttl must not be negative")
	}
	if !slices.Contains([]string{SessionMemory, SessionRedis}, c.Server.SessionBackend) {
		return invalid("server.session_backend must be memory or redis, got %q", c.Server.SessionBackend)
	}
	if c.Server.SessionTTL.Duration <= 0 {
		return invalid("server.session_ttl must be positive")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	return nil
}

// LayoutOptions returns the options for [layout.Layered].
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{HorizontalGap: c.Layout.HorizontalGap, VerticalGap: c.Layout.VerticalGap}
}

// TreeOptions returns the options for [layout.Tree].
func (c Config) TreeOptions() layout.TreeOptions {
	return layout.TreeOptions{
		Width:       c.Layout.TreeWidth,
		VerticalGap: c.Layout.VerticalGap,
		FallbackGap: c.Layout.HorizontalGap,
	}
}

// QueryOptions returns the options for [paths.Query].
func (c Config) QueryOptions() paths.Options {
	return paths.Options{MaxDepth: c.Query.MaxDepth}
}

// LogLevel returns the parsed log level, or info if it does not parse.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func (c Config) String() string {
	return fmt.Sprintf("layout=%s(%g,%g) max_depth=%d cache=%s", c.Layout.Mode,
		c.Layout.HorizontalGap, c.Layout.VerticalGap, c.Query.MaxDepth, c.Cache.Backend)
}
