package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/observability"
)

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "render:a"); hit || err != nil {
		t.Fatalf("Get on empty cache = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "render:a", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "render:a")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "render:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "render:a"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "render:a"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}

	// zero ttl never expires
	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl missing")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry = hit %v, err %v; want clean miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry not removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d files, want 3", n)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("cache dir removed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir not empty: %v", entries)
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q", c.Dir())
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("DefaultDir() = %q", dir)
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets []string
}

func (h *countingHooks) OnCacheHit(_ context.Context, kind string)  { h.hits = append(h.hits, kind) }
func (h *countingHooks) OnCacheMiss(_ context.Context, kind string) { h.misses = append(h.misses, kind) }
func (h *countingHooks) OnCacheSet(_ context.Context, kind string, _ int) {
	h.sets = append(h.sets, kind)
}

func TestOpenInstrumented(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	c, err := Open(ctx, Options{Backend: BackendFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := Unwrap(c).(*FileCache); !ok {
		t.Fatalf("Unwrap(Open(file)) = %T", Unwrap(c))
	}

	key := DefaultKeyer{Prefix: "ws:"}.RenderKey("h", RenderKeyOpts{Format: "svg"})
	_, _, _ = c.Get(ctx, key)
	_ = c.Set(ctx, key, []byte("x"), 0)
	_, _, _ = c.Get(ctx, key)

	if len(hooks.misses) != 1 || len(hooks.sets) != 1 || len(hooks.hits) != 1 {
		t.Fatalf("hooks = %+v", hooks)
	}
	if hooks.hits[0] != "render" {
		t.Errorf("key type = %q, want render", hooks.hits[0])
	}
}

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Options{Backend: BackendNone})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := Unwrap(c).(NullCache); !ok {
		t.Errorf("none backend = %T", Unwrap(c))
	}

	if _, err := Open(ctx, Options{Backend: "s3"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(s3) = %v, want ErrUnknownBackend", err)
	}
}

func TestKeyType(t *testing.T) {
	tests := map[string]string{
		"render:abc":         "render",
		"ws:1:layout:abc":    "layout",
		"nocolon":            "unknown",
		"graphvis:query:abc": "query",
	}
	for key, want := range tests {
		if got := keyType(key); got != want {
			t.Errorf("keyType(%q) = %q, want %q", key, got, want)
		}
	}
}
