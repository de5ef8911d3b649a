package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/observability"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Options select and configure a backend.
type Options struct {
	Backend   string
	Dir       string // file backend; empty means DefaultDir
	RedisAddr string // redis backend
}

// Open returns the cache described by opts, wrapped with observability
// hooks. An empty backend means "file".
func Open(ctx context.Context, opts Options) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch opts.Backend {
	case "", BackendFile:
		dir := opts.Dir
		if dir == "" {
			if dir, err = DefaultDir(); err != nil {
				return NewNullCache(), nil
			}
		}
		c, err = NewFileCache(dir)
	case BackendRedis:
		c, err = NewRedisCache(ctx, opts.RedisAddr)
	case BackendNone:
		c = NewNullCache()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(c), nil
}

// Instrument reports hits, misses and writes of c to the registered
// observability.CacheHooks. The key type is the kind segment of the key
// ("render", "layout", "query").
func Instrument(c Cache) Cache {
	if _, ok := c.(*instrumented); ok {
		return c
	}
	return &instrumented{Cache: c}
}

// Unwrap returns the backend below any instrumentation.
func Unwrap(c Cache) Cache {
	if i, ok := c.(*instrumented); ok {
		return i.Cache
	}
	return c
}

type instrumented struct {
	Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err != nil {
		return data, ok, err
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, keyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType(key))
	}
	return data, ok, nil
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

// keyType extracts "render" from "[scope:]render:<hash>".
func keyType(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i < 0 {
		return "unknown"
	}
	kind := key[:i]
	if j := strings.LastIndexByte(kind, ':'); j >= 0 {
		kind = kind[j+1:]
	}
	return kind
}
