// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline stages, cache operations, and served HTTP
// requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the graph packages
// stay free of any metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	g, rep, err := io.ReadJSON(r)
//	observability.Pipeline().OnIngest(ctx, source, rep.Nodes, len(rep.DroppedEdges()), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the graph pipeline. Each method is
// called once a stage has finished.
type PipelineHooks interface {
	OnIngest(ctx context.Context, source string, nodes, dropped int, duration time.Duration, err error)
	OnPrepare(ctx context.Context, collapsed, removed int, duration time.Duration)
	OnLayout(ctx context.Context, mode string, nodes int, duration time.Duration)
	OnQuery(ctx context.Context, node string, ancestors, descendants int, duration time.Duration)
	OnRender(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// CacheHooks receives cache events. keyType is the kind of entry:
// "layout", "query" or "render".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP server. route is the matched
// route pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// The Noop hooks are installed until a Set function replaces them.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnIngest(context.Context, string, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnPrepare(context.Context, int, int, time.Duration)               {}
func (NoopPipelineHooks) OnLayout(context.Context, string, int, time.Duration)             {}
func (NoopPipelineHooks) OnQuery(context.Context, string, int, int, time.Duration)         {}
func (NoopPipelineHooks) OnRender(context.Context, string, int, time.Duration, error)      {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

// slot holds the registered implementation of one hook interface.
type slot[T any] struct {
	mu   sync.RWMutex
	cur  T
	noop T
}

func newSlot[T any](noop T) *slot[T] {
	return &slot[T]{cur: noop, noop: noop}
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// set ignores a nil h.
func (s *slot[T]) set(h T) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.noop
	s.mu.Unlock()
}

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot     = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetPipelineHooks registers h for pipeline events. Call it at startup,
// before any graph is processed. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }

// SetCacheHooks registers h for cache events.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetHTTPHooks registers h for HTTP events.
func SetHTTPHooks(h HTTPHooks) { httpSlot.set(h) }

func Pipeline() PipelineHooks { return pipelineSlot.get() }
func Cache() CacheHooks       { return cacheSlot.get() }
func HTTP() HTTPHooks         { return httpSlot.get() }

// Reset restores the no-op hooks. Tests call it in cleanup.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
