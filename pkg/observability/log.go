package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level entries
// to a charmbracelet logger. It is what `graphvis -v` registers.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks logging to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

func (h *LogHooks) OnIngest(_ context.Context, source string, nodes, dropped int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("ingest failed", "source", source, "err", err, "took", d)
		return
	}
	h.Logger.Debug("ingest", "source", source, "nodes", nodes, "dropped", dropped, "took", d)
}

func (h *LogHooks) OnPrepare(_ context.Context, collapsed, removed int, d time.Duration) {
	h.Logger.Debug("prepare", "collapsed", collapsed, "isolated", removed, "took", d)
}

func (h *LogHooks) OnLayout(_ context.Context, mode string, nodes int, d time.Duration) {
	h.Logger.Debug("layout", "mode", mode, "nodes", nodes, "took", d)
}

func (h *LogHooks) OnQuery(_ context.Context, node string, ancestors, descendants int, d time.Duration) {
	h.Logger.Debug("query", "node", node, "ancestors", ancestors, "descendants", descendants, "took", d)
}

func (h *LogHooks) OnRender(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("render failed", "format", format, "err", err, "took", d)
		return
	}
	h.Logger.Debug("render", "format", format, "bytes", size, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "route", route, "status", status, "took", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
