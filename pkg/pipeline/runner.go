package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/cache"
	pkgio "github.com/KubrakovDmitry/the-graph-visualizer/pkg/io"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/layout"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/observability"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/paths"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and servers use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. It never
// mutates a graph outside of Prepare, so several goroutines may use one
// Runner on one graph as long as nobody prepares it concurrently.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs ingest → prepare → layout → query → render on the file at path.
// Query runs only when opts.Highlight is set, render only when opts.Format is.
func (r *Runner) Execute(ctx context.Context, path string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	res := &Result{}

	start := time.Now()
	g, rep, err := r.IngestFile(ctx, path)
	if err != nil {
		return nil, err
	}
	res.Graph, res.Report = g, rep
	res.Stats.IngestTime = time.Since(start)

	start = time.Now()
	res.Prepared = r.Prepare(ctx, g, opts)
	res.Stats.PrepareTime = time.Since(start)
	res.GraphHash = GraphHash(g)

	return res, r.finish(ctx, res, opts)
}

// ExecuteGraph runs layout → query → render on an already prepared graph.
func (r *Runner) ExecuteGraph(ctx context.Context, g *kgraph.Graph, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	res := &Result{Graph: g, GraphHash: GraphHash(g)}
	return res, r.finish(ctx, res, opts)
}

func (r *Runner) finish(ctx context.Context, res *Result, opts Options) error {
	g := res.Graph

	start := time.Now()
	res.Layout = r.layout(ctx, g, opts)
	res.Stats.LayoutTime = time.Since(start)

	if opts.Highlight != "" {
		start = time.Now()
		pr := r.Query(ctx, g, opts.Highlight, opts.Query)
		hs := paths.Highlight(g, pr)
		res.Paths, res.Highlight = &pr, &hs
		res.Stats.QueryTime = time.Since(start)
	}

	if opts.Format != "" {
		start = time.Now()
		out, hit, err := r.renderWithHash(ctx, g, res.GraphHash, res.Layout, res.Highlight, opts)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		res.Artifact = out
		res.Stats.RenderTime = time.Since(start)
		res.CacheInfo.RenderHit = hit
	}
	return nil
}

// =============================================================================
// Layout
// =============================================================================

// Layout computes the layout of g selected by opts. Positions are never
// cached: every call lays out the graph as it is now.
func (r *Runner) Layout(ctx context.Context, g *kgraph.Graph, opts Options) (layout.Layout, error) {
	if err := opts.Validate(); err != nil {
		return layout.Layout{}, err
	}
	return r.layout(ctx, g, opts), nil
}

func (r *Runner) layout(ctx context.Context, g *kgraph.Graph, opts Options) layout.Layout {
	start := time.Now()
	l := ComputeLayout(g, opts)
	observability.Pipeline().OnLayout(ctx, opts.LayoutKeyOpts().Mode, l.Len(), time.Since(start))
	if len(l.Fallback) > 0 {
		r.Logger.Warn("nodes placed in fallback column", "count", len(l.Fallback))
	}
	return l
}

// ComputeLayout runs the layout selected by opts.
func ComputeLayout(g *kgraph.Graph, opts Options) layout.Layout {
	if opts.IsTree() {
		return layout.Tree(g, opts.Root, opts.Tree)
	}
	return layout.Layered(g, opts.Layered)
}

// =============================================================================
// Query
// =============================================================================

// Query enumerates the root paths through node. Results are computed per
// call and never stored.
func (r *Runner) Query(ctx context.Context, g *kgraph.Graph, node string, opts paths.Options) paths.Result {
	start := time.Now()
	res := paths.Query(g, node, opts)
	observability.Pipeline().OnQuery(ctx, node, len(res.Ancestors), len(res.Descendants), time.Since(start))
	r.Logger.Debug("queried paths", "node", node, "ancestors", len(res.Ancestors), "descendants", len(res.Descendants))
	return res
}

// =============================================================================
// Render
// =============================================================================

// Render draws g with layout l in opts.Format. Drawings without a highlight
// are cached; highlighted drawings and layout documents are always produced
// fresh.
func (r *Runner) Render(ctx context.Context, g *kgraph.Graph, l layout.Layout, hs *paths.HighlightSet, opts Options) ([]byte, bool, error) {
	return r.renderWithHash(ctx, g, GraphHash(g), l, hs, opts)
}

func (r *Runner) renderWithHash(ctx context.Context, g *kgraph.Graph, hash string, l layout.Layout, hs *paths.HighlightSet, opts Options) ([]byte, bool, error) {
	cacheable := (hs == nil || hs.Empty()) && opts.Format != FormatJSON
	key := r.Keyer.RenderKey(hash, opts.RenderKeyOpts())
	if cacheable && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return data, true, nil
		}
	}

	start := time.Now()
	out, err := r.draw(ctx, g, l, hs, opts)
	observability.Pipeline().OnRender(ctx, opts.Format, len(out), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Info("rendered graph", "format", opts.Format, "bytes", len(out), "duration", time.Since(start))

	if cacheable {
		r.store(ctx, key, out, opts)
	}
	return out, false, nil
}

func (r *Runner) draw(ctx context.Context, g *kgraph.Graph, l layout.Layout, hs *paths.HighlightSet, opts Options) ([]byte, error) {
	if opts.Format == FormatJSON {
		var buf bytes.Buffer
		if err := pkgio.WriteLayoutJSON(&buf, g, l, hs); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	ro := render.Options{Highlight: hs}
	if !opts.Unpinned {
		ro.Layout = &l
	}
	return render.Render(ctx, g, opts.Format, ro)
}

// =============================================================================
// Helpers
// =============================================================================

func (r *Runner) store(ctx context.Context, key string, data []byte, opts Options) {
	if err := r.Cache.Set(ctx, key, data, opts.ttl()); err != nil {
		r.Logger.Debug("cache write failed", "err", err)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
