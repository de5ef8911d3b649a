// Package pipeline runs the graph stages shared by the CLI, the HTTP server
// and the MCP server.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Ingest: decode a nodes/links document into a graph, collecting diagnostics
//  2. Prepare: collapse same-category chains and drop isolated nodes
//  3. Layout: compute layered or tree positions
//  4. Query: enumerate root paths through a node and build its highlight set
//  5. Render: produce DOT, SVG, PNG or PDF
//
// Layouts and path queries are recomputed on every call. Only rendered
// artifacts without a highlight are cached, under keys derived from a
// content hash of the prepared graph and the layout settings.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.FromConfig(cfg)
//	opts.Format = pipeline.FormatSVG
//	res, err := runner.Execute(ctx, "interactions.json", opts)
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("out.svg", res.Artifact, 0o644)
package pipeline

import (
	"math"
	"time"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/cache"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/config"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/errors"
	pkgio "github.com/KubrakovDmitry/the-graph-visualizer/pkg/io"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph/transform"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/layout"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/paths"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

// Layout modes.
const (
	ModeLayered = config.ModeLayered
	ModeTree    = config.ModeTree
)

// Output formats. FormatJSON is the positioned-graph document.
const (
	FormatSVG  = render.FormatSVG
	FormatDOT  = render.FormatDOT
	FormatPNG  = render.FormatPNG
	FormatPDF  = render.FormatPDF
	FormatJSON = "json"
)

// ValidFormats lists every format Execute can produce.
var ValidFormats = []string{FormatSVG, FormatDOT, FormatPNG, FormatPDF, FormatJSON}

// DefaultCacheTTL is used when Options.CacheTTL is zero.
const DefaultCacheTTL = 24 * time.Hour

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	Prepare transform.Options  `json:"prepare"`
	Mode    string             `json:"mode"`
	Layered layout.Options     `json:"layered"`
	Tree    layout.TreeOptions `json:"tree"`
	// Root is the tree layout root. Empty means the first root.
	Root  string        `json:"root,omitempty"`
	Query paths.Options `json:"query"`

	// Highlight names the node whose root paths are emphasized in renders.
	Highlight string `json:"highlight,omitempty"`
	// Format is the output format for Execute. Empty skips rendering.
	Format string `json:"format,omitempty"`
	// Unpinned lets graphviz place nodes instead of using the layout.
	Unpinned bool `json:"unpinned,omitempty"`

	CacheTTL time.Duration `json:"-"`
	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"-"`
}

// DefaultOptions returns the options of config.Default.
func DefaultOptions() Options {
	return FromConfig(config.Default())
}

// FromConfig maps a loaded configuration onto pipeline options.
func FromConfig(cfg config.Config) Options {
	return Options{
		Prepare:  cfg.Prepare,
		Mode:     cfg.Layout.Mode,
		Layered:  cfg.LayoutOptions(),
		Tree:     cfg.TreeOptions(),
		Query:    cfg.QueryOptions(),
		CacheTTL: cfg.Cache.TTL.Duration,
	}
}

// Validate checks the mode, format and highlight node ID.
func (o Options) Validate() error {
	switch o.Mode {
	case "", ModeLayered, ModeTree:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown layout mode %q (want %s or %s)", o.Mode, ModeLayered, ModeTree)
	}
	if o.Format != "" {
		if err := errors.ValidateFormat(o.Format, ValidFormats...); err != nil {
			return err
		}
	}
	if o.Highlight != "" {
		if err := errors.ValidateNodeID(o.Highlight); err != nil {
			return err
		}
	}
	if o.Query.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max depth must not be negative")
	}
	for _, v := range []float64{o.Layered.HorizontalGap, o.Layered.VerticalGap, o.Tree.Width, o.Tree.VerticalGap, o.Tree.FallbackGap} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "layout spacing must be finite, got %v", v)
		}
	}
	return nil
}

// IsTree reports whether the tree layout is selected.
func (o Options) IsTree() bool { return o.Mode == ModeTree }

func (o Options) ttl() time.Duration {
	if o.CacheTTL > 0 {
		return o.CacheTTL
	}
	return DefaultCacheTTL
}

// LayoutKeyOpts returns the layout settings that go into render keys.
func (o Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	if o.IsTree() {
		t := o.Tree
		return cache.LayoutKeyOpts{
			Mode: ModeTree, HorizontalGap: t.FallbackGap, VerticalGap: t.VerticalGap,
			TreeWidth: t.Width, Root: o.Root,
		}
	}
	l := o.Layered.WithDefaults()
	return cache.LayoutKeyOpts{Mode: ModeLayered, HorizontalGap: l.HorizontalGap, VerticalGap: l.VerticalGap}
}

// RenderKeyOpts returns the render settings that go into cache keys.
func (o Options) RenderKeyOpts() cache.RenderKeyOpts {
	k := cache.RenderKeyOpts{Format: o.Format, Layout: o.LayoutKeyOpts()}
	if o.Unpinned {
		k.Layout = cache.LayoutKeyOpts{Mode: "graphviz"}
	}
	return k
}

// =============================================================================
// Result
// =============================================================================

// Result holds every stage's output of Execute.
type Result struct {
	Graph     *kgraph.Graph
	Report    pkgio.Report
	Prepared  transform.Result
	Layout    layout.Layout
	Paths     *paths.Result
	Highlight *paths.HighlightSet
	Artifact  []byte
	GraphHash string
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records stage durations.
type Stats struct {
	IngestTime  time.Duration
	PrepareTime time.Duration
	LayoutTime  time.Duration
	QueryTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	RenderHit bool
}
