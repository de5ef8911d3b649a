package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/cache"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/errors"
	pkgio "github.com/KubrakovDmitry/the-graph-visualizer/pkg/io"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph/transform"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/observability"
)

// =============================================================================
// Ingest
// =============================================================================

// Ingest decodes a graph document from r. source names the input in logs.
// Dropped links are logged at warn level, other diagnostics at debug.
func (r *Runner) Ingest(ctx context.Context, rd io.Reader, source string) (*kgraph.Graph, pkgio.Report, error) {
	start := time.Now()
	g, rep, err := pkgio.ReadJSON(rd)
	observability.Pipeline().OnIngest(ctx, source, rep.Nodes, len(rep.DroppedEdges()), time.Since(start), err)
	if err != nil {
		return nil, rep, errors.Wrap(errors.ErrCodeInvalidGraph, err, "ingest %s", source)
	}

	for _, d := range rep.Diagnostics {
		if d.Kind == pkgio.KindDroppedEdge {
			r.Logger.Warn("dropped link", "source", d.Source, "target", d.Target, "reason", d.Reason)
		} else {
			r.Logger.Debug(string(d.Kind), "index", d.Index, "node", d.NodeID, "reason", d.Reason)
		}
	}
	r.Logger.Info("ingested graph",
		"source", source,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"dropped", len(rep.DroppedEdges()))
	return g, rep, nil
}

// IngestFile validates path and ingests the file it names.
func (r *Runner) IngestFile(ctx context.Context, path string) (*kgraph.Graph, pkgio.Report, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, pkgio.Report{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		code := errors.ErrCodeInvalidPath
		if os.IsNotExist(err) {
			code = errors.ErrCodeNotFound
		}
		return nil, pkgio.Report{}, errors.Wrap(code, err, "open %s", path)
	}
	defer f.Close()
	return r.Ingest(ctx, f, path)
}

// =============================================================================
// Prepare
// =============================================================================

// Prepare applies opts.Prepare to g in place.
func (r *Runner) Prepare(ctx context.Context, g *kgraph.Graph, opts Options) transform.Result {
	start := time.Now()
	res := transform.Prepare(g, opts.Prepare)
	observability.Pipeline().OnPrepare(ctx, res.Collapsed(), len(res.Isolated), time.Since(start))

	if len(res.Chains) > 0 || len(res.Isolated) > 0 {
		r.Logger.Info("prepared graph",
			"chains", len(res.Chains),
			"collapsed", res.Collapsed(),
			"isolated", len(res.Isolated),
			"nodes", res.NodesAfter)
	}
	for _, c := range res.Chains {
		r.Logger.Debug("collapsed chain", "into", c.Last(), "nodes", len(c))
	}
	return res
}

// GraphHash returns the content hash used in cache keys: the SHA-256 of the
// exported document, so it changes whenever a node, edge or title does.
func GraphHash(g *kgraph.Graph) string {
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(g, &buf); err != nil {
		return ""
	}
	return cache.Hash(buf.Bytes())
}
