// Package mcpserver exposes a loaded knowledge graph to MCP clients: path
// queries, shortest root paths, statistics and layouts as tools, and the
// graph document itself as a resource.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/buildinfo"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/errors"
	pkgio "github.com/KubrakovDmitry/the-graph-visualizer/pkg/io"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/paths"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/pipeline"
)

// GraphURI names the graph document resource.
const GraphURI = "graphvis://graph"

// Server answers tool calls against one prepared graph.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   pipeline.Options

	mu     sync.RWMutex
	g      *kgraph.Graph
	source string
}

// New wraps a prepared graph loaded from source.
func New(runner *pipeline.Runner, g *kgraph.Graph, source string, logger *log.Logger, opts pipeline.Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger, opts: opts, g: g, source: source}
}

// ReloadFile re-reads and prepares the graph from path.
func (s *Server) ReloadFile(ctx context.Context, path string) error {
	g, _, err := s.runner.IngestFile(ctx, path)
	if err != nil {
		return err
	}
	s.runner.Prepare(ctx, g, s.opts)
	s.mu.Lock()
	s.g, s.source = g, path
	s.mu.Unlock()
	return nil
}

// MCP builds the MCP server with all tools and resources registered.
func (s *Server) MCP() *mcp.Server {
	m := mcp.NewServer(&mcp.Implementation{
		Name:    "graphvis",
		Version: buildinfo.Version,
	}, &mcp.ServerOptions{})

	mcp.AddTool(m, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Node, edge, root and level counts of the loaded graph",
	}, s.graphStats)

	mcp.AddTool(m, &mcp.Tool{
		Name:        "query_paths",
		Description: "All root paths leading to a node and all paths leaving it",
	}, s.queryPaths)

	mcp.AddTool(m, &mcp.Tool{
		Name:        "shortest_path",
		Description: "Shortest path from any root to a node",
	}, s.shortestPath)

	mcp.AddTool(m, &mcp.Tool{
		Name:        "layout",
		Description: "Node coordinates in the layered or tree layout",
	}, s.layout)

	m.AddResource(&mcp.Resource{
		Name:     "graph",
		URI:      GraphURI,
		MIMEType: "application/json",
	}, s.graphResource)

	return m
}

// Run serves over stdio until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Debug("mcp server starting", "source", s.source)
	return s.MCP().Run(ctx, &mcp.StdioTransport{})
}

// =============================================================================
// Tool inputs
// =============================================================================

// StatsInput takes no arguments.
type StatsInput struct{}

// NodeInput names the node a query is about.
type NodeInput struct {
	Node     string `json:"node" jsonschema:"ID of the node to query"`
	MaxDepth int    `json:"max_depth,omitempty" jsonschema:"longest descendant path in edges"`
}

// LayoutInput selects the layout to compute.
type LayoutInput struct {
	Mode string `json:"mode,omitempty" jsonschema:"layered or tree"`
	Root string `json:"root,omitempty" jsonschema:"root node for the tree layout"`
	Node string `json:"node,omitempty" jsonschema:"node whose paths are highlighted"`
}

// =============================================================================
// Tool handlers
// =============================================================================

func (s *Server) graphStats(ctx context.Context, req *mcp.CallToolRequest, _ StatsInput) (*mcp.CallToolResult, any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[kgraph.Category]int)
	for _, n := range s.g.Nodes() {
		counts[n.Category]++
	}
	return jsonResult(map[string]any{
		"title":      s.g.Title(),
		"source":     s.source,
		"nodes":      s.g.NodeCount(),
		"edges":      s.g.EdgeCount(),
		"roots":      s.g.Roots(),
		"isolated":   s.g.IsolatedNodes(),
		"levels":     s.g.Levels(),
		"categories": counts,
	})
}

func (s *Server) queryPaths(ctx context.Context, req *mcp.CallToolRequest, in NodeInput) (*mcp.CallToolResult, any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkNode(in.Node); err != nil {
		return errorResult(err), nil, nil
	}
	if in.MaxDepth < 0 {
		return errorResult(errors.New(errors.ErrCodeInvalidInput, "max_depth must not be negative")), nil, nil
	}

	opts := s.opts.Query
	if in.MaxDepth > 0 {
		opts.MaxDepth = in.MaxDepth
	}
	res := s.runner.Query(ctx, s.g, in.Node, opts)
	return jsonResult(res)
}

func (s *Server) shortestPath(ctx context.Context, req *mcp.CallToolRequest, in NodeInput) (*mcp.CallToolResult, any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkNode(in.Node); err != nil {
		return errorResult(err), nil, nil
	}
	p := paths.ShortestFromRoot(s.g, in.Node)
	if p == nil {
		return textResult(fmt.Sprintf("no root reaches %s", in.Node)), nil, nil
	}
	return jsonResult(map[string]any{"target": in.Node, "path": p})
}

func (s *Server) layout(ctx context.Context, req *mcp.CallToolRequest, in LayoutInput) (*mcp.CallToolResult, any, error) {
	opts := s.opts
	if in.Mode != "" {
		opts.Mode = in.Mode
	}
	opts.Root = in.Root
	if err := opts.Validate(); err != nil {
		return errorResult(err), nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	l, err := s.runner.Layout(ctx, s.g, opts)
	if err != nil {
		return errorResult(err), nil, nil
	}
	var hs *paths.HighlightSet
	if in.Node != "" {
		if err := s.checkNode(in.Node); err != nil {
			return errorResult(err), nil, nil
		}
		res := s.runner.Query(ctx, s.g, in.Node, opts.Query)
		h := paths.Highlight(s.g, res)
		hs = &h
	}
	doc := pkgio.NewLayoutDocument(s.g, l, hs)
	doc.Target = in.Node
	return jsonResult(doc)
}

func (s *Server) graphResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(s.g, &buf); err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: req.Params.URI, MIMEType: "application/json", Text: buf.String()},
		},
	}, nil
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) checkNode(id string) error {
	if err := errors.ValidateNodeID(id); err != nil {
		return err
	}
	if !s.g.HasNode(id) {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not in graph", id)
	}
	return nil
}

func textResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: msg}}}
}

func errorResult(err error) *mcp.CallToolResult {
	msg := errors.UserMessage(err)
	if code := errors.GetCode(err); code != "" {
		msg = string(code) + ": " + msg
	}
	return &mcp.CallToolResult{IsError: true, Content: []mcp.Content{&mcp.TextContent{Text: msg}}}
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	return textResult(string(data)), nil, nil
}
