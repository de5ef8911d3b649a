package server

import (
	"encoding/json"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/buildinfo"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/errors"
	pkgio "github.com/KubrakovDmitry/the-graph-visualizer/pkg/io"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph/transform"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/paths"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/pipeline"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/render"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/session"
)

// GraphInfo describes a loaded graph.
type GraphInfo struct {
	ID          string             `json:"id"`
	Title       string             `json:"title,omitempty"`
	Source      string             `json:"source,omitempty"`
	Nodes       int                `json:"nodes"`
	Edges       int                `json:"edges"`
	Roots       int                `json:"roots"`
	Levels      []int              `json:"levels"`
	Diagnostics []pkgio.Diagnostic `json:"diagnostics,omitempty"`
	Prepared    transform.Result   `json:"prepared"`
	Updated     time.Time          `json:"updated"`
}

// PathsResponse is returned by the paths and select endpoints.
type PathsResponse struct {
	paths.Result
	Highlight paths.HighlightSet `json:"highlight"`
}

// SelectRequest is the body of POST /api/graphs/{id}/select. Either Node
// or X and Y (a click in layout coordinates) name the node to toggle.
type SelectRequest struct {
	Session string   `json:"session,omitempty"`
	Node    string   `json:"node,omitempty"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
	Reset   bool     `json:"reset,omitempty"`
}

// SelectResponse reports the session state after a selection.
type SelectResponse struct {
	Session   string             `json:"session"`
	Selected  string             `json:"selected,omitempty"`
	Highlight paths.HighlightSet `json:"highlight"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Version,
		"graphs":  s.Len(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.graphs))
	for _, e := range s.graphs {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]GraphInfo, 0, len(entries))
	for _, e := range entries {
		e.mu.RLock()
		info := e.info(false)
		e.mu.RUnlock()
		out = append(out, info)
	}
	sortInfos(out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	opts, err := s.prepareOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, rep, err := s.runner.Ingest(r.Context(), http.MaxBytesReader(w, r.Body, MaxBodyBytes), "request body")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e := &entry{id: uuid.NewString()}
	e.set(s.runner.Prepare(r.Context(), g, opts), g, rep)
	s.mu.Lock()
	s.graphs[e.id] = e
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, e.info(true))
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.prepareOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, rep, err := s.runner.Ingest(r.Context(), http.MaxBytesReader(w, r.Body, MaxBodyBytes), "request body")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	prepared := s.runner.Prepare(r.Context(), g, opts)

	e.mu.Lock()
	e.set(prepared, g, rep)
	info := e.info(true)
	e.mu.Unlock()
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e.mu.RLock()
	info := e.info(true)
	e.mu.RUnlock()
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.remove(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCollapse(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e.mu.Lock()
	res := s.runner.Prepare(r.Context(), e.g, pipeline.Options{Prepare: transform.Options{Collapse: true}})
	e.prepared.Chains = append(e.prepared.Chains, res.Chains...)
	e.prepared.NodesAfter, e.prepared.EdgesAfter = res.NodesAfter, res.EdgesAfter
	e.updated = time.Now()
	e.mu.Unlock()
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.viewOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	l, err := s.runner.Layout(r.Context(), e.g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var hs *paths.HighlightSet
	if node := r.URL.Query().Get("node"); node != "" {
		if !e.g.HasNode(node) {
			s.writeError(w, r, errors.New(errors.ErrCodeNodeNotFound, "node %q not in graph", node))
			return
		}
		res := s.runner.Query(r.Context(), e.g, node, opts.Query)
		h := paths.Highlight(e.g, res)
		hs = &h
	}
	doc := pkgio.NewLayoutDocument(e.g, l, hs)
	if hs != nil {
		doc.Target = r.URL.Query().Get("node")
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.viewOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	node, err := requireNode(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.g.HasNode(node) {
		s.writeError(w, r, errors.New(errors.ErrCodeNodeNotFound, "node %q not in graph", node))
		return
	}
	res := s.runner.Query(r.Context(), e.g, node, opts.Query)
	writeJSON(w, http.StatusOK, PathsResponse{Result: res, Highlight: paths.Highlight(e.g, res)})
}

func (s *Server) handleShortest(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	node, err := requireNode(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.g.HasNode(node) {
		s.writeError(w, r, errors.New(errors.ErrCodeNodeNotFound, "node %q not in graph", node))
		return
	}
	p := paths.ShortestFromRoot(e.g, node)
	if p == nil {
		p = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"target": node, "path": p})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.viewOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Format = r.URL.Query().Get("format")
	if opts.Format == "" {
		opts.Format = pipeline.FormatSVG
	}
	opts.Highlight = r.URL.Query().Get("node")
	if err := opts.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if opts.Highlight != "" && !e.g.HasNode(opts.Highlight) {
		s.writeError(w, r, errors.New(errors.ErrCodeNodeNotFound, "node %q not in graph", opts.Highlight))
		return
	}
	res, err := s.runner.ExecuteGraph(r.Context(), e.g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ct := render.ContentType(opts.Format)
	if opts.Format == pipeline.FormatJSON {
		ct = "application/json"
	}
	w.Header().Set("Content-Type", ct)
	if res.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	}
	_, _ = w.Write(res.Artifact)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req SelectRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode select request"))
		return
	}
	opts, err := s.viewOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.session(r, req.Session, e.id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	switch {
	case req.Reset:
		sess.Reset()
	case req.Node != "":
		if !e.g.HasNode(req.Node) {
			s.writeError(w, r, errors.New(errors.ErrCodeNodeNotFound, "node %q not in graph", req.Node))
			return
		}
		sess.Toggle(req.Node)
	case req.X != nil && req.Y != nil:
		l, err := s.runner.Layout(ctx, e.g, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		// a click on empty space leaves the selection alone
		if id, ok := l.NodeAt(*req.X, *req.Y, 0); ok {
			sess.Toggle(id)
		}
	}

	// the selection may name a node removed by a rebuild
	if sess.Selected != "" && !e.g.HasNode(sess.Selected) {
		sess.Reset()
	}
	sess.Touch(s.sessionTTL)
	if err := s.sessions.Set(ctx, sess); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "save session"))
		return
	}

	resp := SelectResponse{Session: sess.ID, Selected: sess.Selected, Highlight: paths.HighlightSet{Nodes: []string{}}}
	if sess.Selected != "" {
		res := s.runner.Query(ctx, e.g, sess.Selected, opts.Query)
		resp.Highlight = paths.Highlight(e.g, res)
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Request helpers
// =============================================================================

// session returns the session named by id, or a fresh one for graphID when
// id is empty. A session bound to another graph is rejected.
func (s *Server) session(r *http.Request, id, graphID string) (*session.Session, error) {
	if id == "" {
		return session.New(graphID, s.sessionTTL), nil
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found or expired", id)
	}
	if sess.GraphID != graphID {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, session.ErrGraphMismatch, "session %q", id)
	}
	return sess, nil
}

func sortInfos(infos []GraphInfo) {
	slices.SortFunc(infos, func(a, b GraphInfo) int {
		if c := strings.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func (e *entry) info(withDiagnostics bool) GraphInfo {
	info := GraphInfo{
		ID:       e.id,
		Title:    e.g.Title(),
		Source:   e.source,
		Nodes:    e.g.NodeCount(),
		Edges:    e.g.EdgeCount(),
		Roots:    len(e.g.Roots()),
		Levels:   e.g.Levels(),
		Prepared: e.prepared,
		Updated:  e.updated,
	}
	if withDiagnostics {
		info.Diagnostics = e.report.Diagnostics
	}
	return info
}

// prepareOptions reads ?collapse= and ?drop_isolated= on top of the
// server defaults.
func (s *Server) prepareOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.opts
	q := r.URL.Query()
	var err error
	if opts.Prepare.Collapse, err = boolParam(q.Get("collapse"), opts.Prepare.Collapse); err != nil {
		return opts, err
	}
	if opts.Prepare.DropIsolated, err = boolParam(q.Get("drop_isolated"), opts.Prepare.DropIsolated); err != nil {
		return opts, err
	}
	return opts, nil
}

// viewOptions reads ?mode= ?hgap= ?vgap= ?root= ?max_depth= on top of the
// server defaults.
func (s *Server) viewOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.opts
	q := r.URL.Query()
	if m := q.Get("mode"); m != "" {
		opts.Mode = m
	}
	opts.Root = q.Get("root")

	var err error
	if opts.Layered.HorizontalGap, err = floatParam("hgap", q.Get("hgap"), opts.Layered.HorizontalGap); err != nil {
		return opts, err
	}
	if opts.Layered.VerticalGap, err = floatParam("vgap", q.Get("vgap"), opts.Layered.VerticalGap); err != nil {
		return opts, err
	}
	opts.Tree.VerticalGap = opts.Layered.VerticalGap
	opts.Tree.FallbackGap = opts.Layered.HorizontalGap

	if v := q.Get("max_depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "max_depth must be a non-negative integer, got %q", v)
		}
		opts.Query.MaxDepth = n
	}
	return opts, opts.Validate()
}

func requireNode(r *http.Request) (string, error) {
	node := r.URL.Query().Get("node")
	if err := errors.ValidateNodeID(node); err != nil {
		return "", err
	}
	return node, nil
}

func boolParam(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, errors.New(errors.ErrCodeInvalidInput, "expected true or false, got %q", v)
	}
	return b, nil
}

func floatParam(name, v string, def float64) (float64, error) {
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return def, errors.New(errors.ErrCodeInvalidInput, "%s must be a positive finite number, got %q", name, v)
	}
	return f, nil
}
