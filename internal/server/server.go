// Package server exposes loaded knowledge graphs over a JSON HTTP API.
//
// Graphs live in an in-memory workspace keyed by UUID. Each graph sits
// behind its own RWMutex: ingest, rebuild and collapse take the write lock,
// layout, query and render take the read lock.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/errors"
	pkgio "github.com/KubrakovDmitry/the-graph-visualizer/pkg/io"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph/transform"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/pipeline"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/session"
)

// MaxBodyBytes limits uploaded graph documents.
const MaxBodyBytes = 32 << 20

// Server holds the graph workspace and the HTTP routes over it.
type Server struct {
	runner     *pipeline.Runner
	sessions   session.Store
	logger     *log.Logger
	opts       pipeline.Options
	sessionTTL time.Duration

	mu     sync.RWMutex
	graphs map[string]*entry
	byPath map[string]string // source file -> graph id

	router chi.Router
}

type entry struct {
	mu       sync.RWMutex
	id       string
	source   string
	g        *kgraph.Graph
	report   pkgio.Report
	prepared transform.Result
	updated  time.Time
}

// Options configures a Server.
type Options struct {
	// Pipeline holds the defaults for prepare, layout and query.
	Pipeline pipeline.Options
	// SessionTTL is the idle lifetime of selection sessions.
	SessionTTL time.Duration
}

// New creates a server. A nil store keeps sessions in memory.
func New(runner *pipeline.Runner, sessions session.Store, logger *log.Logger, opts Options) *Server {
	if sessions == nil {
		sessions = session.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = session.DefaultTTL
	}
	s := &Server{
		runner:     runner,
		sessions:   sessions,
		logger:     logger,
		opts:       opts.Pipeline,
		sessionTTL: opts.SessionTTL,
		graphs:     make(map[string]*entry),
		byPath:     make(map[string]string),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/graphs", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handleReplace)
			r.Delete("/", s.handleDelete)
			r.Post("/collapse", s.handleCollapse)
			r.Get("/layout", s.handleLayout)
			r.Get("/paths", s.handlePaths)
			r.Get("/shortest", s.handleShortest)
			r.Get("/render", s.handleRender)
			r.Post("/select", s.handleSelect)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Expired sessions are swept once a minute.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepSessions(ctx, time.Minute)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr, "graphs", s.Len())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) sweepSessions(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}

// =============================================================================
// Workspace
// =============================================================================

// Len returns the number of loaded graphs.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.graphs)
}

// LoadFile ingests and prepares the file at path and adds it to the
// workspace. Loading a path that is already loaded rebuilds that graph in
// place and keeps its ID.
func (s *Server) LoadFile(ctx context.Context, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}

	s.mu.RLock()
	id, known := s.byPath[abs]
	s.mu.RUnlock()
	if known {
		return id, s.ReloadFile(ctx, abs)
	}

	g, rep, err := s.runner.IngestFile(ctx, abs)
	if err != nil {
		return "", err
	}
	e := s.add(g, rep, abs)
	s.mu.Lock()
	s.byPath[abs] = e.id
	s.mu.Unlock()
	return e.id, nil
}

// ReloadFile rebuilds the graph loaded from path. It reports NOT_FOUND if
// no graph was loaded from it.
func (s *Server) ReloadFile(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	s.mu.RLock()
	id, ok := s.byPath[abs]
	s.mu.RUnlock()
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no graph loaded from %s", path)
	}
	e, err := s.lookup(id)
	if err != nil {
		return err
	}

	f, err := os.Open(abs)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", abs)
	}
	defer f.Close()
	g, rep, err := s.runner.Ingest(ctx, f, abs)
	if err != nil {
		return err
	}
	s.replace(ctx, e, g, rep)
	s.logger.Info("reloaded graph", "id", id, "source", abs, "nodes", g.NodeCount())
	return nil
}

// Paths returns the source files of file-backed graphs, sorted.
func (s *Server) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.byPath))
	for p := range s.byPath {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func (s *Server) add(g *kgraph.Graph, rep pkgio.Report, source string) *entry {
	e := &entry{id: uuid.NewString(), source: source}
	e.set(s.runner.Prepare(context.Background(), g, s.opts), g, rep)

	s.mu.Lock()
	s.graphs[e.id] = e
	s.mu.Unlock()
	return e
}

func (s *Server) replace(ctx context.Context, e *entry, g *kgraph.Graph, rep pkgio.Report) {
	prepared := s.runner.Prepare(ctx, g, s.opts)
	e.mu.Lock()
	e.set(prepared, g, rep)
	e.mu.Unlock()
}

func (e *entry) set(prepared transform.Result, g *kgraph.Graph, rep pkgio.Report) {
	e.g, e.report, e.prepared = g, rep, prepared
	e.updated = time.Now()
}

func (s *Server) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.graphs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "graph %q not found", id)
	}
	return e, nil
}

func (s *Server) remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.graphs[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "graph %q not found", id)
	}
	delete(s.graphs, id)
	if e.source != "" {
		delete(s.byPath, e.source)
	}
	return nil
}
