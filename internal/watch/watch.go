// Package watch reloads graph files when they change on disk.
//
// Editors often save by writing a temporary file and renaming it over the
// original, which drops an inotify watch on the file itself. The watcher
// therefore watches each file's directory and filters events by name.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before it is reloaded.
const DefaultDebounce = 250 * time.Millisecond

// Reloader rebuilds the graph loaded from path.
type Reloader interface {
	ReloadFile(ctx context.Context, path string) error
}

// ReloaderFunc adapts a function to [Reloader].
type ReloaderFunc func(ctx context.Context, path string) error

// ReloadFile calls f.
func (f ReloaderFunc) ReloadFile(ctx context.Context, path string) error { return f(ctx, path) }

// Watcher monitors a set of graph files.
type Watcher struct {
	fw       *fsnotify.Watcher
	reloader Reloader
	logger   *log.Logger
	debounce time.Duration

	files map[string]struct{}

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *log.Logger
}

// New watches files and calls r for each one that changes.
func New(files []string, r Reloader, opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	w := &Watcher{
		fw:       fw,
		reloader: r,
		logger:   opts.Logger,
		debounce: opts.Debounce,
		files:    make(map[string]struct{}, len(files)),
		pending:  make(map[string]*time.Timer),
	}

	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run processes events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stopTimers()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	name := filepath.Clean(event.Name)
	if _, ok := w.files[name]; !ok {
		return
	}
	// a removed file is usually about to be replaced; the following create
	// triggers the reload
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[name]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[name] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, name)
		w.mu.Unlock()
		w.reload(ctx, name)
	})
}

func (w *Watcher) reload(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := w.reloader.ReloadFile(ctx, path); err != nil {
		w.logger.Error("reload failed", "path", path, "err", err)
		return
	}
	w.logger.Debug("reloaded", "path", path, "took", time.Since(start))
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for name, t := range w.pending {
		t.Stop()
		delete(w.pending, name)
	}
}
