package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func startWatcher(t *testing.T, files []string) <-chan string {
	t.Helper()
	got := make(chan string, 16)
	r := ReloaderFunc(func(_ context.Context, path string) error {
		got <- path
		return nil
	})
	w, err := New(files, r, Options{Debounce: 50 * time.Millisecond, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		w.Close()
	})
	return got
}

func TestWatcherReloadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	graph := filepath.Join(dir, "graph.json")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(graph, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got := startWatcher(t, []string{graph})

	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(graph, []byte(`{"nodes": []}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case p := <-got:
		if p != graph {
			t.Fatalf("reloaded %s, want %s", p, graph)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}

	select {
	case p := <-got:
		t.Errorf("burst of writes reloaded twice (%s)", p)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherFollowsRename(t *testing.T) {
	dir := t.TempDir()
	graph := filepath.Join(dir, "graph.json")
	if err := os.WriteFile(graph, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got := startWatcher(t, []string{graph})

	tmp := filepath.Join(dir, ".graph.json.swp")
	if err := os.WriteFile(tmp, []byte(`{"nodes": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, graph); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-got:
		if p != graph {
			t.Fatalf("reloaded %s, want %s", p, graph)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after atomic save")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "gone", "graph.json")}, ReloaderFunc(nil), Options{})
	if err == nil {
		t.Fatal("expected error watching a missing directory")
	}
}
