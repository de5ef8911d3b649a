package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/config"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/errors"
	pkgio "github.com/KubrakovDmitry/the-graph-visualizer/pkg/io"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/paths"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/pipeline"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/session"
)

const spironolactone = `{
  "name": "spironolactone",
  "nodes": [
    {"id": "spironolactone", "label": "group", "level": 0},
    {"id": "tablet", "label": "prepare", "level": 1},
    {"id": "dissolve", "label": "prepare", "level": 2},
    {"id": "aldosterone", "label": "mechanism", "level": 3},
    {"id": "hyperkalemia", "label": "side_e", "level": 4},
    {"id": "orphan", "label": "noun", "level": 5}
  ],
  "links": [
    {"source": "spironolactone", "target": "tablet"},
    {"source": "tablet", "target": "dissolve"},
    {"source": "dissolve", "target": "aldosterone"},
    {"source": "aldosterone", "target": "hyperkalemia"}
  ]
}`

// fixture writes the sample graph and a config that disables caching.
func fixture(t *testing.T) (graphPath, configPath string) {
	t.Helper()
	dir := t.TempDir()
	graphPath = filepath.Join(dir, "spironolactone.json")
	configPath = filepath.Join(dir, config.FileName)
	if err := os.WriteFile(graphPath, []byte(spironolactone), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(configPath, []byte("[cache]\nbackend = \"none\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return graphPath, configPath
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestCollapseCommand(t *testing.T) {
	graph, cfg := fixture(t)
	out := filepath.Join(t.TempDir(), "out.json")

	if err := execute(t, "collapse", graph, "-o", out, "--config", cfg); err != nil {
		t.Fatalf("collapse: %v", err)
	}
	g, _, err := pkgio.ImportJSON(out)
	if err != nil {
		t.Fatal(err)
	}
	if g.HasNode("tablet") || !g.HasNode("dissolve") || !g.HasEdge("spironolactone", "dissolve") {
		t.Errorf("chain not collapsed: %v", g.NodeIDs())
	}
}

func TestLayoutCommand(t *testing.T) {
	graph, cfg := fixture(t)
	out := filepath.Join(t.TempDir(), "layout.json")

	err := execute(t, "layout", graph, "-o", out, "--config", cfg, "--vgap", "100", "--highlight", "hyperkalemia")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var doc pkgio.LayoutDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Title != "spironolactone" || len(doc.Nodes) != 4 {
		t.Fatalf("doc = %+v", doc)
	}
	for _, n := range doc.Nodes {
		if n.ID == "orphan" || n.ID == "tablet" {
			t.Errorf("%s should not be laid out", n.ID)
		}
		if n.ID == "hyperkalemia" && (n.Y != -400 || !n.Highlighted) {
			t.Errorf("hyperkalemia = %+v", n)
		}
	}
}

func TestRenderCommandDOT(t *testing.T) {
	graph, cfg := fixture(t)
	base := filepath.Join(t.TempDir(), "out")

	if err := execute(t, "render", graph, "-f", "dot", "-o", base, "--config", cfg); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") || !strings.Contains(string(data), `"aldosterone"`) {
		t.Errorf("unexpected DOT:\n%s", data)
	}
}

func TestCommandErrors(t *testing.T) {
	graph, cfg := fixture(t)

	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"unknown node", []string{"paths", graph, "aspirin", "--config", cfg}, errors.ErrCodeNodeNotFound},
		{"bad format", []string{"render", graph, "-f", "gif", "--config", cfg}, errors.ErrCodeInvalidFormat},
		{"bad mode", []string{"layout", graph, "--mode", "radial", "--config", cfg}, errors.ErrCodeInvalidInput},
		{"missing file", []string{"inspect", filepath.Join(t.TempDir(), "none.json"), "--config", cfg}, errors.ErrCodeNotFound},
		{"bad config", []string{"inspect", graph, "--config", graph}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestViewFlagsApply(t *testing.T) {
	var f viewFlags
	cmd := &cobra.Command{Use: "x"}
	f.bind(cmd)
	if err := cmd.Flags().Parse([]string{"--mode", "tree", "--vgap", "50", "--collapse=false"}); err != nil {
		t.Fatal(err)
	}

	opts := pipeline.DefaultOptions()
	opts.Layered.HorizontalGap = 77
	f.apply(cmd, &opts)

	if opts.Mode != pipeline.ModeTree {
		t.Errorf("mode = %q", opts.Mode)
	}
	if opts.Layered.VerticalGap != 50 || opts.Tree.VerticalGap != 50 {
		t.Errorf("vgap not applied to both layouts: %+v %+v", opts.Layered, opts.Tree)
	}
	if opts.Layered.HorizontalGap != 77 {
		t.Errorf("unset hgap overrode config value: %v", opts.Layered.HorizontalGap)
	}
	if opts.Prepare.Collapse {
		t.Error("collapse flag ignored")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "svg"},
		{"svg", "svg"},
		{"SVG, dot", "svg,dot"},
		{"png,png,,pdf", "png,pdf"},
	}
	for _, tt := range tests {
		if got := strings.Join(parseFormats(tt.in), ","); got != tt.want {
			t.Errorf("parseFormats(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDerivedPath(t *testing.T) {
	if got := derivedPath("data/graph.json", "layout"); got != "data/graph.layout.json" {
		t.Errorf("derivedPath = %q", got)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Dir = "/tmp/graphvis-test"
	c := &CLI{cfg: &cfg}
	if dir, _ := c.cacheDir(); dir != "/tmp/graphvis-test" {
		t.Errorf("cacheDir = %q", dir)
	}

	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	cfg.Cache.Dir = ""
	if dir, _ := c.cacheDir(); dir != filepath.Join(xdg, appName) {
		t.Errorf("cacheDir = %q, want under %s", dir, xdg)
	}
}

// =============================================================================
// Explorer
// =============================================================================

func explorer(t *testing.T) (ExplorerModel, *session.Session) {
	t.Helper()
	g, _, err := pkgio.ReadJSON(strings.NewReader(spironolactone))
	if err != nil {
		t.Fatal(err)
	}
	query := func(node string) paths.Result { return paths.Query(g, node, paths.Options{}) }
	sess := session.New("test", 0)
	return NewExplorerModel(g, query, sess), sess
}

func press(m ExplorerModel, keys ...tea.KeyMsg) ExplorerModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(ExplorerModel)
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestExplorerOrder(t *testing.T) {
	m, _ := explorer(t)
	got := strings.Join(m.order(), ",")
	want := "spironolactone,tablet,dissolve,aldosterone,hyperkalemia,orphan"
	if got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
}

func TestExplorerToggle(t *testing.T) {
	m, sess := explorer(t)

	m = press(m, keyDown, keyDown, keyDown, keyEnter)
	if sess.Selected != "aldosterone" {
		t.Fatalf("selected = %q", sess.Selected)
	}
	for _, id := range []string{"spironolactone", "tablet", "dissolve", "aldosterone", "hyperkalemia"} {
		if !m.lit.HasNode(id) {
			t.Errorf("%s not highlighted", id)
		}
	}
	if m.lit.HasNode("orphan") {
		t.Error("orphan highlighted")
	}
	if !strings.Contains(m.View(), "1 ancestor · 1 descendant paths") {
		t.Errorf("path pane missing counts:\n%s", m.View())
	}

	m = press(m, keyEnter)
	if sess.Selected != "" || !m.lit.Empty() {
		t.Errorf("re-selecting did not clear: %q", sess.Selected)
	}

	m = press(m, keyUp, keyEnter, keyEsc)
	if sess.Selected != "" || !m.lit.Empty() {
		t.Errorf("esc did not reset: %q", sess.Selected)
	}
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.Cursor)
	}
}

func TestExplorerBounds(t *testing.T) {
	m, _ := explorer(t)
	m = press(m, keyUp)
	if m.Cursor != 0 {
		t.Errorf("cursor moved above the list: %d", m.Cursor)
	}
	for i := 0; i < 20; i++ {
		m = press(m, keyDown)
	}
	if m.Cursor != 5 {
		t.Errorf("cursor = %d, want last index 5", m.Cursor)
	}
}

func TestExplorerRestoresSelection(t *testing.T) {
	g := kgraph.New()
	_ = g.AddNode(kgraph.Node{ID: "a", Category: kgraph.CategoryGroup, Level: 0, Weight: 1})
	_ = g.AddNode(kgraph.Node{ID: "b", Category: kgraph.CategoryNoun, Level: 1, Weight: 1})
	query := func(node string) paths.Result { return paths.Query(g, node, paths.Options{}) }

	sess := session.New("test", 0)
	sess.Selected = "b"
	m := NewExplorerModel(g, query, sess)
	if m.Cursor != 1 || !m.lit.HasNode("b") {
		t.Errorf("selection not restored: cursor %d", m.Cursor)
	}

	stale := session.New("test", 0)
	stale.Selected = "gone"
	NewExplorerModel(g, query, stale)
	if stale.Selected != "" {
		t.Error("selection of a missing node kept")
	}
}
