package cli

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/paths"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/session"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listLitStyle      = lipgloss.NewStyle().Foreground(colorGreen)
)

// maxPathLines caps the path pane of the explorer.
const maxPathLines = 12

// =============================================================================
// Command
// =============================================================================

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		flags  viewFlags
		noSave bool
	)
	cmd := &cobra.Command{
		Use:   "explore [graph.json]",
		Short: "Browse a graph and highlight paths interactively",
		Long: `Open a terminal explorer over the prepared graph. Nodes are listed by level;
enter selects the node under the cursor and shows every path through it,
enter on the selected node clears the selection, esc resets.

The selection is remembered per file and restored the next time the same
file is explored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.viewOptions(cmd, &flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			g, _, err := runner.IngestFile(ctx, args[0])
			if err != nil {
				return err
			}
			runner.Prepare(ctx, g, opts)

			query := func(node string) paths.Result {
				return runner.Query(ctx, g, node, opts.Query)
			}
			store, sess := c.loadSelection(ctx, args[0], noSave)
			m := NewExplorerModel(g, query, sess)

			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			if store != nil {
				if err := store.Set(ctx, final.(ExplorerModel).Session); err != nil {
					c.Logger.Warn("could not save selection", "err", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not restore or save the selection")
	flags.bind(cmd)
	return cmd
}

// loadSelection returns the per-file session store and the session for
// path. Without a usable store the session lives only in memory.
func (c *CLI) loadSelection(ctx context.Context, path string, disabled bool) (session.Store, *session.Session) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fresh := session.New(abs, session.DefaultTTL)
	fresh.ID = session.IDForFile(abs)
	if disabled {
		return nil, fresh
	}

	store, err := session.NewFileStore("")
	if err != nil {
		c.Logger.Debug("selection store unavailable", "err", err)
		return nil, fresh
	}
	sess, err := store.Get(ctx, fresh.ID)
	if err != nil || sess == nil || sess.GraphID != abs {
		return store, fresh
	}
	// stored sessions expire; exploring again renews them
	sess.Touch(session.DefaultTTL)
	return store, sess
}

// =============================================================================
// ExplorerModel - Interactive path highlighting
// =============================================================================

// ExplorerModel is the bubbletea model for the graph explorer.
type ExplorerModel struct {
	Graph   *kgraph.Graph
	Session *session.Session
	Cursor  int
	Offset  int
	Height  int

	query  func(string) paths.Result
	result paths.Result
	lit    paths.HighlightSet
}

// NewExplorerModel lists the nodes of g by level. A selection carried by
// sess is restored if the node still exists.
func NewExplorerModel(g *kgraph.Graph, query func(string) paths.Result, sess *session.Session) ExplorerModel {
	m := ExplorerModel{Graph: g, Session: sess, Height: 15, query: query}
	if sess.Selected != "" && !g.HasNode(sess.Selected) {
		sess.Reset()
	}
	m.refresh()
	if i := slices.Index(m.order(), sess.Selected); i >= 0 {
		m.Cursor = i
	}
	return m
}

// order returns node IDs by level, then insertion order; nodes with a
// negative level come last.
func (m ExplorerModel) order() []string {
	nodes := m.Graph.Nodes()
	slices.SortStableFunc(nodes, func(a, b kgraph.Node) int {
		if (a.Level < 0) != (b.Level < 0) {
			return cmp.Compare(b.Level, a.Level)
		}
		return cmp.Compare(a.Level, b.Level)
	})
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// refresh recomputes the paths for the current selection.
func (m *ExplorerModel) refresh() {
	if m.Session.Selected == "" {
		m.result, m.lit = paths.Result{}, paths.HighlightSet{}
		return
	}
	m.result = m.query(m.Session.Selected)
	m.lit = paths.Highlight(m.Graph, m.result)
}

func (m ExplorerModel) Init() tea.Cmd {
	return nil
}

func (m ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ids := m.order()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(ids)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			if len(ids) == 0 {
				return m, nil
			}
			m.Session.Toggle(ids[m.Cursor])
			m.refresh()
		case "esc":
			m.Session.Reset()
			m.refresh()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-maxPathLines-8, 5)
	}
	return m, nil
}

func (m ExplorerModel) View() string {
	var b strings.Builder
	ids := m.order()

	title := m.Graph.Title()
	if title == "" {
		title = "Graph"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  esc reset  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(ids))
	for i := m.Offset; i < end; i++ {
		n, _ := m.Graph.Node(ids[i])
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := " "
		if n.ID == m.Session.Selected {
			mark = "*"
		}
		line := fmt.Sprintf("%s%s %s %-28s %s", cursor, mark, swatch(n.Category), n.ID,
			listDimStyle.Render(fmt.Sprintf("L%d %s", n.Level, n.Category)))

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case m.lit.HasNode(n.ID):
			b.WriteString(listLitStyle.Render(line))
		case !m.lit.Empty():
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(ids)), len(ids))))
	b.WriteString("\n\n")

	b.WriteString(m.pathPane())
	return b.String()
}

func (m ExplorerModel) pathPane() string {
	if m.Session.Selected == "" {
		return listDimStyle.Render("No selection")
	}
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(m.Session.Selected))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d ancestor · %d descendant paths",
		len(m.result.Ancestors), len(m.result.Descendants))))
	b.WriteString("\n")

	lines := 0
	all := append(slices.Clone(m.result.Ancestors), m.result.Descendants...)
	for _, p := range all {
		if lines == maxPathLines {
			b.WriteString(listDimStyle.Render(fmt.Sprintf("  … %d more", len(all)-lines)))
			b.WriteString("\n")
			break
		}
		b.WriteString("  " + formatPath(m.Graph, p) + "\n")
		lines++
	}
	return b.String()
}
