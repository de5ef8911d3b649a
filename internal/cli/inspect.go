package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	pkgio "github.com/KubrakovDmitry/the-graph-visualizer/pkg/io"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
)

const (
	// maxDiagnosticRows caps the diagnostics table; the rest are summarized.
	maxDiagnosticRows = 20

	// headerRow is the row index lipgloss tables pass for the header.
	headerRow = -1
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "inspect [graph.json]",
		Short: "Print graph statistics and ingestion diagnostics",
		Long: `Load a graph document without modifying it and report its size, levels,
category mix and everything that was skipped, dropped or defaulted while
reading it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], all)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every diagnostic")
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string, all bool) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	g, rep, err := runner.IngestFile(ctx, path)
	if err != nil {
		return err
	}

	title := g.Title()
	if title == "" {
		title = path
	}
	fmt.Println(StyleTitle.Render(title))
	printKeyValue("Nodes", strconv.Itoa(g.NodeCount()))
	printKeyValue("Edges", strconv.Itoa(g.EdgeCount()))
	printKeyValue("Roots", strconv.Itoa(len(g.Roots())))
	printKeyValue("Sinks", strconv.Itoa(len(g.Sinks())))
	printKeyValue("Isolated", strconv.Itoa(len(g.IsolatedNodes())))
	printKeyValue("Levels", fmt.Sprint(g.Levels()))
	fmt.Println()

	fmt.Println(categoryTable(g))

	if rep.Clean() {
		printSuccess("No ingestion diagnostics")
		return nil
	}
	fmt.Println()
	fmt.Println(diagnosticTable(rep, all))
	if n := len(rep.DroppedEdges()); n > 0 {
		printWarning("%d links dropped", n)
	}
	return nil
}

// categoryTable counts nodes per category, in category order.
func categoryTable(g *kgraph.Graph) string {
	counts := make(map[kgraph.Category]int)
	for _, n := range g.Nodes() {
		counts[n.Category]++
	}
	var rows [][]string
	for _, cat := range append(kgraph.Categories(), kgraph.CategoryUnknown) {
		if counts[cat] == 0 {
			continue
		}
		rows = append(rows, []string{swatch(cat), string(cat), strconv.Itoa(counts[cat])})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Category", "Nodes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorWhite).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// diagnosticTable lists diagnostics, capped at maxDiagnosticRows unless all.
func diagnosticTable(rep pkgio.Report, all bool) string {
	diags := rep.Diagnostics
	more := 0
	if !all && len(diags) > maxDiagnosticRows {
		more = len(diags) - maxDiagnosticRows
		diags = diags[:maxDiagnosticRows]
	}

	rows := make([][]string, 0, len(diags)+1)
	for _, d := range diags {
		subject := d.NodeID
		if d.Kind == pkgio.KindDroppedEdge {
			subject = d.Source + " " + iconArrow + " " + d.Target
		}
		rows = append(rows, []string{string(d.Kind), strconv.Itoa(d.Index), subject, d.Reason})
	}
	if more > 0 {
		rows = append(rows, []string{"", "", fmt.Sprintf("… %d more (use --all)", more), ""})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Kind", "#", "Subject", "Reason").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return styleHeader
			case row < len(diags) && diags[row].Kind == pkgio.KindDroppedEdge && col == 0:
				return StyleWarning
			case col == 3:
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
