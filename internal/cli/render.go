package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/errors"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output    string
		formats   string
		highlight string
		unpinned  bool
		flags     viewFlags
	)
	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a graph to SVG, DOT, PNG or PDF",
		Long: `Render a prepared graph with Graphviz. Nodes are pinned at their layout
positions and colored by category; with --highlight every path through the
node is drawn in black and everything else fades.

PNG and PDF are converted from the SVG with rsvg-convert, which must be on
PATH. Unhighlighted renders are cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.viewOptions(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Highlight = highlight
			opts.Unpinned = unpinned
			list := parseFormats(formats)
			for _, f := range list {
				if err := errors.ValidateFormat(f, pipeline.ValidFormats...); err != nil {
					return err
				}
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], ".json")
			}
			output = strings.TrimSuffix(output, "."+list[0])

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			g, rep, err := runner.IngestFile(ctx, args[0])
			if err != nil {
				return err
			}
			if n := len(rep.DroppedEdges()); n > 0 {
				printWarning("%d links dropped while reading %s", n, args[0])
			}
			runner.Prepare(ctx, g, opts)
			if highlight != "" && !g.HasNode(highlight) {
				return errors.New(errors.ErrCodeNodeNotFound, "node %q not in graph", highlight)
			}

			var written []string
			for _, f := range list {
				opts.Format = f
				spin := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", f))
				spin.Start()
				res, err := runner.ExecuteGraph(ctx, g, opts)
				spin.Stop()
				if err != nil {
					return err
				}
				path := output + "." + f
				if err := os.WriteFile(path, res.Artifact, 0o644); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
				}
				written = append(written, path)
				if len(written) == 1 {
					printSuccess("Rendered %s", args[0])
					printStats(g.NodeCount(), g.EdgeCount(), res.CacheInfo.RenderHit)
				}
			}
			for _, p := range written {
				printFile(p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path without extension (default: input name)")
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatSVG, "comma-separated formats: svg, dot, png, pdf, json")
	cmd.Flags().StringVar(&highlight, "highlight", "", "highlight paths through this node")
	cmd.Flags().BoolVar(&unpinned, "unpinned", false, "let Graphviz rank the graph instead of pinning layout positions")
	flags.bind(cmd)
	return cmd
}

// parseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func parseFormats(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	if len(out) == 0 {
		return []string{pipeline.FormatSVG}
	}
	return out
}
