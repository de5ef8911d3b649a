package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/errors"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output    string
		highlight string
		flags     viewFlags
	)
	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute node coordinates and write them as JSON",
		Long: `Compute the layered (default) or tree layout of a graph and write a layout
document: every node with its category, level and x/y position, every edge,
and the nodes placed in the fallback column.

With --highlight the nodes and edges on paths through that node are marked.
Unhighlighted layouts are cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.viewOptions(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Format = pipeline.FormatJSON
			opts.Highlight = highlight
			if output == "" {
				output = derivedPath(args[0], "layout")
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Execute(ctx, args[0], opts)
			if err != nil {
				return err
			}
			if highlight != "" && !res.Graph.HasNode(highlight) {
				return errors.New(errors.ErrCodeNodeNotFound, "node %q not in graph", highlight)
			}
			if err := os.WriteFile(output, res.Artifact, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
			}

			printSuccess("Laid out %s", args[0])
			printDetail("%d nodes · %d edges", res.Graph.NodeCount(), res.Graph.EdgeCount())
			if n := len(res.Layout.Fallback); n > 0 {
				printWarning("%d nodes placed in the fallback column", n)
			}
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&highlight, "highlight", "", "mark paths through this node")
	flags.bind(cmd)
	return cmd
}
