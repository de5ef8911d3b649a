package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/errors"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/paths"
)

// pathsCommand creates the paths command.
func (c *CLI) pathsCommand() *cobra.Command {
	var (
		shortest bool
		asJSON   bool
		flags    viewFlags
	)
	cmd := &cobra.Command{
		Use:   "paths [graph.json] [node]",
		Short: "List every path through a node",
		Long: `List the paths from the roots (drugs) down to a node and the paths leaving
it, together with the nodes and edges they cover. The graph is prepared
first, so collapsed chain members are reached through their surviving node.

--shortest prints only the shortest path from the first root that reaches
the node.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.viewOptions(cmd, &flags)
			if err != nil {
				return err
			}
			node := args[1]
			if err := errors.ValidateNodeID(node); err != nil {
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
			if !g.HasNode(node) {
				return errors.New(errors.ErrCodeNodeNotFound, "node %q not in graph", node)
			}

			if shortest {
				p := paths.ShortestFromRoot(g, node)
				if asJSON {
					return writeJSON(map[string]any{"target": node, "path": p})
				}
				if p == nil {
					printWarning("No root reaches %s", node)
					return nil
				}
				fmt.Println(formatPath(g, p))
				return nil
			}

			res := runner.Query(ctx, g, node, opts.Query)
			hs := paths.Highlight(g, res)
			if asJSON {
				return writeJSON(struct {
					paths.Result
					Highlight paths.HighlightSet `json:"highlight"`
				}{res, hs})
			}
			printPaths(g, res, hs)
			return nil
		},
	}
	cmd.Flags().BoolVar(&shortest, "shortest", false, "print only the shortest root path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	flags.bind(cmd)
	return cmd
}

func printPaths(g *kgraph.Graph, res paths.Result, hs paths.HighlightSet) {
	fmt.Println(StyleTitle.Render("Ancestor paths") + StyleDim.Render(fmt.Sprintf(" (%d)", len(res.Ancestors))))
	for _, p := range res.Ancestors {
		fmt.Println("  " + formatPath(g, p))
	}
	fmt.Println(StyleTitle.Render("Descendant paths") + StyleDim.Render(fmt.Sprintf(" (%d)", len(res.Descendants))))
	for _, p := range res.Descendants {
		fmt.Println("  " + formatPath(g, p))
	}
	fmt.Println()
	printDetail("%d nodes and %d edges highlighted", len(hs.Nodes), len(hs.Edges))
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
