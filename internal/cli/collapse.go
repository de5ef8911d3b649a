package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pkgio "github.com/KubrakovDmitry/the-graph-visualizer/pkg/io"
)

// collapseCommand creates the collapse command.
func (c *CLI) collapseCommand() *cobra.Command {
	var (
		output string
		flags  viewFlags
	)
	cmd := &cobra.Command{
		Use:   "collapse [graph.json]",
		Short: "Collapse same-category chains and write the reduced graph",
		Long: `Collapse every maximal chain of same-category nodes into its last node and
write the result as a graph document. Links into the chain are redirected to
the surviving node.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.viewOptions(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Prepare.Collapse = true
			if output == "" {
				output = derivedPath(args[0], "collapsed")
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
			res := runner.Prepare(ctx, g, opts)
			if err := pkgio.ExportJSON(g, output); err != nil {
				return err
			}

			printSuccess("Collapsed %d chains (%d → %d nodes)", len(res.Chains), res.NodesBefore, res.NodesAfter)
			for _, ch := range res.Chains {
				printDetail("%s", strings.Join(ch, " "+iconArrow+" "))
			}
			if len(res.Isolated) > 0 {
				printDetail("removed %d isolated nodes", len(res.Isolated))
			}
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.collapsed.json)")
	flags.bind(cmd)
	return cmd
}

// derivedPath turns graph.json into graph.<suffix>.json next to the input.
func derivedPath(input, suffix string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "." + suffix + ".json"
}

