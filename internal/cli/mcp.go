package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KubrakovDmitry/the-graph-visualizer/internal/mcpserver"
	"github.com/KubrakovDmitry/the-graph-visualizer/internal/watch"
)

// mcpCommand creates the mcp command.
func (c *CLI) mcpCommand() *cobra.Command {
	var watchFile bool
	cmd := &cobra.Command{
		Use:   "mcp [graph.json]",
		Short: "Serve path queries to MCP clients over stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout exposing the prepared
graph: graph_stats, query_paths, shortest_path and layout tools, and the
graph document as the graphvis://graph resource.

Logs go to stderr so they never mix with protocol messages.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.options()
			if err != nil {
				return err
			}
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
			srv := mcpserver.New(runner, g, args[0], c.Logger, opts)

			// the watcher stops when the client disconnects
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			eg, gctx := errgroup.WithContext(ctx)
			if watchFile {
				w, err := watch.New([]string{args[0]}, srv, watch.Options{Logger: c.Logger})
				if err != nil {
					return err
				}
				defer w.Close()
				eg.Go(func() error { return ignoreCanceled(w.Run(gctx)) })
			}
			eg.Go(func() error {
				defer cancel()
				return srv.Run(gctx)
			})
			return eg.Wait()
		},
	}
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "reload the graph file when it changes")
	return cmd
}
