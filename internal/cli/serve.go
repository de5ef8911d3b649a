package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KubrakovDmitry/the-graph-visualizer/internal/server"
	"github.com/KubrakovDmitry/the-graph-visualizer/internal/watch"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/cache"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/config"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/session"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		watchFiles bool
	)
	cmd := &cobra.Command{
		Use:   "serve [graph.json...]",
		Short: "Serve graphs over a JSON HTTP API",
		Long: `Start the HTTP API. Graph files given on the command line are loaded at
startup; more can be uploaded with POST /api/graphs. With --watch, loaded
files are re-ingested whenever they change on disk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			sessions, err := openSessions(ctx, cfg)
			if err != nil {
				return err
			}
			defer sessions.Close()

			opts, err := c.options()
			if err != nil {
				return err
			}
			srv := server.New(runner, sessions, c.Logger, server.Options{
				Pipeline:   opts,
				SessionTTL: cfg.Server.SessionTTL.Duration,
			})
			for _, path := range args {
				id, err := srv.LoadFile(ctx, path)
				if err != nil {
					return fmt.Errorf("load %s: %w", path, err)
				}
				printInfo("Loaded %s", path)
				printDetail("id %s", id)
			}

			g, gctx := errgroup.WithContext(ctx)
			if watchFiles && len(args) > 0 {
				w, err := watch.New(srv.Paths(), srv, watch.Options{Logger: c.Logger})
				if err != nil {
					return err
				}
				defer w.Close()
				g.Go(func() error { return ignoreCanceled(w.Run(gctx)) })
			}
			g.Go(func() error {
				printSuccess("Listening on %s", StyleHighlight.Render("http://"+displayAddr(cfg.Server.Addr)))
				return srv.ListenAndServe(gctx, cfg.Server.Addr)
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", config.Default().Server.Addr, "listen address")
	cmd.Flags().BoolVarP(&watchFiles, "watch", "w", false, "reload graph files when they change")
	return cmd
}

// openSessions returns the selection session store named by the config.
func openSessions(ctx context.Context, cfg config.Config) (session.Store, error) {
	if cfg.Server.SessionBackend != config.SessionRedis {
		return session.NewMemoryStore(), nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
	if err := cache.Ping(ctx, client); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect session redis %s: %w", cfg.Cache.RedisAddr, err)
	}
	return session.NewRedisStore(client, ""), nil
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
