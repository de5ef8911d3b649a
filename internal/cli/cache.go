package cli

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/cache"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/config"
)

// cacheCommand creates the cache command with its clear and path
// subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or empty the layout, query and render cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached entry of the file cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.clearCache()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	})
	return cmd
}

// cacheDir is cache.dir from the config, or the per-user default.
func (c *CLI) cacheDir() (string, error) {
	cfg, err := c.config()
	if err != nil {
		return "", err
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

func (c *CLI) clearCache() error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if cfg.Cache.Backend == config.BackendRedis {
		printWarning("Redis entries are not cleared here; they expire after %s", cfg.Cache.TTL.Duration)
		return nil
	}

	dir, err := c.cacheDir()
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); stderrors.Is(err, fs.ErrNotExist) {
		printInfo("Nothing cached yet")
		return nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	n, err := fc.Clear()
	if err != nil {
		return err
	}
	printSuccess("Removed %d cached entries", n)
	printDetail("%s", dir)
	return nil
}
