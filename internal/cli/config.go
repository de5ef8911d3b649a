package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/config"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if path := c.configPath; path != "" {
				printDetail("from %s", path)
			} else if path := config.Find(); path != "" {
				printDetail("from %s", path)
			} else {
				printDetail("built-in defaults")
			}
			return toml.NewEncoder(os.Stdout).Encode(cfg)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to ./" + config.FileName,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.OpenFile(config.FileName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
			if err != nil {
				return fmt.Errorf("create %s: %w", config.FileName, err)
			}
			defer f.Close()
			if err := toml.NewEncoder(f).Encode(config.Default()); err != nil {
				return err
			}
			printSuccess("Wrote default configuration")
			printFile(config.FileName)
			return nil
		},
	})
	return cmd
}
