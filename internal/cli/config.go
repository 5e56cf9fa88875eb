package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipelinedag/internal/config"
)

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML.

The output merges the built-in defaults with the config file, so it can be
saved as a starting point for a new file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			return cfg.Encode(out)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				path = config.FindConfigPath()
			}
			if path == "" {
				printInfo("No config file found, using defaults")
				return nil
			}
			fmt.Fprintln(out, path)
			return nil
		},
	})

	return cmd
}
