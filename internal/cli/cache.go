package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipelinedag/internal/config"
	"github.com/matzehuels/pipelinedag/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			store, err := c.newCache(cmd.Context(), cfg, false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			if d, ok := store.(*cache.Disabled); ok {
				printInfo("Caching is disabled (%s), nothing to clear", d.Reason)
				return nil
			}
			clearer, ok := store.(cache.Clearer)
			if !ok {
				return fmt.Errorf("clear cache: %s backend cannot be cleared", cfg.Cache.Backend)
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cache cleared")
			printDetail("Location: %s", cacheLocation(cfg))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached layouts are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, cacheLocation(cfg))
			return nil
		},
	}
}

// cacheLocation describes the configured backend: a directory, a redis
// address or "disabled".
func cacheLocation(cfg *config.Config) string {
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return "disabled"
	case config.BackendRedis:
		return "redis://" + cfg.Cache.RedisAddr
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		return "disabled"
	}
	return dir
}
