// Package cli implements the pipelinedag command-line interface.
//
// The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - validate: check a pipeline graph, optionally re-checking on every save
//   - layout: compute layered positions and write them as JSON
//   - edit: interactive graph editor with live validation and auto layout
//   - serve: HTTP API with Prometheus metrics
//   - cache: clear or locate the layout cache
//   - config: show the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is carried in the command context.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pipelinedag/internal/config"
	"github.com/matzehuels/pipelinedag/pkg/buildinfo"
	"github.com/matzehuels/pipelinedag/pkg/cache"
	"github.com/matzehuels/pipelinedag/pkg/pipeline"
)

// appName is the application name used for display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Validate and lay out pipeline DAGs",
		Long:          `pipelinedag checks that a pipeline graph is a proper DAG and computes layered (Sugiyama-style) node positions for it, top-to-bottom or left-to-right.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/pipelinedag/config.toml)")

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, path, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	runner := pipeline.NewRunner(store, newKeyer(cfg), c.Logger)
	runner.TTL = cfg.Cache.TTL.Std()
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewDisabled("--no-cache"), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewDisabled(`backend = "none"`), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewDisabled("no cache directory"), nil
	}
	return cache.NewFileCache(dir)
}

func newKeyer(cfg *config.Config) cache.Keyer {
	if cfg.Cache.Namespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, cfg.Cache.Namespace+":")
}

// =============================================================================
// Layout Flags
// =============================================================================

// layoutFlags are the layout options shared by several commands. Only flags
// set on the command line override the configuration.
type layoutFlags struct {
	direction     string
	engine        string
	quality       string
	viewportWidth float64
	compact       bool
	nodeGap       float64
	rankGap       float64
	reduce        bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.direction, "direction", "d", pipeline.DefaultDirection, "layout direction: TB, LR")
	fs.StringVarP(&f.engine, "engine", "e", pipeline.DefaultEngine, "layout engine: sugiyama, graphviz")
	fs.StringVar(&f.quality, "quality", pipeline.DefaultQuality, "crossing minimisation effort: fast, balanced, optimal")
	fs.Float64Var(&f.viewportWidth, "viewport-width", 0, "display width in pixels; below 640 selects compact sizing")
	fs.BoolVar(&f.compact, "compact", false, "force compact (or --compact=false normal) sizing")
	fs.Float64Var(&f.nodeGap, "node-gap", 0, "gap between nodes of a rank")
	fs.Float64Var(&f.rankGap, "rank-gap", 0, "gap between ranks")
	fs.BoolVar(&f.reduce, "reduce", false, "drop transitive edges before ranking")
}

// options merges the flags that were set over the configured defaults.
func (f *layoutFlags) options(cmd *cobra.Command, cfg *config.Config) pipeline.Options {
	opts := cfg.LayoutOptions()
	fs := cmd.Flags()
	if fs.Changed("direction") {
		opts.Direction = f.direction
	}
	if fs.Changed("engine") {
		opts.Engine = f.engine
	}
	if fs.Changed("quality") {
		opts.Quality = f.quality
	}
	if fs.Changed("viewport-width") {
		opts.ViewportWidth = f.viewportWidth
	}
	if fs.Changed("compact") {
		opts.Compact = &f.compact
	}
	if fs.Changed("node-gap") {
		opts.NodeGap = &f.nodeGap
	}
	if fs.Changed("rank-gap") {
		opts.RankGap = &f.rankGap
	}
	if fs.Changed("reduce") {
		opts.Reduce = f.reduce
	}
	return opts
}
