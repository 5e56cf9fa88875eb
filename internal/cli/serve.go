package cli

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pipelinedag/internal/server"
	"github.com/matzehuels/pipelinedag/pkg/observability"
	"github.com/matzehuels/pipelinedag/pkg/observability/prom"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags layoutFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve validation and layout over HTTP",
		Long: `Serve validation and layout over HTTP.

Endpoints:
  POST /v1/validate   validate the graph in the request body
  POST /v1/layout     lay out the graph in the request body
  GET  /healthz       liveness probe
  GET  /metrics       Prometheus metrics

Layout flags set the defaults for requests that do not override them with
query parameters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			defaults := flags.options(cmd, cfg)
			defaults.Logger = c.Logger
			defaults.SetDefaults()
			if err := defaults.Validate(); err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			hooks := prom.New(prometheus.DefaultRegisterer)
			observability.SetEngineHooks(hooks)
			observability.SetCacheHooks(hooks)
			defer observability.Reset()

			srv := server.New(runner, c.Logger, server.Config{
				Addr:           cfg.Server.Addr,
				Defaults:       defaults,
				RequestTimeout: cfg.Server.RequestTimeout.Std(),
				MaxBodyBytes:   cfg.Server.MaxBodyBytes,
				Gatherer:       prometheus.DefaultGatherer,
			})
			err = srv.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")

	return cmd
}
