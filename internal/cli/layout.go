package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipelinedag/pkg/graph"
	"github.com/matzehuels/pipelinedag/pkg/layout"
	"github.com/matzehuels/pipelinedag/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   layoutFlags
		output  string
		noCache bool
		apply   bool
	)

	cmd := &cobra.Command{
		Use:   "layout <graph>",
		Short: "Compute layered node positions for a pipeline graph",
		Long: `Compute layered node positions for a pipeline graph.

Steps are placed in ranks along the layout direction (TB: top to bottom,
LR: left to right) with edge crossings minimised inside each rank. The
output holds the position of every step and the sides edges attach to.

With --apply the output is the input graph with the positions filled in
instead.

Results are cached; see 'pipelinedag cache'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)
			return c.runLayout(cmd.Context(), args[0], output, opts, noCache, apply)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&apply, "apply", false, "write the graph with positions applied instead of the layout")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, opts pipeline.Options, noCache, apply bool) error {
	g, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFrom(ctx, c.Logger)
	opts.Logger = logger
	timer := newPhaseTimer(logger, input, g)

	spin := newLayoutSpinner(ctx, spinnerOut, opts.Dir(), g.NodeCount())
	spin.Start()

	res, cacheHit, err := runner.Layout(ctx, g, opts)
	if err != nil {
		spin.Fail(err)
		return fmt.Errorf("compute layout: %w", err)
	}
	spin.Stop()
	timer.mark("layout", "engine", opts.Engine, "direction", opts.Dir(), "cached", cacheHit)

	if spin.Interrupted() {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	var doc any = res
	if apply {
		doc = layout.Apply(g, res)
	}
	if err := writeJSON(outputPath, doc); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	timer.mark("write", "output", outputPath)
	timer.finish()

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
	if !apply {
		printNewline()
		printNextStep("Apply positions", appName+" layout --apply "+input)
	}

	return nil
}

// writeJSON writes v as indented JSON to path.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
