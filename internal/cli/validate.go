package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipelinedag/internal/watch"
	"github.com/matzehuels/pipelinedag/pkg/graph"
	"github.com/matzehuels/pipelinedag/pkg/validate"
)

// ErrInvalid is returned by commands that checked a pipeline and found it
// invalid. The report has already been printed.
var ErrInvalid = errors.New("pipeline is invalid")

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "validate <graph>",
		Short: "Check that a pipeline graph is a valid DAG",
		Long: `Check that a pipeline graph is a valid DAG.

The graph is read from a JSON or YAML file with "nodes" and "edges". The
report lists every problem found: too few steps, missing connections,
cycles, disconnected steps and self-connections.

With --watch the file is re-checked every time it is saved, until
interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watchFile {
				return c.watchValidate(cmd.Context(), args[0])
			}
			report, err := c.runValidate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !report.Valid {
				return ErrInvalid
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "re-validate whenever the file changes")

	return cmd
}

// runValidate loads and checks one graph file and prints the report.
func (c *CLI) runValidate(ctx context.Context, path string) (validate.Report, error) {
	g, err := graph.ReadFile(path)
	if err != nil {
		return validate.Report{}, fmt.Errorf("load graph %s: %w", path, err)
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return validate.Report{}, err
	}
	defer runner.Close()

	timer := newPhaseTimer(loggerFrom(ctx, c.Logger), path, g)
	report := runner.Validate(ctx, g)
	timer.mark("validate", "valid", report.Valid, "errors", len(report.Errors), "warnings", len(report.Warnings))
	printReport(report)
	return report, nil
}

// watchValidate validates path once and then after every change. Load
// errors while watching are printed and do not stop the watch.
func (c *CLI) watchValidate(ctx context.Context, path string) error {
	check := func() {
		if _, err := c.runValidate(ctx, path); err != nil {
			printError("%v", err)
		}
		printNewline()
	}

	check()
	printDetail("Watching %s (Ctrl+C to stop)", path)

	w := watch.New(path, check).WithLogger(c.Logger)
	err := w.Watch(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
