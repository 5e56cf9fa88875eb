package cli

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pipelinedag/pkg/graph"
)

// newLogger creates the CLI logger. Timestamps have hundredths of a
// second (e.g. "14:32:01.45") so phase timings line up with them.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          appName,
	})
}

// phaseTimer logs at debug level how long each phase of a command took on
// one graph file. Every entry carries the file name and graph size.
type phaseTimer struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newPhaseTimer(l *log.Logger, path string, g graph.Graph) *phaseTimer {
	now := time.Now()
	return &phaseTimer{
		logger: l.With("graph", filepath.Base(path), "nodes", g.NodeCount(), "edges", g.EdgeCount()),
		start:  now,
		last:   now,
	}
}

// mark logs the end of phase with the time since the previous mark.
func (p *phaseTimer) mark(phase string, keyvals ...any) {
	now := time.Now()
	kv := append([]any{"took", now.Sub(p.last).Round(time.Microsecond)}, keyvals...)
	p.logger.Debug(phase+" done", kv...)
	p.last = now
}

// finish logs the total time since the timer was created.
func (p *phaseTimer) finish() {
	p.logger.Debug("finished", "total", time.Since(p.start).Round(time.Microsecond))
}

type loggerKey struct{}

// withLogger attaches l to ctx for the commands run under it.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFrom returns the logger attached to ctx, or fallback.
func loggerFrom(ctx context.Context, fallback *log.Logger) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return fallback
}
