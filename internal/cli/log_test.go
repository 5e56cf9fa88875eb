package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pipelinedag/pkg/graph"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("cache cleared") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("layout cache hit") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("layout cache hit") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
			if tt.wantLog && !strings.Contains(buf.String(), appName) {
				t.Errorf("entry should carry the %s prefix: %q", appName, buf.String())
			}
		})
	}
}

func TestPhaseTimer(t *testing.T) {
	var buf bytes.Buffer
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "extract"}, {ID: "load"}},
		Edges: []graph.Edge{{Source: "extract", Target: "load"}},
	}

	timer := newPhaseTimer(newLogger(&buf, log.DebugLevel), "/data/etl.json", g)
	timer.mark("layout", "cached", true)
	timer.finish()

	got := buf.String()
	for _, want := range []string{"layout done", "graph=etl.json", "nodes=2", "edges=1", "cached=true", "took=", "total="} {
		if !strings.Contains(got, want) {
			t.Errorf("log missing %q:\n%s", want, got)
		}
	}
}

func TestPhaseTimerQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	timer := newPhaseTimer(newLogger(&buf, log.InfoLevel), "etl.json", graph.Graph{})
	timer.mark("validate")
	timer.finish()
	if buf.Len() != 0 {
		t.Errorf("phase timings should only show with --verbose:\n%s", buf.String())
	}
}

func TestLoggerFrom(t *testing.T) {
	fallback := newLogger(io.Discard, log.InfoLevel)
	if got := loggerFrom(context.Background(), fallback); got != fallback {
		t.Error("loggerFrom should return the fallback when none is attached")
	}

	attached := newLogger(io.Discard, log.DebugLevel)
	ctx := withLogger(context.Background(), attached)
	if got := loggerFrom(ctx, fallback); got != attached {
		t.Error("loggerFrom should return the attached logger")
	}
}
