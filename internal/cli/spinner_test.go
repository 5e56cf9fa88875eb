package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	errs "github.com/matzehuels/pipelinedag/pkg/errors"
	"github.com/matzehuels/pipelinedag/pkg/graph"
)

func TestLayoutSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := newLayoutSpinner(context.Background(), &buf, graph.LeftToRight, 3)
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	got := buf.String()
	if !strings.Contains(got, "Laying out 3 steps (LR)") {
		t.Errorf("output missing label: %q", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("line should be cleared on stop: %q", got)
	}
	if s.Interrupted() {
		t.Error("a stopped spinner is not interrupted")
	}
}

func TestLayoutSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newLayoutSpinner(ctx, &bytes.Buffer{}, graph.TopToBottom, 1)
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after cancellation")
	}
	if !s.Interrupted() {
		t.Error("Interrupted() = false after the context was cancelled")
	}
	s.Stop()
}

func TestLayoutSpinnerStopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	s := newLayoutSpinner(context.Background(), &buf, graph.TopToBottom, 0)
	s.Stop()
	s.Stop()
	if buf.Len() != 0 {
		t.Errorf("nothing was drawn, nothing to clear: %q", buf.String())
	}
}

func TestLayoutSpinnerFail(t *testing.T) {
	var buf bytes.Buffer
	saved := out
	out = &buf
	t.Cleanup(func() { out = saved })

	s := newLayoutSpinner(context.Background(), &bytes.Buffer{}, graph.TopToBottom, 2)
	s.Start()
	s.Fail(errs.New(errs.ErrCodeLayoutFailed, "provider exploded"))
	if !strings.Contains(buf.String(), "Layout failed") {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	s = newLayoutSpinner(context.Background(), &bytes.Buffer{}, graph.TopToBottom, 2)
	s.Fail(errs.New(errs.ErrCodeCancelled, "layout cancelled"))
	if !strings.Contains(buf.String(), "Layout cancelled") {
		t.Errorf("output = %q", buf.String())
	}
}
