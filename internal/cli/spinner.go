package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	errs "github.com/matzehuels/pipelinedag/pkg/errors"
	"github.com/matzehuels/pipelinedag/pkg/graph"
)

// spinnerOut receives the layout animation. Tests swap it out.
var spinnerOut io.Writer = os.Stderr

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// layoutSpinner animates a status line while a layout is computed. It
// stops drawing on its own once ctx is done.
type layoutSpinner struct {
	w      io.Writer
	label  string
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	start  time.Time

	started bool
	once    sync.Once
	stopped chan struct{}

	mu    sync.Mutex
	drawn int // widest line written so far
}

// newLayoutSpinner creates a spinner for laying out steps nodes in dir.
func newLayoutSpinner(ctx context.Context, w io.Writer, dir graph.Direction, steps int) *layoutSpinner {
	sctx, cancel := context.WithCancel(ctx)
	return &layoutSpinner{
		w:       w,
		label:   fmt.Sprintf("Laying out %d steps (%s)", steps, dir),
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		start:   time.Now(),
		stopped: make(chan struct{}),
	}
}

// Start draws a frame every tick until Stop is called or ctx is done.
func (s *layoutSpinner) Start() {
	s.started = true
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *layoutSpinner) draw(frame string) {
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.label)
	if d := time.Since(s.start); d >= time.Second {
		line += StyleDim.Render(fmt.Sprintf(" %.0fs", d.Seconds()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.w, "\r"+line)
	s.drawn = max(s.drawn, lipgloss.Width(line))
}

// Stop ends the animation and clears the line. Later calls do nothing.
func (s *layoutSpinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started {
			<-s.stopped
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.drawn > 0 {
			fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.drawn)+"\r")
		}
	})
}

// Fail stops the spinner and reports why the layout did not finish.
func (s *layoutSpinner) Fail(err error) {
	s.Stop()
	if s.Interrupted() || errs.Is(err, errs.ErrCodeCancelled) {
		printError("Layout cancelled")
		return
	}
	printError("Layout failed")
}

// Interrupted reports whether the caller's context ended before Stop.
func (s *layoutSpinner) Interrupted() bool {
	return s.parent.Err() != nil
}
