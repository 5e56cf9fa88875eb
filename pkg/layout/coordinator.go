package layout

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	errs "github.com/matzehuels/pipelinedag/pkg/errors"
	"github.com/matzehuels/pipelinedag/pkg/graph"
)

// Coordinator serialises layout requests from an interactive host so that
// a stale layout never overwrites a fresher one.
//
// Every request receives a generation number. A request that differs from
// the one in flight cancels it; identical concurrent requests share one
// computation. Only the result of the newest request is reported as ok;
// superseded callers get ok=false and should discard whatever they have.
type Coordinator struct {
	engine *Engine
	group  singleflight.Group

	mu     sync.Mutex
	gen    uint64
	epoch  uint64
	key    string
	runCtx context.Context
	cancel context.CancelFunc
}

// NewCoordinator wraps e.
func NewCoordinator(e *Engine) *Coordinator {
	return &Coordinator{engine: e}
}

// Request computes a layout for g, superseding any earlier request.
//
// ok is true only if this is still the newest request when the layout
// completes; the caller should apply the result only then. A superseded
// request returns ok=false and a nil error. If ctx is done before the
// layout finishes, Request returns a CANCELLED error without stopping a
// computation that other callers share.
func (c *Coordinator) Request(ctx context.Context, g graph.Graph, dir graph.Direction, s Sizing) (Result, bool, error) {
	key, err := requestKey(g, dir, s)
	if err != nil {
		return Result{}, false, err
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	if key != c.key || c.runCtx == nil {
		if c.cancel != nil {
			c.cancel()
		}
		c.epoch++
		c.key = key
		c.runCtx, c.cancel = context.WithCancel(context.WithoutCancel(ctx))
	}
	runCtx := c.runCtx
	flight := fmt.Sprintf("%s#%d", key, c.epoch)
	c.mu.Unlock()

	ch := c.group.DoChan(flight, func() (any, error) {
		return c.engine.Layout(runCtx, g, dir, s)
	})

	select {
	case <-ctx.Done():
		return Result{}, false, errs.Wrap(errs.ErrCodeCancelled, ctx.Err(), "layout request cancelled")
	case r := <-ch:
		if !c.isCurrent(gen) {
			return Result{}, false, nil
		}
		if r.Err != nil {
			return Result{}, false, r.Err
		}
		return r.Val.(Result), true, nil
	}
}

// Generation returns the number of the newest request.
func (c *Coordinator) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Close cancels the layout in flight, if any.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	c.runCtx, c.cancel, c.key = nil, nil, ""
}

func (c *Coordinator) isCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen == gen
}

func requestKey(g graph.Graph, dir graph.Direction, s Sizing) (string, error) {
	h, err := g.LayoutHash()
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "hash graph")
	}
	return fmt.Sprintf("%s|%s|%t|%g|%g|%g|%g", h, dir, s.Compact, s.NodeWidth, s.NodeHeight, s.NodeGap, s.RankGap), nil
}
