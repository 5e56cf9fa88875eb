package layout

import (
	"context"
	"errors"
	"fmt"

	errs "github.com/matzehuels/pipelinedag/pkg/errors"
	"github.com/matzehuels/pipelinedag/pkg/graph"
)

// Result is the outcome of a layout: the new top-left corner of every node
// and the edge anchor sides implied by the direction.
type Result struct {
	Positions  map[string]graph.Position `json:"positions"`
	SourceSide graph.Side                `json:"sourcePosition"`
	TargetSide graph.Side                `json:"targetPosition"`
}

// Engine turns a graph into a [Result] with a [Provider]. It validates the
// call contract, resolves box sizes, converts provider centres to top-left
// corners and contains provider failures.
//
// An Engine holds no mutable state and is safe for concurrent use if its
// provider is.
type Engine struct {
	provider Provider
}

// NewEngine creates an engine backed by p.
func NewEngine(p Provider) *Engine {
	return &Engine{provider: p}
}

// Layout computes a layered placement for every node of g.
//
// Box sizes come from s, except that a node carrying both its own Width
// and Height keeps them in place of the preset. Positions are top-left
// corners.
//
// Contract violations (empty or duplicate node ids, an unknown
// direction, invalid sizing) return INVALID_INPUT or INVALID_DIRECTION.
// A provider error or panic returns LAYOUT_FAILED and a done context
// returns CANCELLED; in both cases the caller should keep its current
// positions. g is never modified.
func (e *Engine) Layout(ctx context.Context, g graph.Graph, dir graph.Direction, s Sizing) (Result, error) {
	if !dir.Valid() {
		return Result{}, errs.New(errs.ErrCodeInvalidDirection, "invalid direction %q", string(dir))
	}
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	if err := g.CheckIDs(); err != nil {
		return Result{}, err
	}

	target, source := dir.Anchors()
	res := Result{
		Positions:  make(map[string]graph.Position, len(g.Nodes)),
		SourceSide: source,
		TargetSide: target,
	}
	if len(g.Nodes) == 0 {
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, errs.Wrap(errs.ErrCodeCancelled, err, "layout cancelled")
	}

	topo := NewTopology(g, s)
	centres, err := e.compute(ctx, topo, s, dir)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result{}, errs.Wrap(errs.ErrCodeCancelled, err, "layout cancelled")
		}
		return Result{}, errs.Wrap(errs.ErrCodeLayoutFailed, err, "layout provider")
	}

	for _, b := range topo.Boxes {
		c, ok := centres[b.ID]
		if !ok {
			return Result{}, errs.New(errs.ErrCodeLayoutFailed, "layout provider returned no position for node %q", b.ID)
		}
		res.Positions[b.ID] = graph.Position{
			X: c.X - b.Width/2,
			Y: c.Y - b.Height/2,
		}
	}
	return res, nil
}

func (e *Engine) compute(ctx context.Context, t Topology, s Sizing, dir graph.Direction) (centres map[string]graph.Position, err error) {
	if e.provider == nil {
		return nil, errors.New("no layout provider configured")
	}
	defer func() {
		if r := recover(); r != nil {
			centres, err = nil, fmt.Errorf("provider panic: %v", r)
		}
	}()
	return e.provider.ComputeRanksAndPositions(ctx, t, s, dir)
}

// Apply returns a copy of g in which every node with an entry in r takes
// the computed position. Positions the user set by hand are overwritten.
func Apply(g graph.Graph, r Result) graph.Graph {
	out := g.Clone()
	for i := range out.Nodes {
		if p, ok := r.Positions[out.Nodes[i].ID]; ok {
			out.Nodes[i].Position = p
		}
	}
	return out
}
