// Package sugiyama is the default layout provider: a deterministic
// Sugiyama-style layered drawing built on the indexed DAG.
//
// The phases are:
//
//  1. cycle breaking, so layout never requires an acyclic input
//  2. longest-path rank assignment; isolated nodes land in rank 0
//  3. subdivision of edges spanning several ranks
//  4. barycentric crossing minimisation
//  5. coordinate assignment
//
// The context is checked between phases.
package sugiyama

import (
	"context"
	"fmt"

	"github.com/matzehuels/pipelinedag/pkg/dag"
	"github.com/matzehuels/pipelinedag/pkg/dag/transform"
	"github.com/matzehuels/pipelinedag/pkg/graph"
	"github.com/matzehuels/pipelinedag/pkg/layout"
	"github.com/matzehuels/pipelinedag/pkg/layout/ordering"
)

// DefaultAlignPasses is the number of coordinate refinement sweeps used
// when Options.AlignPasses is 0.
const DefaultAlignPasses = 8

// Options tunes the provider. The zero value is ready to use.
type Options struct {
	// Quality selects the effort spent on crossing minimisation.
	Quality ordering.Quality

	// ReduceTransitive drops edges implied by longer paths before ranking.
	// They take no part in ordering but are still drawn by the host.
	ReduceTransitive bool

	// AlignPasses is the number of sweeps that pull boxes toward their
	// neighbours. Zero means DefaultAlignPasses; negative disables
	// alignment so that boxes are simply packed.
	AlignPasses int
}

// Provider implements [layout.Provider].
type Provider struct {
	opts Options
}

var _ layout.Provider = (*Provider)(nil)

// New returns a provider with the given options.
func New(opts Options) *Provider {
	return &Provider{opts: opts}
}

// ComputeRanksAndPositions lays out t and returns box centres.
func (p *Provider) ComputeRanksAndPositions(ctx context.Context, t layout.Topology, s layout.Sizing, dir graph.Direction) (map[string]graph.Position, error) {
	g, err := build(t)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transform.NormalizeWithOptions(g, transform.Options{ReduceTransitive: p.opts.ReduceTransitive})
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	orders := ordering.New(p.opts.Quality).OrderRowsContext(ctx, g)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	passes := p.opts.AlignPasses
	if passes == 0 {
		passes = DefaultAlignPasses
	}
	centres := assign(g, orders, s, dir.IsHorizontal(), max(passes, 0))

	out := make(map[string]graph.Position, len(t.Boxes))
	for _, b := range t.Boxes {
		out[b.ID] = centres[b.ID]
	}
	return out, nil
}

// build indexes the topology. Box and arc order become insertion order.
func build(t layout.Topology) (*dag.DAG, error) {
	g := dag.New()
	for _, b := range t.Boxes {
		if err := g.AddNode(dag.Node{ID: b.ID, Width: b.Width, Height: b.Height}); err != nil {
			return nil, fmt.Errorf("add node %q: %w", b.ID, err)
		}
	}
	for _, a := range t.Arcs {
		if err := g.AddEdge(dag.Edge{From: a.Source, To: a.Target}); err != nil {
			return nil, fmt.Errorf("add arc %s→%s: %w", a.Source, a.Target, err)
		}
	}
	return g, nil
}
