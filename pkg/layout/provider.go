package layout

import (
	"context"

	"github.com/matzehuels/pipelinedag/pkg/graph"
)

// Provider computes a layered placement. It is the single extension point
// of the layout engine: a hand-written Sugiyama implementation and a
// Graphviz-backed one both satisfy it.
//
// ComputeRanksAndPositions returns the CENTRE of every box in the topology,
// in a y-down coordinate system. Implementations must be deterministic for
// a given input and should return ctx.Err() promptly once ctx is done. The
// engine treats a panic like a returned error.
type Provider interface {
	ComputeRanksAndPositions(ctx context.Context, t Topology, s Sizing, dir graph.Direction) (map[string]graph.Position, error)
}

// ProviderFunc adapts a function to the [Provider] interface.
type ProviderFunc func(ctx context.Context, t Topology, s Sizing, dir graph.Direction) (map[string]graph.Position, error)

// ComputeRanksAndPositions calls f.
func (f ProviderFunc) ComputeRanksAndPositions(ctx context.Context, t Topology, s Sizing, dir graph.Direction) (map[string]graph.Position, error) {
	return f(ctx, t, s, dir)
}

// Box is a node as seen by a provider: an id and a box size.
type Box struct {
	ID     string
	Width  float64
	Height float64
}

// Arc is a directed connection between two boxes.
type Arc struct {
	Source string
	Target string
}

// Topology is the provider's view of a graph. Boxes keep input order.
// Arcs keep input order, are deduplicated by (source, target) and never
// reference unknown boxes. Self-loops are kept.
type Topology struct {
	Boxes []Box
	Arcs  []Arc
}

// NewTopology builds the topology of g with box sizes resolved against s.
// Node ids are expected to be valid and unique.
func NewTopology(g graph.Graph, s Sizing) Topology {
	t := Topology{Boxes: make([]Box, 0, len(g.Nodes))}
	known := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		w, h := s.BoxFor(n)
		t.Boxes = append(t.Boxes, Box{ID: n.ID, Width: w, Height: h})
		known[n.ID] = struct{}{}
	}

	seen := make(map[Arc]struct{}, len(g.Edges))
	for _, e := range g.Edges {
		if _, ok := known[e.Source]; !ok {
			continue
		}
		if _, ok := known[e.Target]; !ok {
			continue
		}
		a := Arc{Source: e.Source, Target: e.Target}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		t.Arcs = append(t.Arcs, a)
	}
	return t
}
