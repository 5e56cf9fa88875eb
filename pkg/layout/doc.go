// Package layout computes layered (hierarchical) placements for pipeline
// graphs.
//
// # Overview
//
// [Engine.Layout] takes a graph, a [graph.Direction] and a [Sizing] and
// returns a [Result]: the new top-left corner of every node plus the edge
// anchor sides implied by the direction. Every input node gets exactly one
// position; cycles, self-loops and dangling edges never stop a layout.
//
// The engine delegates rank assignment, ordering and coordinates to a
// [Provider]. Two implementations exist:
//
//   - [github.com/matzehuels/pipelinedag/pkg/layout/sugiyama]: the default,
//     a deterministic Sugiyama implementation
//   - [github.com/matzehuels/pipelinedag/pkg/layout/graphviz]: Graphviz dot
//
// # Sizing
//
// Box sizes and gaps come from a preset chosen by [SizingFor] from a
// [DisplayContext]. Viewports narrower than [CompactBreakpoint] get the
// compact preset. A node carrying its own width and height keeps it.
//
// # Failures
//
// Contract violations fail fast with INVALID_INPUT or INVALID_DIRECTION.
// Provider errors and panics become LAYOUT_FAILED and a done context
// becomes CANCELLED. Both are recoverable: the caller keeps its current
// positions.
//
// # Interactive Hosts
//
// [Coordinator] makes sure a stale layout never overwrites a newer one: a
// new request cancels the one in flight and identical concurrent requests
// share a single computation.
//
//	res, ok, err := coord.Request(ctx, g, graph.TopToBottom, layout.SizingFor(display))
//	if err == nil && ok {
//	    g = layout.Apply(g, res)
//	}
package layout
