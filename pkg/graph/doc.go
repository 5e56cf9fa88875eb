// Package graph defines the pipeline graph shared by the validation and
// layout engines and by every host that drives them.
//
// # Core Types
//
//   - [Node]: a pipeline step with an id, a label, a top-left [Position]
//     and an optional logical size
//   - [Edge]: a directed dependency "Source feeds Target"
//   - [Graph]: the (nodes, edges) pair passed to the engines on every call
//   - [Direction]: TB or LR, selecting the rank axis of a layout
//   - [Side]: the border an edge anchors to
//
// Engines never mutate a [Graph]; they return derived values. Hosts own the
// single mutable graph and replace it wholesale with engine output.
//
// # Input
//
// Hosts read graphs from JSON or YAML:
//
//	{
//	  "nodes": [{"id": "extract"}, {"id": "load"}],
//	  "edges": [{"id": "e1", "source": "extract", "target": "load"}]
//	}
//
//	g, err := graph.ReadFile("pipeline.yaml")
//
// [Marshal] produces canonical bytes for cache keys. The package does not
// write graphs back; persisting a graph is the host's business.
package graph
