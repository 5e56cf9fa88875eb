// Package dag provides the indexed, row-organised graph that the layered
// layout works on.
//
// # Overview
//
// Pipeline graphs arrive as plain node and edge slices. Layered layout
// needs fast parent/child lookups, a rank ("row") per node and a per-rank
// index, which is what [DAG] provides. Every iteration ([DAG.Nodes],
// [DAG.Sources], [DAG.NodesInRow]) follows insertion order, so layouts
// computed on a DAG are reproducible.
//
//	g := dag.New()
//	_ = g.AddNode(dag.Node{ID: "extract", Width: 200, Height: 80})
//	_ = g.AddNode(dag.Node{ID: "load", Width: 200, Height: 80})
//	_ = g.AddEdge(dag.Edge{From: "extract", To: "load"})
//
// # Node Kinds
//
//   - [NodeKindRegular]: an original pipeline node
//   - [NodeKindSubdivider]: a zero-size node that splits an edge spanning
//     several ranks, so that crossing counts see long edges
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count inversions with a
// Fenwick tree in O(E log V); [CountPairCrossings] scores a single adjacent
// swap. The ordering phase of the layout uses them to evaluate candidates.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
//
// The [transform] subpackage holds cycle breaking, rank assignment and edge
// subdivision.
//
// [transform]: github.com/matzehuels/pipelinedag/pkg/dag/transform
package dag
