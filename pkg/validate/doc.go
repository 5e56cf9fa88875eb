// Package validate reports the structural health of a pipeline graph.
//
// [Validate] is the function hosts call on every graph mutation. It is
// pure, deterministic and O(V+E), and it tolerates anything a user can
// build: zero nodes, zero edges, self-loops, duplicate edges and edges to
// nodes that no longer exist. Such conditions show up in the [Report], they
// are never returned as Go errors.
//
//	r := validate.Validate(g)
//	fmt.Println(r.Summary())
//	for _, msg := range r.Errors {
//	    fmt.Println("  ✗", msg)
//	}
//
// A pipeline is valid when it has at least two nodes, every node is touched
// by an edge, and there are neither cycles nor self-loops.
package validate
