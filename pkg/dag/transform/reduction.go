package transform

import "github.com/matzehuels/pipelinedag/pkg/dag"

// TransitiveReduction removes every edge (u, v) for which another path from
// u to v exists, and returns the number of edges removed. If extract→clean,
// clean→load and extract→load all exist, extract→load is removed.
//
// Layout uses it optionally: a reduced graph has fewer long edges, so fewer
// subdividers and usually fewer crossings. The reduction must run on an
// acyclic graph.
//
// Reachability is computed with an iterative search from every node, which
// costs O(V·E) time and O(V²) memory.
func TransitiveReduction(g *dag.DAG) int {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 0
	}

	index := dag.PosMap(dag.NodeIDs(nodes))
	adjacency := make([][]int, len(nodes))
	for _, e := range g.Edges() {
		adjacency[index[e.From]] = append(adjacency[index[e.From]], index[e.To])
	}

	reachable := computeReachability(adjacency)

	removed := 0
	for _, e := range g.Edges() {
		src, dst := index[e.From], index[e.To]
		for _, via := range adjacency[src] {
			if via != dst && reachable[via][dst] {
				g.RemoveEdge(e.From, e.To)
				removed++
				break
			}
		}
	}
	return removed
}

func computeReachability(adjacency [][]int) [][]bool {
	n := len(adjacency)
	reachable := make([][]bool, n)
	for source := range reachable {
		seen := make([]bool, n)
		stack := []int{source}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[cur] {
				continue
			}
			seen[cur] = true
			stack = append(stack, adjacency[cur]...)
		}
		reachable[source] = seen
	}
	return reachable
}
