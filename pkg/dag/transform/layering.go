package transform

import "github.com/matzehuels/pipelinedag/pkg/dag"

// AssignLayers assigns every node a row (rank) using the longest-path rule:
// sources sit at row 0 and every other node sits one row below its deepest
// parent. Isolated nodes are sources and therefore land on row 0.
//
// The traversal is Kahn's algorithm seeded in insertion order, so ties are
// resolved the same way on every run. Existing rows are overwritten.
//
// AssignLayers assumes the graph is acyclic. Nodes on a cycle never reach
// in-degree zero and keep row 0; run [BreakCycles] first.
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		rows[n.ID] = 0
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}
