package transform

import "github.com/matzehuels/pipelinedag/pkg/dag"

// BreakCycles removes back edges until the graph is acyclic and returns the
// number of edges removed. Self-loops are always removed.
//
// The search is a depth-first traversal with an explicit stack. Roots are
// visited sources first, then any node not yet reached, both in insertion
// order, so the same input always loses the same edges. An edge is removed
// when it points at a node still on the current path.
//
// BreakCycles panics if g is nil.
func BreakCycles(g *dag.DAG) int {
	const (
		white = iota
		gray
		black
	)

	type frame struct {
		id   string
		next int
	}

	color := make(map[string]int, g.NodeCount())
	var backEdges []dag.Edge

	visit := func(root string) {
		color[root] = gray
		stack := []frame{{id: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.Children(top.id)
			if top.next == len(children) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++
			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{id: child})
			case gray:
				backEdges = append(backEdges, dag.Edge{From: top.id, To: child})
			}
		}
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e.From, e.To)
	}
	return len(backEdges)
}
