package validate

import (
	"fmt"

	"github.com/matzehuels/pipelinedag/pkg/graph"
)

// Report messages. Dynamic messages are built with fmt from the templates.
const (
	MsgTooFewNodes    = "Pipeline must have at least 2 nodes"
	MsgUnconnectedFmt = "%d node(s) are not connected to any edges"
	MsgCycle          = "Pipeline contains cycles - DAGs cannot have circular dependencies"
	MsgSelfLoop       = "Self-connections are not allowed"
	MsgStatsFmt       = "%d nodes, %d edges"
	MsgNoConnections  = "No connections between nodes"
)

const minimumPipelineLen = 2

// Validate checks the structural health of g. See [ValidateParts].
func Validate(g graph.Graph) Report {
	return ValidateParts(g.Nodes, g.Edges)
}

// ValidateParts checks the structural health of a pipeline given as node
// and edge slices. Nil slices are empty collections.
//
// The checks run in a fixed order and each one appends independently:
//
//  1. fewer than 2 nodes is an error
//  2. nodes not touched by any edge endpoint are an error
//  3. any directed cycle is an error
//  4. any self-loop is an error
//  5. node and edge counts are always reported as info
//  6. at least one node and no edges is a warning
//
// The report is valid when there are no errors and at least 2 nodes.
// ValidateParts never fails: dangling edges, duplicates and self-loops are
// data conditions. It is pure and runs in O(V+E).
func ValidateParts(nodes []graph.Node, edges []graph.Edge) Report {
	r := Report{
		Errors:    []string{},
		Warnings:  []string{},
		Info:      []string{},
		NodeCount: len(nodes),
		EdgeCount: len(edges),
	}

	if len(nodes) < minimumPipelineLen {
		r.Errors = append(r.Errors, MsgTooFewNodes)
	}

	touched := make(map[string]struct{}, 2*len(edges))
	for _, e := range edges {
		touched[e.Source] = struct{}{}
		touched[e.Target] = struct{}{}
	}
	unconnected := 0
	for _, n := range nodes {
		if _, ok := touched[n.ID]; !ok {
			unconnected++
		}
	}
	if unconnected > 0 {
		r.Errors = append(r.Errors, fmt.Sprintf(MsgUnconnectedFmt, unconnected))
	}

	if HasCycle(nodes, edges) {
		r.Errors = append(r.Errors, MsgCycle)
	}

	for _, e := range edges {
		if e.IsSelfLoop() {
			r.Errors = append(r.Errors, MsgSelfLoop)
			break
		}
	}

	r.Info = append(r.Info, fmt.Sprintf(MsgStatsFmt, len(nodes), len(edges)))

	if len(nodes) > 0 && len(edges) == 0 {
		r.Warnings = append(r.Warnings, MsgNoConnections)
	}

	r.Valid = len(r.Errors) == 0 && len(nodes) >= minimumPipelineLen
	return r
}

// HasCycle reports whether the edges form a directed cycle among the known
// nodes. Self-loops count as cycles.
//
// Adjacency is keyed by node id: edges whose source is unknown are ignored
// and unknown targets are visited but never expanded. A depth-first search
// with visited and on-stack sets starts from every unvisited node in input
// order and stops at the first edge back onto the stack. The search uses an
// explicit stack, so deep pipelines cannot overflow the goroutine stack.
func HasCycle(nodes []graph.Node, edges []graph.Edge) bool {
	adjacency := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		if _, ok := adjacency[n.ID]; !ok {
			adjacency[n.ID] = nil
		}
	}
	for _, e := range edges {
		if succ, ok := adjacency[e.Source]; ok {
			adjacency[e.Source] = append(succ, e.Target)
		}
	}

	type frame struct {
		id   string
		next int
	}

	visited := make(map[string]bool, len(nodes))
	onStack := make(map[string]bool, len(nodes))
	var stack []frame

	for _, root := range nodes {
		if visited[root.ID] {
			continue
		}
		visited[root.ID] = true
		onStack[root.ID] = true
		stack = append(stack[:0], frame{id: root.ID})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			succ := adjacency[top.id]
			if top.next == len(succ) {
				onStack[top.id] = false
				stack = stack[:len(stack)-1]
				continue
			}
			next := succ[top.next]
			top.next++
			if onStack[next] {
				return true
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			onStack[next] = true
			stack = append(stack, frame{id: next})
		}
	}
	return false
}
