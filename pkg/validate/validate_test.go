package validate

import (
	"fmt"
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/pipelinedag/pkg/graph"
)

func nodes(ids ...string) []graph.Node {
	out := make([]graph.Node, len(ids))
	for i, id := range ids {
		out[i] = graph.Node{ID: id}
	}
	return out
}

func edges(pairs ...[2]string) []graph.Edge {
	out := make([]graph.Edge, len(pairs))
	for i, p := range pairs {
		out[i] = graph.Edge{ID: fmt.Sprintf("e%d", i), Source: p[0], Target: p[1]}
	}
	return out
}

func TestValidateScenarios(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []graph.Node
		edges    []graph.Edge
		want     Report
		wantStat Status
	}{
		{
			name:  "Empty",
			nodes: nil,
			edges: nil,
			want: Report{
				Errors:   []string{MsgTooFewNodes},
				Warnings: []string{},
				Info:     []string{"0 nodes, 0 edges"},
			},
			wantStat: StatusEmpty,
		},
		{
			name:  "SingleNode",
			nodes: nodes("n1"),
			want: Report{
				Errors:    []string{MsgTooFewNodes, "1 node(s) are not connected to any edges"},
				Warnings:  []string{MsgNoConnections},
				Info:      []string{"1 nodes, 0 edges"},
				NodeCount: 1,
			},
			wantStat: StatusInvalid,
		},
		{
			name:  "TwoNodesNoEdges",
			nodes: nodes("n1", "n2"),
			want: Report{
				Errors:    []string{"2 node(s) are not connected to any edges"},
				Warnings:  []string{MsgNoConnections},
				Info:      []string{"2 nodes, 0 edges"},
				NodeCount: 2,
			},
			wantStat: StatusInvalid,
		},
		{
			name:  "TwoNodesOneEdge",
			nodes: nodes("n1", "n2"),
			edges: edges([2]string{"n1", "n2"}),
			want: Report{
				Valid:     true,
				Errors:    []string{},
				Warnings:  []string{},
				Info:      []string{"2 nodes, 1 edges"},
				NodeCount: 2,
				EdgeCount: 1,
			},
			wantStat: StatusValid,
		},
		{
			name:  "Triangle",
			nodes: nodes("A", "B", "C"),
			edges: edges([2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "A"}),
			want: Report{
				Errors:    []string{MsgCycle},
				Warnings:  []string{},
				Info:      []string{"3 nodes, 3 edges"},
				NodeCount: 3,
				EdgeCount: 3,
			},
			wantStat: StatusInvalid,
		},
		{
			name:  "SelfLoopIsAlsoACycle",
			nodes: nodes("A", "B"),
			edges: edges([2]string{"A", "B"}, [2]string{"B", "B"}),
			want: Report{
				Errors:    []string{MsgCycle, MsgSelfLoop},
				Warnings:  []string{},
				Info:      []string{"2 nodes, 2 edges"},
				NodeCount: 2,
				EdgeCount: 2,
			},
			wantStat: StatusInvalid,
		},
		{
			name:  "DisconnectedCycle",
			nodes: nodes("A", "B", "C", "D"),
			edges: edges([2]string{"C", "D"}, [2]string{"D", "C"}),
			want: Report{
				Errors:    []string{"2 node(s) are not connected to any edges", MsgCycle},
				Warnings:  []string{},
				Info:      []string{"4 nodes, 2 edges"},
				NodeCount: 4,
				EdgeCount: 2,
			},
			wantStat: StatusInvalid,
		},
		{
			name:  "DanglingEdgeTouchesNode",
			nodes: nodes("A", "B"),
			edges: edges([2]string{"A", "ghost"}, [2]string{"ghost", "B"}),
			want: Report{
				Valid:     true,
				Errors:    []string{},
				Warnings:  []string{},
				Info:      []string{"2 nodes, 2 edges"},
				NodeCount: 2,
				EdgeCount: 2,
			},
			wantStat: StatusValid,
		},
		{
			name:  "ParallelEdges",
			nodes: nodes("A", "B"),
			edges: edges([2]string{"A", "B"}, [2]string{"A", "B"}),
			want: Report{
				Valid:     true,
				Errors:    []string{},
				Warnings:  []string{},
				Info:      []string{"2 nodes, 2 edges"},
				NodeCount: 2,
				EdgeCount: 2,
			},
			wantStat: StatusValid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateParts(tt.nodes, tt.edges)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ValidateParts() =\n  %+v\nwant\n  %+v", got, tt.want)
			}
			if got.Status() != tt.wantStat {
				t.Errorf("Status() = %s, want %s", got.Status(), tt.wantStat)
			}
		})
	}
}

func TestHasCycle(t *testing.T) {
	tests := []struct {
		name  string
		nodes []graph.Node
		edges []graph.Edge
		want  bool
	}{
		{"Triangle", nodes("A", "B", "C"), edges([2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "A"}), true},
		{"Chain", nodes("A", "B", "C"), edges([2]string{"A", "B"}, [2]string{"B", "C"}), false},
		{"Disconnected", nodes("A", "B", "C", "D"), edges([2]string{"C", "D"}, [2]string{"D", "C"}), true},
		{"SelfLoop", nodes("A"), edges([2]string{"A", "A"}), true},
		{"Diamond", nodes("A", "B", "C", "D"), edges([2]string{"A", "B"}, [2]string{"A", "C"}, [2]string{"B", "D"}, [2]string{"C", "D"}), false},
		{"UnknownSourceIgnored", nodes("A"), edges([2]string{"ghost", "A"}, [2]string{"A", "ghost"}), false},
		{"CycleThroughUnknown", nodes("A", "B"), edges([2]string{"A", "ghost"}, [2]string{"ghost", "A"}), false},
		{"Nil", nil, nil, false},
		{"EdgesOnly", nil, edges([2]string{"A", "A"}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCycle(tt.nodes, tt.edges); got != tt.want {
				t.Errorf("HasCycle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasCycleDeepPipeline(t *testing.T) {
	const n = 200000
	ns := make([]graph.Node, n)
	es := make([]graph.Edge, n-1)
	for i := range ns {
		ns[i] = graph.Node{ID: fmt.Sprintf("n%d", i)}
		if i > 0 {
			es[i-1] = graph.Edge{ID: fmt.Sprintf("e%d", i), Source: ns[i-1].ID, Target: ns[i].ID}
		}
	}
	if HasCycle(ns, es) {
		t.Fatal("HasCycle() = true for a chain")
	}
	es = append(es, graph.Edge{ID: "back", Source: ns[n-1].ID, Target: ns[0].ID})
	if !HasCycle(ns, es) {
		t.Fatal("HasCycle() = false for a closed chain")
	}
}

// TestValidateProperties checks the invariants over a family of generated
// graphs.
func TestValidateProperties(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	var pairs [][2]string
	for _, s := range ids {
		for _, d := range ids {
			pairs = append(pairs, [2]string{s, d})
		}
	}

	// every subset of up to 3 edges over up to 4 nodes
	for nodeCount := 0; nodeCount <= len(ids); nodeCount++ {
		ns := nodes(ids[:nodeCount]...)
		for i := range pairs {
			for j := i; j < len(pairs); j++ {
				for k := j; k < len(pairs); k++ {
					es := edges(pairs[i], pairs[j], pairs[k])
					checkProperties(t, ns, es)
				}
			}
		}
	}
}

func checkProperties(t *testing.T, ns []graph.Node, es []graph.Edge) {
	t.Helper()
	r := ValidateParts(ns, es)

	if again := ValidateParts(ns, es); !reflect.DeepEqual(r, again) {
		t.Fatalf("not deterministic for %v %v", ns, es)
	}
	if len(ns) < 2 && (r.Valid || !slices.Contains(r.Errors, MsgTooFewNodes)) {
		t.Fatalf("too few nodes accepted: %v", r)
	}
	if slices.ContainsFunc(es, graph.Edge.IsSelfLoop) && !slices.Contains(r.Errors, MsgSelfLoop) {
		t.Fatalf("self-loop not reported for %v", es)
	}
	if r.Valid {
		if len(ns) < 2 || len(r.Errors) != 0 || HasCycle(ns, es) {
			t.Fatalf("invalid graph accepted: %v %v", ns, es)
		}
		for _, n := range ns {
			touched := slices.ContainsFunc(es, func(e graph.Edge) bool { return e.Source == n.ID || e.Target == n.ID })
			if !touched {
				t.Fatalf("valid report with unconnected node %s", n.ID)
			}
		}
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	g := graph.Graph{Nodes: nodes("b", "a"), Edges: edges([2]string{"b", "a"}, [2]string{"a", "a"})}
	before := g.Clone()
	Validate(g)
	if !reflect.DeepEqual(g, before) {
		t.Errorf("Validate mutated its input")
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name string
		g    graph.Graph
		want string
	}{
		{"Valid", graph.Graph{Nodes: nodes("a", "b"), Edges: edges([2]string{"a", "b"})}, "Valid DAG (2 nodes, 1 edges)"},
		{"OneError", graph.Graph{Nodes: nodes("a", "b", "c"), Edges: edges([2]string{"a", "b"})}, "Invalid DAG (1 error)"},
		{"ErrorsAndWarning", graph.Graph{Nodes: nodes("a")}, "Invalid DAG (2 errors, 1 warning)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.g).Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}
