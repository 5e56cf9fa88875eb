package graphviz

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/pipelinedag/pkg/graph"
	"github.com/matzehuels/pipelinedag/pkg/layout"
)

func chain() layout.Topology {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "extract"}, {ID: "clean \"raw\""}, {ID: "load"}},
		Edges: []graph.Edge{
			{ID: "e1", Source: "extract", Target: "clean \"raw\""},
			{ID: "e2", Source: "clean \"raw\"", Target: "load"},
		},
	}
	return layout.NewTopology(g, layout.NormalSizing)
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(chain(), layout.NormalSizing, graph.LeftToRight)

	for _, want := range []string{
		"rankdir=LR",
		"nodesep=0.6944",
		"ranksep=1.1111",
		"n0 [width=2.7778, height=1.1111];",
		"n0 -> n1;",
		"n1 -> n2;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "raw") {
		t.Error("node ids must not leak into DOT")
	}
}

func TestParsePositions(t *testing.T) {
	out := []byte(`digraph G {
	graph [bb="0,0,200,368",
		nodesep=0.6944,
		rankdir=TB,
		ranksep=1.1111
	];
	node [fixedsize=true,
		label="",
		shape=box
	];
	n0	[height=1.1111,
		pos="100,328",
		width=2.7778];
	n1	[height=1.1111,
		pos="100,184",
		width=2.7778];
	n0 -> n1	[pos="e,100,224.1 100,287.8 100,271.7 100,252.4 100,234.3"];
	n2	[height=1.1111, pos="1e+02,4\
0", width=2.7778];
}
`)

	got, err := ParsePositions(out)
	if err != nil {
		t.Fatalf("ParsePositions() error = %v", err)
	}
	want := map[string]graph.Position{
		"n0": {X: 100, Y: 40},
		"n1": {X: 100, Y: 184},
		"n2": {X: 100, Y: 328},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d positions, want %d: %v", len(got), len(want), got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %+v, want %+v", k, got[k], v)
		}
	}
}

func TestParsePositionsNoBoundingBox(t *testing.T) {
	if _, err := ParsePositions([]byte("digraph G { n0 [pos=\"1,2\"]; }")); err == nil {
		t.Error("expected error without bb")
	}
}

func TestProviderEmpty(t *testing.T) {
	got, err := New().ComputeRanksAndPositions(context.Background(), layout.Topology{}, layout.NormalSizing, graph.TopToBottom)
	if err != nil || len(got) != 0 {
		t.Errorf("ComputeRanksAndPositions(empty) = %v, %v", got, err)
	}
}

func TestProviderLayout(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the Graphviz wasm engine")
	}

	topo := chain()
	got, err := New().ComputeRanksAndPositions(context.Background(), topo, layout.NormalSizing, graph.TopToBottom)
	if err != nil {
		t.Fatalf("ComputeRanksAndPositions() error = %v", err)
	}
	if len(got) != len(topo.Boxes) {
		t.Fatalf("got %d positions, want %d", len(got), len(topo.Boxes))
	}
	if !(got["extract"].Y < got["clean \"raw\""].Y && got["clean \"raw\""].Y < got["load"].Y) {
		t.Errorf("ranks not top to bottom: %+v", got)
	}
}
