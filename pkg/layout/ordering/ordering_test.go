package ordering

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/matzehuels/pipelinedag/pkg/dag"
)

// layered builds a graph from rows of ids and edges between consecutive rows.
func layered(t *testing.T, rows [][]string, edges [][2]string) *dag.DAG {
	t.Helper()
	g := dag.New()
	for r, ids := range rows {
		for _, id := range ids {
			if err := g.AddNode(dag.Node{ID: id, Row: r}); err != nil {
				t.Fatal(err)
			}
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestBarycentricReducesCrossings(t *testing.T) {
	tests := []struct {
		name  string
		rows  [][]string
		edges [][2]string
		want  int
	}{
		{
			name:  "X",
			rows:  [][]string{{"a", "b"}, {"x", "y"}},
			edges: [][2]string{{"a", "y"}, {"b", "x"}},
			want:  0,
		},
		{
			name:  "Reversed",
			rows:  [][]string{{"a", "b", "c"}, {"z", "y", "x"}},
			edges: [][2]string{{"a", "x"}, {"b", "y"}, {"c", "z"}},
			want:  0,
		},
		{
			name:  "K22",
			rows:  [][]string{{"a", "b"}, {"x", "y"}},
			edges: [][2]string{{"a", "x"}, {"a", "y"}, {"b", "x"}, {"b", "y"}},
			want:  1,
		},
		{
			name:  "ThreeRows",
			rows:  [][]string{{"s"}, {"p", "q"}, {"u", "v"}},
			edges: [][2]string{{"s", "p"}, {"s", "q"}, {"p", "v"}, {"q", "u"}},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := layered(t, tt.rows, tt.edges)
			orders := Barycentric{}.OrderRows(g)
			if got := dag.CountCrossings(g, orders); got != tt.want {
				t.Errorf("crossings = %d, want %d (orders %v)", got, tt.want, orders)
			}
			for r, ids := range tt.rows {
				got := slices.Sorted(slices.Values(orders[r]))
				want := slices.Sorted(slices.Values(ids))
				if !slices.Equal(got, want) {
					t.Errorf("row %d = %v, want a permutation of %v", r, orders[r], ids)
				}
			}
		})
	}
}

func TestBarycentricKeepsInputOrderOnTies(t *testing.T) {
	g := layered(t, [][]string{{"c", "a", "b"}}, nil)
	orders := Barycentric{}.OrderRows(g)
	if !slices.Equal(orders[0], []string{"c", "a", "b"}) {
		t.Errorf("orders[0] = %v, want input order", orders[0])
	}
}

func TestBarycentricDeterministic(t *testing.T) {
	rows := [][]string{{"r0", "r1", "r2"}, {"m0", "m1", "m2", "m3"}, {"l0", "l1"}}
	edges := [][2]string{
		{"r0", "m3"}, {"r1", "m0"}, {"r2", "m1"}, {"r0", "m2"},
		{"m0", "l1"}, {"m1", "l0"}, {"m2", "l1"}, {"m3", "l0"},
	}

	want := fmt.Sprint(Barycentric{}.OrderRows(layered(t, rows, edges)))
	for i := 0; i < 20; i++ {
		if got := fmt.Sprint(Barycentric{}.OrderRows(layered(t, rows, edges))); got != want {
			t.Fatalf("run %d: %s, want %s", i, got, want)
		}
	}
}

func TestBarycentricCancelled(t *testing.T) {
	g := layered(t,
		[][]string{{"a", "b"}, {"x", "y"}},
		[][2]string{{"a", "y"}, {"b", "x"}},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orders := Barycentric{}.OrderRowsContext(ctx, g)
	if !slices.Equal(orders[1], []string{"x", "y"}) {
		t.Errorf("cancelled ordering = %v, want initial order", orders[1])
	}
}

func TestBarycentricEmpty(t *testing.T) {
	if got := (Barycentric{}).OrderRows(dag.New()); len(got) != 0 {
		t.Errorf("OrderRows(empty) = %v", got)
	}
}

func TestQuality(t *testing.T) {
	tests := []struct {
		in   string
		want Quality
		ok   bool
	}{
		{"fast", QualityFast, true},
		{"", QualityBalanced, true},
		{"optimal", QualityOptimal, true},
		{"bogus", QualityBalanced, false},
	}
	for _, tt := range tests {
		q, ok := ParseQuality(tt.in)
		if q != tt.want || ok != tt.ok {
			t.Errorf("ParseQuality(%q) = %v, %v; want %v, %v", tt.in, q, ok, tt.want, tt.ok)
		}
		if ok && q.String() != tt.in && tt.in != "" {
			t.Errorf("%v.String() = %q, want %q", q, q.String(), tt.in)
		}
	}
	if QualityFast.Passes() >= QualityOptimal.Passes() {
		t.Error("fast should sweep less than optimal")
	}
}
