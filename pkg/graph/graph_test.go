package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/pipelinedag/pkg/errors"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{"TB", TopToBottom, false},
		{"tb", TopToBottom, false},
		{" LR ", LeftToRight, false},
		{"", DefaultDirection, false},
		{"BT", "", true},
		{"vertical", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDirection(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidDirection) {
			t.Errorf("ParseDirection(%q) code = %v, want %v", tt.input, errs.GetCode(err), errs.ErrCodeInvalidDirection)
		}
		if got != tt.want {
			t.Errorf("ParseDirection(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDirectionAnchors(t *testing.T) {
	target, source := TopToBottom.Anchors()
	if target != SideTop || source != SideBottom {
		t.Errorf("TB anchors = (%s, %s), want (top, bottom)", target, source)
	}

	target, source = LeftToRight.Anchors()
	if target != SideLeft || source != SideRight {
		t.Errorf("LR anchors = (%s, %s), want (left, right)", target, source)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		format    Format
		input     string
		wantNodes int
		wantEdges int
		wantErr   bool
	}{
		{
			name:      "JSON",
			format:    FormatJSON,
			input:     `{"nodes":[{"id":"a","label":"Extract"},{"id":"b"}],"edges":[{"id":"e1","source":"a","target":"b"}]}`,
			wantNodes: 2,
			wantEdges: 1,
		},
		{
			name:   "YAML",
			format: FormatYAML,
			input: `nodes:
  - id: a
    position: {x: 10, y: 20}
  - id: b
edges:
  - source: a
    target: b
`,
			wantNodes: 2,
			wantEdges: 1,
		},
		{
			name:   "EmptyYAML",
			format: FormatYAML,
			input:  "",
		},
		{
			name:    "BadJSON",
			format:  FormatJSON,
			input:   `{"nodes":[`,
			wantErr: true,
		},
		{
			name:    "UnknownFormat",
			format:  Format("xml"),
			input:   `<graph/>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Decode(strings.NewReader(tt.input), tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errs.Is(err, errs.ErrCodeInvalidFormat) {
					t.Errorf("Decode() code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidFormat)
				}
				return
			}
			if g.NodeCount() != tt.wantNodes {
				t.Errorf("NodeCount() = %d, want %d", g.NodeCount(), tt.wantNodes)
			}
			if g.EdgeCount() != tt.wantEdges {
				t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), tt.wantEdges)
			}
		})
	}
}

func TestDecodeYAMLPosition(t *testing.T) {
	g, err := Decode(strings.NewReader("nodes:\n  - id: a\n    position: {x: 10, y: 20}\n"), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got := g.Nodes[0].Position; got != (Position{X: 10, Y: 20}) {
		t.Errorf("Position = %+v, want {10 20}", got)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "pipeline.json")
	if err := os.WriteFile(path, []byte(`{"nodes":[{"id":"a"}],"edges":[]}`), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", g.NodeCount())
	}

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) code = %v, want %v", errs.GetCode(err), errs.ErrCodeFileNotFound)
	}

	_, err = ReadFile(filepath.Join(dir, "pipeline.txt"))
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("ReadFile(txt) code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidFormat)
	}
}

func TestMarshalCanonical(t *testing.T) {
	a := Graph{
		Nodes: []Node{{ID: "b"}, {ID: "a", Position: Position{X: 5}}},
		Edges: []Edge{{ID: "e2", Source: "b", Target: "a"}, {ID: "e1", Source: "a", Target: "b"}},
	}
	b := Graph{
		Nodes: []Node{{ID: "a", Position: Position{X: 99, Y: 1}}, {ID: "b"}},
		Edges: []Edge{{ID: "e1", Source: "a", Target: "b"}, {ID: "e2", Source: "b", Target: "a"}},
	}

	da, err := Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	db, err := Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(da, db) {
		t.Errorf("Marshal() not canonical:\n%s\n%s", da, db)
	}

	c := a.Clone()
	c.Nodes[0].Width = 300
	c.Nodes[0].Height = 100
	dc, _ := Marshal(c)
	if bytes.Equal(da, dc) {
		t.Error("Marshal() should include node sizes")
	}
}

func TestCheckIDs(t *testing.T) {
	tests := []struct {
		name    string
		g       Graph
		wantErr bool
	}{
		{"Empty", Graph{}, false},
		{"Unique", Graph{Nodes: []Node{{ID: "a"}, {ID: "b"}}}, false},
		{"DanglingEdgeIsFine", Graph{Nodes: []Node{{ID: "a"}}, Edges: []Edge{{Source: "a", Target: "zz"}}}, false},
		{"Duplicate", Graph{Nodes: []Node{{ID: "a"}, {ID: "a"}}}, true},
		{"EmptyID", Graph{Nodes: []Node{{ID: ""}}}, true},
		{"LongID", Graph{Nodes: []Node{{ID: strings.Repeat("x", 300)}}}, false},
		{"ControlCharID", Graph{Nodes: []Node{{ID: "a\tb"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.CheckIDs()
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckIDs() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: "a"}}, Edges: []Edge{{Source: "a", Target: "a"}}}
	c := g.Clone()
	c.Nodes[0].Position.X = 42
	c.Edges[0].Target = "b"

	if g.Nodes[0].Position.X != 0 || g.Edges[0].Target != "a" {
		t.Error("Clone() shares backing arrays with the original")
	}
}

func TestNodeHelpers(t *testing.T) {
	n := Node{ID: "n1"}
	if n.DisplayLabel() != "n1" {
		t.Errorf("DisplayLabel() = %q, want n1", n.DisplayLabel())
	}
	n.Label = "Extract"
	if n.DisplayLabel() != "Extract" {
		t.Errorf("DisplayLabel() = %q, want Extract", n.DisplayLabel())
	}
	if n.HasSize() {
		t.Error("HasSize() = true for zero size")
	}
	if !(Edge{Source: "x", Target: "x"}).IsSelfLoop() {
		t.Error("IsSelfLoop() = false for x→x")
	}
	if !(Graph{Nodes: []Node{n}}).HasNode("n1") {
		t.Error("HasNode(n1) = false")
	}
}

func TestHashIgnoresOrderAndPosition(t *testing.T) {
	a := Graph{
		Nodes: []Node{{ID: "x"}, {ID: "y", Position: Position{X: 5, Y: 9}}},
		Edges: []Edge{{ID: "e1", Source: "x", Target: "y"}},
	}
	b := Graph{
		Nodes: []Node{{ID: "y"}, {ID: "x"}},
		Edges: []Edge{{ID: "e1", Source: "x", Target: "y"}},
	}
	ha, err := a.Hash()
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	hb, _ := b.Hash()
	if ha != hb {
		t.Errorf("Hash() differs: %s vs %s", ha, hb)
	}
	if len(ha) != 64 {
		t.Errorf("len(Hash()) = %d, want 64", len(ha))
	}

	b.Nodes = append(b.Nodes, Node{ID: "z"})
	if hc, _ := b.Hash(); hc == ha {
		t.Error("Hash() unchanged after adding a node")
	}
}

func TestLayoutHashKeepsOrder(t *testing.T) {
	a := Graph{Nodes: []Node{{ID: "x"}, {ID: "y"}}}
	b := Graph{Nodes: []Node{{ID: "y"}, {ID: "x"}}}

	ha, err := a.LayoutHash()
	if err != nil {
		t.Fatalf("LayoutHash() error = %v", err)
	}
	if hb, _ := b.LayoutHash(); ha == hb {
		t.Error("LayoutHash() ignores node order")
	}

	moved := a.Clone()
	moved.Nodes[0].Position = Position{X: 3}
	if hm, _ := moved.LayoutHash(); hm != ha {
		t.Error("LayoutHash() should ignore positions")
	}
}
