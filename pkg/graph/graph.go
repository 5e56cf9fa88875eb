package graph

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/pipelinedag/pkg/errors"
)

// Format identifies an input encoding for graphs.
type Format string

// Supported input formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the input format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "cannot infer graph format from %q", path)
}

// =============================================================================
// Graph Input API
// =============================================================================

// ReadFile reads a graph from a JSON or YAML file, picking the decoder by
// extension.
func ReadFile(path string) (Graph, error) {
	if err := errs.ValidateGraphPath(path); err != nil {
		return Graph{}, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return Graph{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Graph{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, format)
}

// Decode reads a graph in the given format from r.
func Decode(r io.Reader, format Format) (Graph, error) {
	var g Graph
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&g); err != nil {
			return Graph{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode json graph")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&g); err != nil && err != io.EOF {
			return Graph{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode yaml graph")
		}
	default:
		return Graph{}, errs.New(errs.ErrCodeInvalidFormat, "unsupported graph format: %q", format)
	}
	return g, nil
}

// Marshal encodes g as canonical JSON: nodes sorted by ID, edges sorted by
// (source, target, id). Two graphs with the same content produce identical
// bytes regardless of slice order. Node positions are excluded.
func Marshal(g Graph) ([]byte, error) {
	nodes := hashNodes(g)
	slices.SortFunc(nodes, func(a, b hashNode) int { return strings.Compare(a.ID, b.ID) })

	edges := slices.Clone(g.Edges)
	slices.SortFunc(edges, func(a, b Edge) int {
		if c := strings.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		if c := strings.Compare(a.Target, b.Target); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return encodeHashed(nodes, edges)
}

// Hash returns the hex SHA-256 of the canonical encoding of g. Graphs that
// differ only in slice order or node positions hash the same.
func (g Graph) Hash() (string, error) {
	data, err := Marshal(g)
	if err != nil {
		return "", err
	}
	return sum(data), nil
}

// LayoutHash is like Hash but keeps node and edge input order. Layout
// tie-breaking follows input order, so this is the hash to key cached
// layouts on.
func (g Graph) LayoutHash() (string, error) {
	data, err := encodeHashed(hashNodes(g), g.Edges)
	if err != nil {
		return "", err
	}
	return sum(data), nil
}

type hashNode struct {
	ID     string  `json:"id"`
	Width  float64 `json:"w,omitempty"`
	Height float64 `json:"h,omitempty"`
}

func hashNodes(g Graph) []hashNode {
	nodes := make([]hashNode, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = hashNode{ID: n.ID, Width: n.Width, Height: n.Height}
	}
	return nodes
}

func encodeHashed(nodes []hashNode, edges []Edge) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(struct {
		Nodes []hashNode `json:"nodes"`
		Edges []Edge     `json:"edges"`
	}{nodes, edges}); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

func sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// =============================================================================
// Helpers
// =============================================================================

// Clone returns a deep copy of g.
func (g Graph) Clone() Graph {
	return Graph{
		Nodes: slices.Clone(g.Nodes),
		Edges: slices.Clone(g.Edges),
	}
}

// NodeIDs returns the node IDs in input order.
func (g Graph) NodeIDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// HasNode reports whether a node with the given ID exists.
func (g Graph) HasNode(id string) bool {
	return slices.ContainsFunc(g.Nodes, func(n Node) bool { return n.ID == id })
}

// CheckIDs verifies the identifier contract the layout engine relies on:
// every node id is non-empty and unique. Id length and content are not
// restricted here. Edges are not checked; dangling edges are a data
// condition, not a contract violation.
func (g Graph) CheckIDs() error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return errs.New(errs.ErrCodeInvalidInput, "node id cannot be empty")
		}
		if _, dup := seen[n.ID]; dup {
			return errs.New(errs.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	return nil
}
