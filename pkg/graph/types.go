package graph

import (
	"strings"

	errs "github.com/matzehuels/pipelinedag/pkg/errors"
)

// =============================================================================
// Position - 2D Coordinates
// =============================================================================

// Position is a point in the host's coordinate system. For nodes it is the
// top-left corner of the node's box; x grows to the right and y downward.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// =============================================================================
// Node - Pipeline Step
// =============================================================================

// Node is a pipeline step. Nodes are structurally interchangeable: the
// engines only look at ID, Position and the optional logical size.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Position Position `json:"position" yaml:"position"`

	// Width and Height are the node's logical size, used only by layout.
	// Zero means "use the sizing preset".
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// HasSize reports whether the node carries its own logical size.
func (n *Node) HasSize() bool { return n.Width > 0 && n.Height > 0 }

// =============================================================================
// Edge - Directed Dependency
// =============================================================================

// Edge is a directed dependency: Source feeds Target. Edge identity is
// independent of the (Source, Target) pair, so parallel edges are legal.
type Edge struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// IsSelfLoop reports whether the edge connects a node to itself.
func (e Edge) IsSelfLoop() bool { return e.Source == e.Target }

// =============================================================================
// Graph - Nodes + Edges
// =============================================================================

// Graph is the pair of node and edge sets handed to the engines on every
// call. Engines treat it as read-only and return derived data.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// NodeCount returns the number of nodes.
func (g Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g Graph) EdgeCount() int { return len(g.Edges) }

// =============================================================================
// Direction - Layout Axis
// =============================================================================

// Direction selects the axis along which ranks are separated.
type Direction string

const (
	// TopToBottom stacks ranks vertically; edges flow downward.
	TopToBottom Direction = "TB"
	// LeftToRight stacks ranks horizontally; edges flow rightward.
	LeftToRight Direction = "LR"
)

// DefaultDirection is used when a caller does not choose one.
const DefaultDirection = TopToBottom

// ParseDirection parses "TB" or "LR" case-insensitively. The empty string
// yields DefaultDirection.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return DefaultDirection, nil
	case string(TopToBottom):
		return TopToBottom, nil
	case string(LeftToRight):
		return LeftToRight, nil
	}
	return "", errs.New(errs.ErrCodeInvalidDirection, "invalid direction: %q (must be one of: TB, LR)", s)
}

// IsHorizontal reports whether ranks advance along the x axis.
func (d Direction) IsHorizontal() bool { return d == LeftToRight }

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool { return d == TopToBottom || d == LeftToRight }

// Anchors returns the sides on which incoming (target) and outgoing (source)
// connections attach to a node under this direction.
func (d Direction) Anchors() (target, source Side) {
	if d.IsHorizontal() {
		return SideLeft, SideRight
	}
	return SideTop, SideBottom
}

// =============================================================================
// Side - Edge Anchor
// =============================================================================

// Side names the node border an edge attaches to.
type Side string

const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)
