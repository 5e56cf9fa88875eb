// Package graphviz is a layout provider backed by the Graphviz dot engine,
// compiled to WebAssembly by github.com/goccy/go-graphviz. It needs no
// system installation.
//
// Boxes are laid out as fixed-size rectangles with rankdir, nodesep and
// ranksep derived from the sizing. One pixel maps to one Graphviz point.
// Positions are read back from the rendered DOT output and flipped into a
// y-down coordinate system with the origin at the top-left of the bounding
// box.
package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pipelinedag/pkg/graph"
	"github.com/matzehuels/pipelinedag/pkg/layout"
)

// pointsPerInch converts pixel sizes to the inches dot expects.
const pointsPerInch = 72.0

// Provider implements [layout.Provider] with Graphviz dot.
type Provider struct{}

var _ layout.Provider = (*Provider)(nil)

// New returns a Graphviz provider.
func New() *Provider { return &Provider{} }

// ComputeRanksAndPositions runs dot on t and returns box centres.
func (p *Provider) ComputeRanksAndPositions(ctx context.Context, t layout.Topology, s layout.Sizing, dir graph.Direction) (map[string]graph.Position, error) {
	if len(t.Boxes) == 0 {
		return map[string]graph.Position{}, nil
	}

	dot := ToDOT(t, s, dir)
	out, err := render(ctx, dot)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byName, err := ParsePositions(out)
	if err != nil {
		return nil, err
	}

	centres := make(map[string]graph.Position, len(t.Boxes))
	for i, b := range t.Boxes {
		pos, ok := byName[nodeName(i)]
		if !ok {
			return nil, fmt.Errorf("graphviz returned no position for %q", b.ID)
		}
		centres[b.ID] = pos
	}
	return centres, nil
}

func render(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

func nodeName(i int) string { return "n" + strconv.Itoa(i) }

// ToDOT converts a topology to DOT. Nodes are named by index (n0, n1, ...)
// so that arbitrary ids never need escaping; labels are empty.
func ToDOT(t layout.Topology, s layout.Sizing, dir graph.Direction) string {
	index := make(map[string]int, len(t.Boxes))
	for i, b := range t.Boxes {
		index[b.ID] = i
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  graph [rankdir=%s, nodesep=%s, ranksep=%s];\n",
		dir, inches(s.NodeGap), inches(s.RankGap))
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("\n")

	for i, b := range t.Boxes {
		fmt.Fprintf(&buf, "  %s [width=%s, height=%s];\n", nodeName(i), inches(b.Width), inches(b.Height))
	}

	buf.WriteString("\n")
	for _, a := range t.Arcs {
		fmt.Fprintf(&buf, "  %s -> %s;\n", nodeName(index[a.Source]), nodeName(index[a.Target]))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 4, 64)
}

const num = `(-?[0-9]+(?:\.[0-9]*)?(?:e[-+]?[0-9]+)?)`

var (
	bbRe   = regexp.MustCompile(`bb="` + num + `,` + num + `,` + num + `,` + num + `"`)
	nodeRe = regexp.MustCompile(`(?m)^\s*(n[0-9]+)\s*\[([^\]]*)\]`)
	posRe  = regexp.MustCompile(`\bpos="` + num + `,` + num + `"`)
)

// ParsePositions extracts node centres from dot's DOT output. Coordinates
// are translated so that the top-left of the bounding box is the origin and
// y grows downward. Edge statements are ignored.
func ParsePositions(out []byte) (map[string]graph.Position, error) {
	// dot wraps long lines with a backslash-newline.
	text := strings.ReplaceAll(string(out), "\\\n", "")

	bb := bbRe.FindStringSubmatch(text)
	if bb == nil {
		return nil, fmt.Errorf("graphviz output has no bounding box")
	}
	left, err := strconv.ParseFloat(bb[1], 64)
	if err != nil {
		return nil, fmt.Errorf("bounding box: %w", err)
	}
	top, err := strconv.ParseFloat(bb[4], 64)
	if err != nil {
		return nil, fmt.Errorf("bounding box: %w", err)
	}

	positions := make(map[string]graph.Position)
	for _, m := range nodeRe.FindAllStringSubmatch(text, -1) {
		p := posRe.FindStringSubmatch(m[2])
		if p == nil {
			continue
		}
		x, err := strconv.ParseFloat(p[1], 64)
		if err != nil {
			return nil, fmt.Errorf("position of %s: %w", m[1], err)
		}
		y, err := strconv.ParseFloat(p[2], 64)
		if err != nil {
			return nil, fmt.Errorf("position of %s: %w", m[1], err)
		}
		positions[m[1]] = graph.Position{X: x - left, Y: top - y}
	}
	return positions, nil
}
