package sugiyama

import (
	"math"

	"github.com/matzehuels/pipelinedag/pkg/dag"
	"github.com/matzehuels/pipelinedag/pkg/graph"
	"github.com/matzehuels/pipelinedag/pkg/layout"
)

// frame maps the rank axis and the in-rank axis onto x and y. For
// top-to-bottom layouts ranks advance along y; for left-to-right along x.
type frame struct {
	horizontal bool
}

// along returns the extent of n in the rank direction.
func (f frame) along(n *dag.Node) float64 {
	if f.horizontal {
		return n.Width
	}
	return n.Height
}

// across returns the extent of n within its rank.
func (f frame) across(n *dag.Node) float64 {
	if f.horizontal {
		return n.Height
	}
	return n.Width
}

func (f frame) point(along, across float64) graph.Position {
	if f.horizontal {
		return graph.Position{X: along, Y: across}
	}
	return graph.Position{X: across, Y: along}
}

// assign computes box centres for every node of g, subdividers included.
//
// Each rank is as thick as its largest box and consecutive ranks are
// RankGap apart. Within a rank boxes are packed NodeGap apart (half that
// next to a subdivider), then alternately pulled toward the mean centre of
// their parents and of their children without changing order or breaking
// the minimum separation. Finally the drawing is translated so that the
// smallest top-left corner of a regular node is at the origin.
func assign(g *dag.DAG, orders map[int][]string, s layout.Sizing, horizontal bool, passes int) map[string]graph.Position {
	f := frame{horizontal: horizontal}
	rows := g.RowIDs()
	node := func(id string) *dag.Node {
		n, _ := g.Node(id)
		return n
	}

	rankPos := make(map[int]float64, len(rows))
	cursor := 0.0
	for i, r := range rows {
		thick := 0.0
		for _, id := range orders[r] {
			thick = math.Max(thick, f.along(node(id)))
		}
		if i > 0 {
			cursor += s.RankGap
		}
		rankPos[r] = cursor + thick/2
		cursor += thick
	}

	seps := make(map[int][]float64, len(rows))
	cross := make(map[string]float64, g.NodeCount())
	for _, r := range rows {
		ids := orders[r]
		sep := make([]float64, len(ids))
		for i := 1; i < len(ids); i++ {
			a, b := node(ids[i-1]), node(ids[i])
			gap := s.NodeGap
			if a.IsSubdivider() || b.IsSubdivider() {
				gap /= 2
			}
			sep[i] = (f.across(a)+f.across(b))/2 + gap
		}
		seps[r] = sep

		pos := 0.0
		for i, id := range ids {
			pos += sep[i]
			cross[id] = pos
		}
	}

	for pass := 0; pass < passes; pass++ {
		down := pass%2 == 0
		for i := range rows {
			r := rows[i]
			if !down {
				r = rows[len(rows)-1-i]
			}
			ids := orders[r]
			desired := make([]float64, len(ids))
			for j, id := range ids {
				nbrs := g.Parents(id)
				if !down {
					nbrs = g.Children(id)
				}
				desired[j] = cross[id]
				if len(nbrs) == 0 {
					continue
				}
				sum := 0.0
				for _, nb := range nbrs {
					sum += cross[nb]
				}
				desired[j] = sum / float64(len(nbrs))
			}
			for j, x := range place(desired, seps[r]) {
				cross[ids[j]] = x
			}
		}
	}

	minAlong, minAcross := math.Inf(1), math.Inf(1)
	for _, n := range g.Nodes() {
		if n.IsSubdivider() {
			continue
		}
		minAlong = math.Min(minAlong, rankPos[n.Row]-f.along(n)/2)
		minAcross = math.Min(minAcross, cross[n.ID]-f.across(n)/2)
	}
	if math.IsInf(minAlong, 1) {
		minAlong, minAcross = 0, 0
	}

	out := make(map[string]graph.Position, g.NodeCount())
	for _, n := range g.Nodes() {
		out[n.ID] = f.point(rankPos[n.Row]-minAlong, cross[n.ID]-minAcross)
	}
	return out
}

// place returns coordinates as close as possible (least squares) to
// desired while keeping order and x[i]-x[i-1] >= sep[i].
//
// Subtracting the cumulative separation turns the constraints into plain
// monotonicity, which pool-adjacent-violators solves exactly.
func place(desired, sep []float64) []float64 {
	n := len(desired)
	offset := make([]float64, n)
	for i := 1; i < n; i++ {
		offset[i] = offset[i-1] + sep[i]
	}

	type block struct {
		sum   float64
		count int
	}
	mean := func(b block) float64 { return b.sum / float64(b.count) }

	blocks := make([]block, 0, n)
	for i := range desired {
		blocks = append(blocks, block{sum: desired[i] - offset[i], count: 1})
		for len(blocks) > 1 {
			last := len(blocks) - 1
			if mean(blocks[last-1]) <= mean(blocks[last]) {
				break
			}
			blocks[last-1].sum += blocks[last].sum
			blocks[last-1].count += blocks[last].count
			blocks = blocks[:last]
		}
	}

	out := make([]float64, 0, n)
	for _, b := range blocks {
		m := mean(b)
		for k := 0; k < b.count; k++ {
			out = append(out, m+offset[len(out)])
		}
	}
	return out
}
