package ordering

import (
	"context"
	"maps"
	"slices"

	"github.com/matzehuels/pipelinedag/pkg/dag"
)

// DefaultPasses is the number of sweeps used when Barycentric.Passes is 0.
const DefaultPasses = 24

// maxTransposeRounds bounds the adjacent-swap refinement after each sweep.
const maxTransposeRounds = 8

// Barycentric orders rows with the barycenter heuristic.
//
// Sweeps alternate direction: a down sweep sorts each row by the mean
// position of its parents, an up sweep by the mean position of its
// children. After every sweep adjacent nodes are swapped while that removes
// crossings. The ordering with the fewest crossings seen is returned.
//
// Sorting is stable and starts from insertion order, so ties always resolve
// the same way and the result is deterministic.
type Barycentric struct {
	// Passes is the number of sweeps. Zero means DefaultPasses.
	Passes int
}

// New returns a Barycentric orderer sized for q.
func New(q Quality) Barycentric {
	return Barycentric{Passes: q.Passes()}
}

// OrderRows orders g without a deadline.
func (b Barycentric) OrderRows(g *dag.DAG) map[int][]string {
	return b.OrderRowsContext(context.Background(), g)
}

// OrderRowsContext orders g, stopping early when ctx is done.
func (b Barycentric) OrderRowsContext(ctx context.Context, g *dag.DAG) map[int][]string {
	orders := initialOrders(g)
	if len(orders) == 0 {
		return orders
	}

	passes := b.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}

	best := cloneOrders(orders)
	bestCrossings := dag.CountCrossings(g, best)
	maxRow := g.MaxRow()

	for pass := 0; pass < passes && bestCrossings > 0; pass++ {
		if ctx.Err() != nil {
			break
		}
		if pass%2 == 0 {
			for r := 1; r <= maxRow; r++ {
				sortByBarycenter(g, orders, r, r-1, true)
			}
		} else {
			for r := maxRow - 1; r >= 0; r-- {
				sortByBarycenter(g, orders, r, r+1, false)
			}
		}
		transpose(g, orders, maxRow)

		if c := dag.CountCrossings(g, orders); c < bestCrossings {
			best = cloneOrders(orders)
			bestCrossings = c
		}
	}
	return best
}

func initialOrders(g *dag.DAG) map[int][]string {
	orders := make(map[int][]string, g.RowCount())
	for _, r := range g.RowIDs() {
		orders[r] = dag.NodeIDs(g.NodesInRow(r))
	}
	return orders
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for r, ids := range orders {
		out[r] = slices.Clone(ids)
	}
	return out
}

// sortByBarycenter reorders row r by the mean position of each node's
// neighbours in row adj. Nodes without neighbours there keep their current
// index as barycenter.
func sortByBarycenter(g *dag.DAG, orders map[int][]string, r, adj int, useParents bool) {
	row := orders[r]
	if len(row) < 2 {
		return
	}
	adjPos := dag.PosMap(orders[adj])

	bary := make(map[string]float64, len(row))
	for i, id := range row {
		nbrs := g.Children(id)
		if useParents {
			nbrs = g.Parents(id)
		}
		sum, n := 0.0, 0
		for _, nb := range nbrs {
			if p, ok := adjPos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		if n == 0 {
			bary[id] = float64(i)
			continue
		}
		bary[id] = sum / float64(n)
	}

	slices.SortStableFunc(row, func(a, b string) int {
		switch {
		case bary[a] < bary[b]:
			return -1
		case bary[a] > bary[b]:
			return 1
		}
		return 0
	})
}

// transpose swaps adjacent nodes while doing so strictly reduces the
// crossings with both neighbouring rows.
func transpose(g *dag.DAG, orders map[int][]string, maxRow int) {
	rows := slices.Sorted(maps.Keys(orders))
	for round := 0; round < maxTransposeRounds; round++ {
		improved := false
		for _, r := range rows {
			row := orders[r]
			var above, below map[string]int
			if r > 0 {
				above = dag.PosMap(orders[r-1])
			}
			if r < maxRow {
				below = dag.PosMap(orders[r+1])
			}
			for i := 0; i+1 < len(row); i++ {
				u, v := row[i], row[i+1]
				before := pairCrossings(g, u, v, above, below)
				after := pairCrossings(g, v, u, above, below)
				if after < before {
					row[i], row[i+1] = v, u
					improved = true
				}
			}
		}
		if !improved {
			return
		}
	}
}

func pairCrossings(g *dag.DAG, left, right string, above, below map[string]int) int {
	c := 0
	if above != nil {
		c += dag.CountPairCrossings(g, left, right, above, true)
	}
	if below != nil {
		c += dag.CountPairCrossings(g, left, right, below, false)
	}
	return c
}
