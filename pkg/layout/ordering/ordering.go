// Package ordering arranges the nodes within each rank of a layered graph
// so that edges cross as little as possible.
package ordering

import (
	"context"

	"github.com/matzehuels/pipelinedag/pkg/dag"
)

// Orderer is an interface for within-rank ordering algorithms.
// An orderer determines the sequence of nodes in each row to minimize edge
// crossings.
type Orderer interface {
	OrderRows(g *dag.DAG) map[int][]string
}

// ContextOrderer is an Orderer that supports cancellation and timeouts
// via a context. On cancellation it returns the best ordering found so far.
type ContextOrderer interface {
	Orderer
	OrderRowsContext(ctx context.Context, g *dag.DAG) map[int][]string
}

// Quality represents the desired trade-off between ordering speed and quality.
// Every level is deterministic; higher levels sweep more often.
type Quality int

const (
	QualityFast Quality = iota
	QualityBalanced
	QualityOptimal
)

// Passes returns the number of barycenter sweeps used for q.
func (q Quality) Passes() int {
	switch q {
	case QualityFast:
		return 4
	case QualityOptimal:
		return 96
	default:
		return 24
	}
}

// ParseQuality maps "fast", "balanced" and "optimal" to a Quality.
// Anything else yields QualityBalanced and false.
func ParseQuality(s string) (Quality, bool) {
	switch s {
	case "fast":
		return QualityFast, true
	case "balanced", "":
		return QualityBalanced, true
	case "optimal":
		return QualityOptimal, true
	}
	return QualityBalanced, false
}

// String returns the name of the quality level.
func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityOptimal:
		return "optimal"
	default:
		return "balanced"
	}
}
