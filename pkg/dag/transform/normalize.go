package transform

import "github.com/matzehuels/pipelinedag/pkg/dag"

// Result contains metrics about the transformations applied to a DAG.
type Result struct {
	// CyclesRemoved is the number of back edges (self-loops included)
	// removed by cycle breaking.
	CyclesRemoved int

	// TransitiveEdgesRemoved is the number of redundant edges removed. It
	// is always zero unless [Options.ReduceTransitive] is set.
	TransitiveEdgesRemoved int

	// SubdividersAdded is the number of zero-size nodes inserted to split
	// long edges.
	SubdividersAdded int

	// MaxRow is the deepest rank after all transformations.
	MaxRow int
}

// Options configures [NormalizeWithOptions].
//
// The zero value breaks cycles, assigns layers and subdivides long edges.
type Options struct {
	// ReduceTransitive removes transitive edges after cycle breaking.
	// Reduced edges take no part in ordering but are still drawn by the
	// host.
	ReduceTransitive bool
}

// Normalize prepares g for ordering and coordinate assignment with default
// options. g is modified in place.
func Normalize(g *dag.DAG) Result {
	return NormalizeWithOptions(g, Options{})
}

// NormalizeWithOptions applies, in order: cycle breaking, optional
// transitive reduction, layer assignment and subdivision. Afterwards every
// edge connects consecutive rows and g.Validate returns nil.
func NormalizeWithOptions(g *dag.DAG, opts Options) Result {
	var r Result
	r.CyclesRemoved = BreakCycles(g)
	if opts.ReduceTransitive {
		r.TransitiveEdgesRemoved = TransitiveReduction(g)
	}
	AssignLayers(g)
	r.SubdividersAdded = Subdivide(g)
	r.MaxRow = g.MaxRow()
	return r
}
