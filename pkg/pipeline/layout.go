package pipeline

import (
	"github.com/matzehuels/pipelinedag/pkg/layout"
	"github.com/matzehuels/pipelinedag/pkg/layout/graphviz"
	"github.com/matzehuels/pipelinedag/pkg/layout/ordering"
	"github.com/matzehuels/pipelinedag/pkg/layout/sugiyama"
)

// NewEngine builds the layout engine selected by opts.Engine.
func NewEngine(opts Options) *layout.Engine {
	return layout.NewEngine(NewProvider(opts))
}

// NewProvider returns the layered layout provider for opts.Engine. Unknown
// engines fall back to sugiyama; Options.Validate rejects them earlier.
func NewProvider(opts Options) layout.Provider {
	if opts.Engine == EngineGraphviz {
		return graphviz.New()
	}
	q, _ := ordering.ParseQuality(opts.Quality)
	return sugiyama.New(sugiyama.Options{
		Quality:          q,
		ReduceTransitive: opts.Reduce,
	})
}
