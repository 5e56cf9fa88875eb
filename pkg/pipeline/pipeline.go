// Package pipeline runs validation and layout for every entry point of
// pipelinedag (CLI, TUI and HTTP server).
//
// Centralising this logic keeps defaults, cache keys and instrumentation
// identical no matter how a request arrives.
//
// # Usage
//
// Create a Runner and lay out a graph:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, hit, err := runner.Layout(ctx, g, pipeline.Options{
//	    Direction:     "LR",
//	    ViewportWidth: 480,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g = layout.Apply(g, res)
//
// Validation never touches the cache:
//
//	report := runner.Validate(ctx, g)
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pipelinedag/pkg/cache"
	errs "github.com/matzehuels/pipelinedag/pkg/errors"
	"github.com/matzehuels/pipelinedag/pkg/graph"
	"github.com/matzehuels/pipelinedag/pkg/layout"
	"github.com/matzehuels/pipelinedag/pkg/layout/ordering"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, TUI and Server
// =============================================================================

// Layout engines.
const (
	EngineSugiyama = "sugiyama"
	EngineGraphviz = "graphviz"
)

const (
	// DefaultDirection is the default layout direction.
	DefaultDirection = string(graph.DefaultDirection)

	// DefaultEngine is the default layout engine.
	DefaultEngine = EngineSugiyama

	// DefaultQuality is the default crossing minimisation effort.
	DefaultQuality = "balanced"
)

// ValidEngines is the set of supported layout engines.
var ValidEngines = map[string]bool{
	EngineSugiyama: true,
	EngineGraphviz: true,
}

// =============================================================================
// Options - Layout Configuration
// =============================================================================

// Options contains all configuration for a layout request.
// This struct supports JSON serialization for API requests.
type Options struct {
	Direction string `json:"direction,omitempty"`
	Engine    string `json:"engine,omitempty"`
	Quality   string `json:"quality,omitempty"`

	// ViewportWidth selects the sizing preset; 0 means a regular display.
	ViewportWidth float64 `json:"viewport_width,omitempty"`

	// Compact forces the compact (true) or normal (false) preset regardless
	// of ViewportWidth.
	Compact *bool `json:"compact,omitempty"`

	// NodeGap and RankGap override the gaps of the selected preset.
	NodeGap *float64 `json:"node_gap,omitempty"`
	RankGap *float64 `json:"rank_gap,omitempty"`

	// Reduce drops transitive edges before ranking (sugiyama only).
	Reduce bool `json:"reduce,omitempty"`

	// Runtime options (not serialized)
	NoCache bool           `json:"-"`
	Presets layout.Presets `json:"-"` // zero value means layout.DefaultPresets
	Logger  *log.Logger    `json:"-"`
}

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Direction == "" {
		o.Direction = DefaultDirection
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Quality == "" {
		o.Quality = DefaultQuality
	}
	if o.Presets == (layout.Presets{}) {
		o.Presets = layout.DefaultPresets()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks every field. Call SetDefaults first.
func (o *Options) Validate() error {
	if _, err := graph.ParseDirection(o.Direction); err != nil {
		return err
	}
	if !ValidEngines[o.Engine] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid engine: %q (must be one of: sugiyama, graphviz)", o.Engine)
	}
	if _, ok := ordering.ParseQuality(o.Quality); !ok {
		return errs.New(errs.ErrCodeInvalidInput, "invalid quality: %q (must be one of: fast, balanced, optimal)", o.Quality)
	}
	if o.ViewportWidth < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "viewport width must not be negative, got %g", o.ViewportWidth)
	}
	return o.Sizing().Validate()
}

// Dir returns the parsed direction. Invalid values yield the default.
func (o *Options) Dir() graph.Direction {
	d, err := graph.ParseDirection(o.Direction)
	if err != nil {
		return graph.DefaultDirection
	}
	return d
}

// Sizing resolves the preset for the viewport and applies the overrides.
func (o *Options) Sizing() layout.Sizing {
	presets := o.Presets
	if presets == (layout.Presets{}) {
		presets = layout.DefaultPresets()
	}
	s := presets.For(layout.DisplayContext{ViewportWidth: o.ViewportWidth})
	if o.Compact != nil {
		if *o.Compact {
			s = presets.For(layout.DisplayContext{ViewportWidth: 1})
		} else {
			s = presets.For(layout.DisplayContext{})
		}
	}
	if o.NodeGap != nil {
		s.NodeGap = *o.NodeGap
	}
	if o.RankGap != nil {
		s.RankGap = *o.RankGap
	}
	return s
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	s := o.Sizing()
	return cache.LayoutKeyOpts{
		Direction:  string(o.Dir()),
		Engine:     o.Engine,
		Quality:    o.Quality,
		Compact:    s.Compact,
		NodeWidth:  s.NodeWidth,
		NodeHeight: s.NodeHeight,
		NodeGap:    s.NodeGap,
		RankGap:    s.RankGap,
		Reduce:     o.Reduce,
	}
}
