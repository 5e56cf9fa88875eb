package layout

import (
	"math"

	errs "github.com/matzehuels/pipelinedag/pkg/errors"
	"github.com/matzehuels/pipelinedag/pkg/graph"
)

// CompactBreakpoint is the viewport width below which the compact preset
// is used.
const CompactBreakpoint = 640.0

// DisplayContext describes the display the layout is computed for. It is
// passed explicitly so that layout never reads ambient window state.
type DisplayContext struct {
	// ViewportWidth is the available width in pixels. Zero means unknown
	// and selects the normal preset.
	ViewportWidth float64
}

// IsCompact reports whether the viewport is narrow enough for the compact
// preset.
func (d DisplayContext) IsCompact() bool {
	return d.ViewportWidth > 0 && d.ViewportWidth < CompactBreakpoint
}

// Sizing holds the box size and gap constants of a layout.
//
// RankGap is the primary gap, between consecutive ranks along the layout
// direction. NodeGap is the secondary gap, between neighbours within a
// rank.
type Sizing struct {
	Compact    bool    `json:"compact" toml:"-"`
	NodeWidth  float64 `json:"node_width" toml:"node_width"`
	NodeHeight float64 `json:"node_height" toml:"node_height"`
	NodeGap    float64 `json:"node_gap" toml:"node_gap"`
	RankGap    float64 `json:"rank_gap" toml:"rank_gap"`
}

// Presets for narrow and regular viewports.
var (
	CompactSizing = Sizing{Compact: true, NodeWidth: 140, NodeHeight: 60, NodeGap: 30, RankGap: 40}
	NormalSizing  = Sizing{NodeWidth: 200, NodeHeight: 80, NodeGap: 50, RankGap: 80}
)

// Presets pairs a compact and a normal sizing. Configuration may override
// the built-in values.
type Presets struct {
	Compact Sizing
	Normal  Sizing
}

// DefaultPresets returns the built-in presets.
func DefaultPresets() Presets {
	return Presets{Compact: CompactSizing, Normal: NormalSizing}
}

// For selects the preset matching the display.
func (p Presets) For(d DisplayContext) Sizing {
	if d.IsCompact() {
		s := p.Compact
		s.Compact = true
		return s
	}
	s := p.Normal
	s.Compact = false
	return s
}

// SizingFor selects a built-in preset for the display.
func SizingFor(d DisplayContext) Sizing {
	return DefaultPresets().For(d)
}

// Validate returns an INVALID_INPUT error unless box sizes are positive and
// gaps are non-negative finite numbers.
func (s Sizing) Validate() error {
	dims := []struct {
		name  string
		value float64
		min0  bool
	}{
		{"node width", s.NodeWidth, false},
		{"node height", s.NodeHeight, false},
		{"node gap", s.NodeGap, true},
		{"rank gap", s.RankGap, true},
	}
	for _, d := range dims {
		if math.IsNaN(d.value) || math.IsInf(d.value, 0) {
			return errs.New(errs.ErrCodeInvalidInput, "%s must be a finite number", d.name)
		}
		if d.min0 && d.value < 0 {
			return errs.New(errs.ErrCodeInvalidInput, "%s must not be negative, got %g", d.name, d.value)
		}
		if !d.min0 && d.value <= 0 {
			return errs.New(errs.ErrCodeInvalidInput, "%s must be positive, got %g", d.name, d.value)
		}
	}
	return nil
}

// BoxFor returns the layout box of n: its own size if it has one,
// otherwise the preset size.
func (s Sizing) BoxFor(n graph.Node) (width, height float64) {
	if n.HasSize() {
		return n.Width, n.Height
	}
	return s.NodeWidth, s.NodeHeight
}
