package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pipelinedag/pkg/cache"
	errs "github.com/matzehuels/pipelinedag/pkg/errors"
	"github.com/matzehuels/pipelinedag/pkg/graph"
	"github.com/matzehuels/pipelinedag/pkg/layout"
	"github.com/matzehuels/pipelinedag/pkg/observability"
	"github.com/matzehuels/pipelinedag/pkg/validate"
)

const keyTypeLayout = "layout"

// Runner encapsulates validation and layout with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Engine, when set, is used for every request instead of the engine
	// selected by Options.Engine. Results are still cached under the
	// requested engine name.
	Engine *layout.Engine

	// TTL is the lifetime of cached layouts. Zero means cache.TTLLayout.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, caching is disabled.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewDisabled("no cache configured")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Validate runs the validation engine on g.
func (r *Runner) Validate(ctx context.Context, g graph.Graph) validate.Report {
	start := time.Now()
	report := validate.Validate(g)
	elapsed := time.Since(start)

	observability.Engine().OnValidate(ctx, report.NodeCount, report.Valid, elapsed)
	r.Logger.Debug("validated graph",
		"nodes", report.NodeCount,
		"edges", report.EdgeCount,
		"valid", report.Valid,
		"errors", len(report.Errors),
		"duration", elapsed)
	return report
}

// Layout computes the layout of g, consulting the cache first. The boolean
// reports a cache hit. Cache failures are logged and never fail a request.
func (r *Runner) Layout(ctx context.Context, g graph.Graph, opts Options) (layout.Result, bool, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return layout.Result{}, false, err
	}

	var key string
	if !opts.NoCache {
		graphHash, err := g.LayoutHash()
		if err != nil {
			return layout.Result{}, false, errs.Wrap(errs.ErrCodeInvalidInput, err, "hash graph")
		}
		key = r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())
		if res, ok := r.lookup(ctx, key, g, opts.Logger); ok {
			return res, true, nil
		}
	}

	engine := r.Engine
	if engine == nil {
		engine = NewEngine(opts)
	}

	hooks := observability.Engine()
	hooks.OnLayoutStart(ctx, opts.Engine, len(g.Nodes))
	start := time.Now()
	res, err := engine.Layout(ctx, g, opts.Dir(), opts.Sizing())
	elapsed := time.Since(start)
	hooks.OnLayoutComplete(ctx, opts.Engine, elapsed, err)
	if err != nil {
		return layout.Result{}, false, err
	}

	opts.Logger.Debug("computed layout",
		"engine", opts.Engine,
		"direction", opts.Direction,
		"nodes", len(res.Positions),
		"duration", elapsed)

	if !opts.NoCache {
		r.store(ctx, key, res, opts.Logger)
	}
	return res, false, nil
}

func (r *Runner) lookup(ctx context.Context, key string, g graph.Graph, logger *log.Logger) (layout.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
		return layout.Result{}, false
	}

	var res layout.Result
	if err := json.Unmarshal(data, &res); err != nil || !covers(res, g) {
		// Unreadable or foreign entry: recompute and overwrite.
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
		return layout.Result{}, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeLayout)
	logger.Debug("layout cache hit", "key", key)
	return res, true
}

func (r *Runner) store(ctx context.Context, key string, res layout.Result, logger *log.Logger) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLLayout
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
}

// covers reports whether res positions exactly the nodes of g.
func covers(res layout.Result, g graph.Graph) bool {
	if res.Positions == nil || len(res.Positions) != len(g.Nodes) {
		return false
	}
	for _, n := range g.Nodes {
		if _, ok := res.Positions[n.ID]; !ok {
			return false
		}
	}
	return true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
