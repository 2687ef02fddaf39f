package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
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

// Result contains the outputs of a pipeline run.
type Result struct {
	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Layout is the computed layout document.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, g graph.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	layoutStart := time.Now()
	l, hit, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit

	if data, err := graph.MarshalGraph(g); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	opts.Logger.Info("computed layout",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, err := r.Render(ctx, g, l, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeLayoutWithCacheInfo computes a layout with caching and reports
// whether the result came from the cache. Runs seeded with initial positions
// skip the cache entirely.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Layout{}, false, err
	}

	if err := g.Validate(); err != nil {
		return graph.Layout{}, false, err
	}

	if opts.Initial != nil {
		l, err := r.computeLayout(ctx, g, opts)
		return l, false, err
	}

	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return graph.Layout{}, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize graph for cache key")
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(graphData), opts.layoutKeyOpts(g.Directed))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// Corrupt entry, fall through to recompute.
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	l, err := r.computeLayout(ctx, g, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return l, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// StreamLayout starts a layout computation and returns its snapshot stream.
// Streams are pull-based and never cached; consumers that only need the
// final state should prefer ComputeLayout.
func (r *Runner) StreamLayout(ctx context.Context, g graph.Graph, opts Options) (*layout.Stream, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	adj, err := g.Adjacency()
	if err != nil {
		return nil, err
	}

	stream, err := r.engine(g, opts).Compute(adj, g.Directed)
	if err != nil {
		return nil, err
	}
	observability.Layout().OnLayoutStart(ctx, stream.SolverName(), g.NodeCount())
	return stream, nil
}

// computeLayout drains a snapshot stream to the final state and wraps it in
// a layout document.
func (r *Runner) computeLayout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, error) {
	adj, err := g.Adjacency()
	if err != nil {
		return graph.Layout{}, err
	}

	stream, err := r.engine(g, opts).Compute(adj, g.Directed)
	if err != nil {
		return graph.Layout{}, err
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, stream.SolverName(), g.NodeCount())
	start := time.Now()

	var last layout.Snapshot
	for {
		snap, ok := stream.Next()
		if !ok {
			break
		}
		last = snap
		hooks.OnIteration(ctx, snap.Iteration, snap.Temperature)

		if err := ctx.Err(); err != nil {
			hooks.OnLayoutComplete(ctx, stream.SolverName(), snap.Iteration, time.Since(start), err)
			return graph.Layout{}, err
		}
	}
	hooks.OnLayoutComplete(ctx, stream.SolverName(), opts.Iterations, time.Since(start), nil)

	return graph.LayoutFromSnapshot(g, last, opts.Iterations, opts.Seed, opts.Optimal), nil
}

// engine builds a layout engine from the options.
func (r *Runner) engine(g graph.Graph, opts Options) *layout.Engine {
	engineOpts := []layout.Option{
		layout.WithIterations(opts.Iterations),
		layout.WithSeed(opts.Seed),
	}
	if opts.Optimal > 0 {
		engineOpts = append(engineOpts, layout.WithOptimal(opts.Optimal))
	}
	if opts.Initial != nil {
		engineOpts = append(engineOpts, layout.WithInitialPositions(opts.Initial.InitialPositions()))
	}
	return layout.New(engineOpts...)
}

// Render generates output artifacts for each requested format.
// Rendering is fast relative to layout, so artifacts are not cached.
func (r *Runner) Render(ctx context.Context, g graph.Graph, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	renderOpts := render.Options{Scale: opts.Scale, Labels: opts.Labels}
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			data, err := graph.MarshalLayout(l)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout")
			}
			artifacts[format] = data
		case FormatDOT:
			artifacts[format] = []byte(render.ToDOT(g, l, renderOpts))
		case FormatSVG:
			svg, err := render.RenderSVG(ctx, render.ToDOT(g, l, renderOpts))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
			}
			artifacts[format] = svg
		default:
			return nil, ValidateFormat(format)
		}
	}
	return artifacts, nil
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
