// Package pipeline provides the load → layout → render pipeline shared by
// the CLI and the HTTP server.
//
// Centralizing this logic keeps caching and defaulting behavior identical
// across entry points: a layout computed by the server is found in the cache
// by the CLI and vice versa, as long as they share a cache backend.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Iterations: 100,
//	    Formats:    []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Layout only
//	l, err := runner.ComputeLayout(ctx, g, opts)
//
//	// Stream snapshots for animation
//	stream, err := runner.StreamLayout(ctx, g, opts)
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultIterations is the default iteration budget.
	DefaultIterations = layout.DefaultIterations

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = layout.DefaultSeed
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Iterations int     `json:"iterations,omitempty"`
	Optimal    float64 `json:"optimal,omitempty"`
	Seed       uint64  `json:"seed,omitempty"`
	Refresh    bool    `json:"refresh,omitempty"` // Bypass the cache read (result is still written)

	// Render options
	Formats []string `json:"formats,omitempty"`
	Labels  bool     `json:"labels,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)

	// Initial seeds the computation with a previous layout's positions,
	// refining it instead of starting from random ones. Refined runs are
	// never served from nor written to the cache.
	Initial *graph.Layout `json:"-"`

	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "iterations must be positive, got %d", o.Iterations)
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Optimal < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "optimal distance must be positive, got %g", o.Optimal)
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// layoutKeyOpts returns cache key options for layout computation.
// Directedness comes from the graph because it changes the adjacency.
func (o *Options) layoutKeyOpts(directed bool) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Iterations: o.Iterations,
		Optimal:    o.Optimal,
		Seed:       o.Seed,
		Directed:   directed,
	}
}
