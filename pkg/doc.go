// Package pkg provides the core libraries for Forcegraph layout computation.
//
// # Overview
//
// Forcegraph computes force-directed layouts for graphs using
// Fruchterman-Reingold dynamics, streaming every iteration so layouts can
// be animated while they settle. The pkg directory is organized into four
// main areas:
//
//  1. [layout] - The force-directed engine (solvers, cooling, streaming)
//  2. [graph] - Serialization types for graphs, layouts, and animation frames
//  3. [pipeline] - Orchestration (load → layout → render) with caching
//  4. [render] - Artifact generation (DOT, SVG)
//
// # Architecture
//
// The typical data flow through Forcegraph:
//
//	Graph document (JSON)
//	         ↓
//	    [graph] package (validation + adjacency matrix)
//	         ↓
//	    [layout] package (iterative force simulation)
//	         ↓
//	    [render] package (DOT + SVG artifacts)
//	         ↓
//	    JSON/DOT/SVG output
//
// # Quick Start
//
// Compute a layout and render it:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/forcegraph/pkg/cache"
//	    "github.com/matzehuels/forcegraph/pkg/graph"
//	    "github.com/matzehuels/forcegraph/pkg/pipeline"
//	)
//
//	// 1. Load the graph
//	g, _ := graph.ReadGraphFile("graph.json")
//
//	// 2. Run the pipeline
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
//	result, _ := runner.Execute(context.Background(), g, pipeline.Options{
//	    Iterations: 50,
//	    Formats:    []string{pipeline.FormatSVG},
//	})
//
//	// 3. Use the artifacts
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// For direct access to the iteration stream, use the [layout] package:
//
//	eng, _ := layout.New(layout.WithIterations(50), layout.WithSeed(42))
//	stream, _ := eng.Compute(adj, false)
//	for snap := range stream.All() {
//	    // each snapshot carries positions and the current temperature
//	}
//
// # Main Packages
//
// ## Layout Engine
//
// [layout] - Fruchterman-Reingold simulation with two solvers: a dense
// all-pairs solver backed by gonum matrices and a sparse row-wise solver
// using SIMD-accelerated vector math. The engine picks a solver from the
// node count and exposes each iteration as a lazily computed snapshot.
//
// [adjacency] - Adjacency-matrix construction and validation, including
// symmetrization of directed input.
//
// [geometry] - Small numeric helpers shared by the solvers (clamping,
// pairwise distances, rescaling into the unit square).
//
// ## Serialization
//
// [graph] - JSON document types for graphs (node-link format), computed
// layouts, and per-iteration animation frames.
//
// ## Infrastructure
//
// [pipeline] - Complete layout pipeline (load → layout → render) used by
// CLI and server. Ensures consistent behavior across all entry points.
//
// [cache] - Layout caching keyed by graph hash and layout options. Three
// implementations: FileCache (CLI), RedisCache (server), MemoryCache
// (testing), plus NullCache for cache-free runs.
//
// [observability] - Hook interfaces for instrumenting layout progress and
// cache behavior without coupling libraries to a metrics stack.
//
// [errors] - Structured error codes shared by CLI and server.
//
// ## Visualization
//
// [render] - DOT emission with pinned node positions and SVG rasterization
// via the embedded Graphviz engine.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/layout/...     # Specific package
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/layout
// [adjacency]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/adjacency
// [geometry]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/geometry
// [graph]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/errors
// [render]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/render
package pkg
