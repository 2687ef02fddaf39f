// Package layout computes force-directed graph layouts.
//
// The engine implements Fruchterman–Reingold dynamics: every pair of nodes
// repels with strength optimal²/distance² while adjacent nodes attract with
// strength weight·distance/optimal. A linearly cooling temperature caps the
// per-iteration displacement so the layout anneals into a stable embedding.
//
// # Streaming
//
// [Engine.Compute] returns a [Stream], a pull-based sequence of
// [Snapshot] values: the initial positions first, then one snapshot per
// iteration. Nothing is computed until the consumer asks for the next
// snapshot, so a renderer can animate the layout mid-computation or drain
// the stream for the final state only.
//
// # Solvers
//
// Two solvers share the same dynamics. The dense solver materializes full
// pairwise delta/distance matrices per iteration; the row-wise solver walks
// the adjacency one row at a time and never allocates an N×N buffer. The
// engine picks one per computation based on node count.
package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/forcegraph/pkg/adjacency"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/geometry"
)

const (
	// DefaultIterations is the iteration budget when none is configured.
	DefaultIterations = 50

	// DefaultSeed seeds the initial random positions for reproducible runs.
	DefaultSeed = uint64(42)

	// initialTemperature is the largest step allowed in the dynamics,
	// roughly a tenth of the unit layout domain.
	initialTemperature = 0.1

	// minDistance is the floor applied to pairwise distances so coincident
	// nodes cannot blow up the repulsion term.
	minDistance = 0.01

	// minLength and stalledLength guard the displacement normalization:
	// displacement vectors shorter than minLength are treated as having
	// length stalledLength so near-stationary nodes keep moving.
	minLength     = 0.01
	stalledLength = 0.1

	// rowSolverThreshold selects the row-wise solver for graphs below this
	// node count and the dense solver at or above it.
	//
	// TODO: revisit this split; the dense solver is the one paying O(N²)
	// memory, so the row-wise solver arguably belongs on the *large* side.
	// Downstream consumers tune against the current behavior, so changing
	// it needs a coordinated bump.
	rowSolverThreshold = 500
)

// Option configures an Engine.
type Option func(*Engine)

// WithOptimal sets the optimal inter-node distance. When unset (or zero)
// the engine derives 1/√N from the adjacency size at compute time.
func WithOptimal(k float64) Option {
	return func(e *Engine) { e.optimal = k }
}

// WithIterations sets the iteration budget. Values below 1 are ignored.
func WithIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.iterations = n
		}
	}
}

// WithInitialPositions seeds the layout with caller-supplied positions
// instead of random ones. The set must match the adjacency size at compute
// time; it is cloned, never mutated. Threading one computation's final
// positions into the next call refines a layout incrementally.
func WithInitialPositions(p geometry.Positions) Option {
	return func(e *Engine) { e.initial = p.Clone() }
}

// WithSeed sets the seed for random initial positions.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.seed = seed }
}

// Engine holds immutable layout configuration. It carries no per-run state:
// every Compute call builds its own positions and temperature, so a single
// Engine is safe for concurrent use.
type Engine struct {
	optimal    float64
	iterations int
	initial    geometry.Positions
	seed       uint64
}

// New creates an Engine. No validation happens here; size-dependent checks
// are deferred to Compute, where the adjacency dimensions are known.
func New(opts ...Option) *Engine {
	e := &Engine{
		iterations: DefaultIterations,
		seed:       DefaultSeed,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Iterations returns the configured iteration budget.
func (e *Engine) Iterations() int { return e.iterations }

// Compute starts a layout computation over adj and returns its snapshot
// stream. The stream yields the initial positions plus one snapshot per
// iteration; when directed is true each snapshot carries arrow geometry.
//
// Compute fails with an INVALID_SHAPE error if adj is not square, and with
// an INVALID_INPUT error if configured initial positions do not match the
// adjacency size. Nothing is computed until the first Next call.
func (e *Engine) Compute(adj adjacency.Matrix, directed bool) (*Stream, error) {
	if err := adjacency.Square(adj); err != nil {
		return nil, err
	}
	n, _ := adj.Dims()

	if e.initial.Len() != 0 && e.initial.Len() != n {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"initial positions hold %d nodes, adjacency has %d", e.initial.Len(), n)
	}

	optimal := e.optimal
	if optimal <= 0 && n > 0 {
		optimal = 1 / math.Sqrt(float64(n))
	}

	var pos geometry.Positions
	if e.initial.Len() != 0 {
		pos = e.initial.Clone()
	} else {
		pos = randomPositions(n, e.seed)
	}

	var s solver
	if n < rowSolverThreshold {
		s = newRowSolver(n)
	} else {
		s = newDenseSolver(n)
	}

	return newStream(adj, directed, pos, optimal, e.iterations, s), nil
}

// randomPositions samples n points uniformly from the unit square.
func randomPositions(n int, seed uint64) geometry.Positions {
	rng := rand.New(rand.NewPCG(seed, seed))
	p := geometry.NewPositions(n)
	for i := 0; i < n; i++ {
		p.X[i] = rng.Float64()
		p.Y[i] = rng.Float64()
	}
	return p
}

// solver computes one iteration's net displacement per node. Implementations
// may keep scratch buffers; a solver instance belongs to exactly one Stream.
type solver interface {
	// Name identifies the solver in observability events.
	Name() string

	// Displace fills dispX/dispY with each node's net displacement for the
	// current positions.
	Displace(adj adjacency.Matrix, pos geometry.Positions, optimal float64, dispX, dispY []float64)
}
