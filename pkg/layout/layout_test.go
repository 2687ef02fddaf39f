package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/adjacency"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/geometry"
)

// cycle4 is an undirected 4-cycle: 0-1, 1-2, 2-3, 3-0, weight 1.
func cycle4() adjacency.Matrix {
	return adjacency.FromRows([][]float64{
		{0, 1, 0, 1},
		{1, 0, 1, 0},
		{0, 1, 0, 1},
		{1, 0, 1, 0},
	})
}

// corners are the unit-square corners in cycle order.
func corners() geometry.Positions {
	return geometry.Positions{
		X: []float64{0, 1, 1, 0},
		Y: []float64{0, 0, 1, 1},
	}
}

func TestComputeRejectsNonSquare(t *testing.T) {
	e := New()
	_, err := e.Compute(adjacency.NewDense(3, 4, nil), false)
	if err == nil {
		t.Fatal("Compute() accepted a 3x4 adjacency")
	}
	if !errors.Is(err, errors.ErrCodeInvalidShape) {
		t.Errorf("error code = %v, want INVALID_SHAPE", errors.GetCode(err))
	}
}

func TestComputeRejectsMismatchedInitialPositions(t *testing.T) {
	e := New(WithInitialPositions(geometry.NewPositions(3)))
	_, err := e.Compute(adjacency.NewDense(4, 4, nil), false)
	if err == nil {
		t.Fatal("Compute() accepted mismatched initial positions")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestStreamLength(t *testing.T) {
	tests := []struct {
		name       string
		iterations int
	}{
		{"default budget", DefaultIterations},
		{"single iteration", 1},
		{"short budget", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(WithIterations(tt.iterations))
			stream, err := e.Compute(cycle4(), false)
			if err != nil {
				t.Fatalf("Compute() error: %v", err)
			}
			if got := stream.Len(); got != tt.iterations+1 {
				t.Fatalf("Len() = %d, want %d", got, tt.iterations+1)
			}

			count := 0
			for snap, ok := stream.Next(); ok; snap, ok = stream.Next() {
				if snap.Iteration != count {
					t.Errorf("snapshot %d has Iteration = %d", count, snap.Iteration)
				}
				count++
			}
			if count != tt.iterations+1 {
				t.Errorf("produced %d snapshots, want %d", count, tt.iterations+1)
			}

			// Exhausted streams stay exhausted.
			if _, ok := stream.Next(); ok {
				t.Error("Next() produced a snapshot after exhaustion")
			}
		})
	}
}

func TestPositionsStayFinite(t *testing.T) {
	e := New(WithIterations(50))
	stream, err := e.Compute(cycle4(), false)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	for snap := range stream.All() {
		for i := 0; i < snap.Positions.Len(); i++ {
			x, y := snap.Positions.X[i], snap.Positions.Y[i]
			if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
				t.Fatalf("iteration %d node %d has non-finite position (%v, %v)",
					snap.Iteration, i, x, y)
			}
		}
	}
}

func TestTemperatureCoolsLinearly(t *testing.T) {
	const iterations = 50
	e := New(WithIterations(iterations))
	stream, err := e.Compute(cycle4(), false)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	prev := math.Inf(1)
	var last float64
	for snap := range stream.All() {
		if snap.Temperature > prev {
			t.Fatalf("temperature rose at iteration %d: %v > %v", snap.Iteration, snap.Temperature, prev)
		}
		prev = snap.Temperature
		last = snap.Temperature
	}

	decrement := initialTemperature / float64(iterations+1)
	if last < 0 || last > decrement+1e-12 {
		t.Errorf("final temperature = %v, want within one decrement (%v) of zero", last, decrement)
	}
}

func TestZeroEdgeGraphSpreadsNodes(t *testing.T) {
	const n = 8
	e := New(WithIterations(50), WithSeed(42))
	stream, err := e.Compute(adjacency.NewDense(n, n, nil), false)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	first, ok := stream.Next()
	if !ok {
		t.Fatal("stream produced no initial snapshot")
	}
	final := stream.Final()

	if got, want := avgPairwiseDistance(final.Positions), avgPairwiseDistance(first.Positions); got <= want {
		t.Errorf("repulsion-only layout did not spread: final avg distance %v <= initial %v", got, want)
	}
	if len(final.Lines) != 0 {
		t.Errorf("zero adjacency produced %d line segments", len(final.Lines))
	}
}

func TestSingleNode(t *testing.T) {
	e := New(WithIterations(10))
	stream, err := e.Compute(adjacency.NewDense(1, 1, nil), false)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	count := 0
	for snap := range stream.All() {
		count++
		x, y := snap.Positions.X[0], snap.Positions.Y[0]
		if math.IsNaN(x) || math.IsNaN(y) {
			t.Fatalf("single-node layout produced NaN at iteration %d", snap.Iteration)
		}
	}
	if count != 11 {
		t.Errorf("produced %d snapshots, want 11", count)
	}
}

func TestCycleSettlesEquidistantFromCentroid(t *testing.T) {
	e := New(WithIterations(50), WithInitialPositions(corners()))
	stream, err := e.Compute(cycle4(), false)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if stream.SolverName() != "sparse" {
		t.Fatalf("SolverName() = %q, want sparse for N=4", stream.SolverName())
	}

	count := 0
	var final Snapshot
	for snap := range stream.All() {
		final = snap
		count++
	}
	if count != 51 {
		t.Fatalf("produced %d snapshots, want 51", count)
	}

	// The configuration is fully symmetric, so the four nodes must remain
	// equidistant from their centroid throughout the run.
	pos := final.Positions
	cx := (pos.X[0] + pos.X[1] + pos.X[2] + pos.X[3]) / 4
	cy := (pos.Y[0] + pos.Y[1] + pos.Y[2] + pos.Y[3]) / 4

	r0 := math.Hypot(pos.X[0]-cx, pos.Y[0]-cy)
	for i := 1; i < 4; i++ {
		ri := math.Hypot(pos.X[i]-cx, pos.Y[i]-cy)
		if math.Abs(ri-r0) > 1e-6 {
			t.Errorf("node %d radius %v differs from node 0 radius %v", i, ri, r0)
		}
	}
	if r0 == 0 {
		t.Error("cycle collapsed to the centroid")
	}

	if len(final.Lines) != 8 { // 4 undirected edges, stored symmetrically
		t.Errorf("final snapshot has %d line segments, want 8", len(final.Lines))
	}
	if len(final.Arrows) != 0 {
		t.Errorf("undirected layout produced %d arrows", len(final.Arrows))
	}
}

func TestDirectedProducesArrows(t *testing.T) {
	adj := adjacency.NewCSR(3, 3, []adjacency.Entry{
		{Row: 0, Col: 1, Weight: 1},
		{Row: 1, Col: 2, Weight: 1},
	})
	e := New(WithIterations(5))
	stream, err := e.Compute(adj, true)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	snap, _ := stream.Next()
	if len(snap.Arrows) != 2 {
		t.Errorf("directed snapshot has %d arrows, want 2", len(snap.Arrows))
	}
	for k, a := range snap.Arrows {
		if a != snap.Lines[k] {
			t.Errorf("arrow %d endpoints %v differ from its line %v", k, a, snap.Lines[k])
		}
	}
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	e := New(WithIterations(3))
	stream, err := e.Compute(cycle4(), false)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	first, _ := stream.Next()
	x0, y0 := first.Positions.X[0], first.Positions.Y[0]

	stream.Final() // advance and mutate internal buffers

	if first.Positions.X[0] != x0 || first.Positions.Y[0] != y0 {
		t.Error("advancing the stream mutated a previously emitted snapshot")
	}

	// Mutating a snapshot must not corrupt the solver state either.
	first.Positions.X[0] = 1e9
}

func TestSolversAgree(t *testing.T) {
	adj := adjacency.FromRows([][]float64{
		{0, 1, 0, 0, 2},
		{1, 0, 1, 0, 0},
		{0, 1, 0, 3, 0},
		{0, 0, 3, 0, 1},
		{2, 0, 0, 1, 0},
	})
	pos := geometry.Positions{
		X: []float64{0.1, 0.9, 0.4, 0.6, 0.2},
		Y: []float64{0.3, 0.1, 0.8, 0.5, 0.9},
	}
	const optimal = 0.5
	n := pos.Len()

	denseX, denseY := make([]float64, n), make([]float64, n)
	rowX, rowY := make([]float64, n), make([]float64, n)

	newDenseSolver(n).Displace(adj, pos, optimal, denseX, denseY)
	newRowSolver(n).Displace(adj, pos, optimal, rowX, rowY)

	for i := 0; i < n; i++ {
		if math.Abs(denseX[i]-rowX[i]) > 1e-9 || math.Abs(denseY[i]-rowY[i]) > 1e-9 {
			t.Errorf("node %d: dense (%v, %v) vs row-wise (%v, %v)",
				i, denseX[i], denseY[i], rowX[i], rowY[i])
		}
	}
}

func TestDenseSolverStream(t *testing.T) {
	// Drive a stream with the dense solver directly; Compute only selects it
	// for large graphs.
	adj := cycle4()
	pos := corners()
	stream := newStream(adj, false, pos, 0.5, 10, newDenseSolver(4))

	count := 0
	for snap := range stream.All() {
		count++
		for i := 0; i < snap.Positions.Len(); i++ {
			if math.IsNaN(snap.Positions.X[i]) || math.IsNaN(snap.Positions.Y[i]) {
				t.Fatalf("dense stream produced NaN at iteration %d", snap.Iteration)
			}
		}
	}
	if count != 11 {
		t.Errorf("dense stream produced %d snapshots, want 11", count)
	}
}

func TestSeedReproducibility(t *testing.T) {
	adj := adjacency.NewDense(6, 6, nil)

	run := func(seed uint64) Snapshot {
		stream, err := New(WithIterations(5), WithSeed(seed)).Compute(adj, false)
		if err != nil {
			t.Fatalf("Compute() error: %v", err)
		}
		return stream.Final()
	}

	a, b := run(7), run(7)
	for i := 0; i < 6; i++ {
		if a.Positions.X[i] != b.Positions.X[i] || a.Positions.Y[i] != b.Positions.Y[i] {
			t.Fatal("identical seeds produced different layouts")
		}
	}

	c := run(8)
	same := true
	for i := 0; i < 6; i++ {
		if a.Positions.X[i] != c.Positions.X[i] || a.Positions.Y[i] != c.Positions.Y[i] {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical layouts")
	}
}

func avgPairwiseDistance(p geometry.Positions) float64 {
	n := p.Len()
	var sum float64
	var count int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += math.Hypot(p.X[i]-p.X[j], p.Y[i]-p.Y[j])
			count++
		}
	}
	return sum / float64(count)
}
