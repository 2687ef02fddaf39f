package layout

import (
	"iter"
	"math"

	"github.com/matzehuels/forcegraph/pkg/adjacency"
	"github.com/matzehuels/forcegraph/pkg/geometry"
)

// Snapshot is one emitted state of the simulation: node positions plus the
// line/arrow geometry derived from them. Position and geometry buffers are
// owned by the snapshot; advancing the stream never mutates them, so a
// consumer may hold a snapshot for as long as it likes.
type Snapshot struct {
	// Iteration is 0 for the initial state, then 1..iterations.
	Iteration int

	// Positions are the node coordinates after this iteration.
	Positions geometry.Positions

	// Lines holds one segment per edge.
	Lines []geometry.Segment

	// Arrows holds one segment per directed edge, head at the target end.
	// Empty for undirected layouts.
	Arrows []geometry.Segment

	// Temperature is the displacement cap in effect after this iteration.
	Temperature float64
}

// Stream is a lazy, single-pass sequence of layout snapshots. It is a plain
// state machine: each Next call advances the simulation by exactly one
// iteration, so the producer does no background work and holds no resources.
// Abandoning a stream mid-way requires no cleanup.
//
// A Stream is not safe for concurrent use; it is owned by one consumer.
type Stream struct {
	adj      adjacency.Matrix
	directed bool
	solver   solver

	pos     geometry.Positions
	optimal float64

	temperature float64
	decrement   float64

	iterations int
	next       int // next snapshot index; 0 is the initial state

	dispX, dispY []float64
}

func newStream(adj adjacency.Matrix, directed bool, pos geometry.Positions, optimal float64, iterations int, s solver) *Stream {
	n := pos.Len()
	return &Stream{
		adj:         adj,
		directed:    directed,
		solver:      s,
		pos:         pos,
		optimal:     optimal,
		temperature: initialTemperature,
		decrement:   initialTemperature / float64(iterations+1),
		iterations:  iterations,
		dispX:       make([]float64, n),
		dispY:       make([]float64, n),
	}
}

// Len returns the total number of snapshots the stream produces:
// the initial state plus one per iteration.
func (s *Stream) Len() int { return s.iterations + 1 }

// SolverName identifies the solver chosen for this computation.
func (s *Stream) SolverName() string { return s.solver.Name() }

// Temperature returns the current displacement cap.
func (s *Stream) Temperature() float64 { return s.temperature }

// Next advances the simulation one iteration and returns its snapshot.
// The first call returns the initial state without stepping. Once the
// iteration budget is exhausted, Next returns false; the stream is finite
// and non-restartable.
func (s *Stream) Next() (Snapshot, bool) {
	if s.next > s.iterations {
		return Snapshot{}, false
	}
	if s.next > 0 {
		s.step()
	}
	snap := s.snapshot(s.next)
	s.next++
	return snap, true
}

// All returns an iterator over the remaining snapshots, for use with
// range-over-func. The stream is single-pass: snapshots consumed here are
// gone from subsequent Next calls.
func (s *Stream) All() iter.Seq[Snapshot] {
	return func(yield func(Snapshot) bool) {
		for {
			snap, ok := s.Next()
			if !ok || !yield(snap) {
				return
			}
		}
	}
}

// Final drains the stream and returns the last snapshot.
func (s *Stream) Final() Snapshot {
	var last Snapshot
	for snap, ok := s.Next(); ok; snap, ok = s.Next() {
		last = snap
	}
	return last
}

// step runs one iteration of the dynamics: solver displacement, the
// temperature-capped position update, rescale, and cooling.
func (s *Stream) step() {
	s.solver.Displace(s.adj, s.pos, s.optimal, s.dispX, s.dispY)

	// Cap each node's move at the current temperature. Displacements below
	// minLength are treated as length stalledLength so the scale factor
	// stays finite and near-stationary nodes are not frozen in place.
	for i := range s.dispX {
		length := math.Hypot(s.dispX[i], s.dispY[i])
		if length < minLength {
			length = stalledLength
		}
		scale := s.temperature / length
		s.pos.X[i] += s.dispX[i] * scale
		s.pos.Y[i] += s.dispY[i] * scale
	}

	geometry.Rescale(s.pos)
	s.temperature -= s.decrement
}

// snapshot copies the working state into an independently owned Snapshot.
func (s *Stream) snapshot(iteration int) Snapshot {
	pos := s.pos.Clone()
	lines, arrows := geometry.Segments(s.adj, pos, s.directed)
	return Snapshot{
		Iteration:   iteration,
		Positions:   pos,
		Lines:       lines,
		Arrows:      arrows,
		Temperature: s.temperature,
	}
}
