// Package geometry provides the numeric utilities the layout solvers are
// built on: position buffers, minimum clamping, canonical rescaling, and
// edge/arrow vertex construction.
//
// Positions are stored structure-of-arrays (one slice per axis) so the hot
// per-axis passes vectorize with the vek kernels.
package geometry

import (
	"github.com/viterin/vek"
	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/forcegraph/pkg/adjacency"
)

// Positions holds node coordinates for a 2D layout in structure-of-arrays
// form. X[i], Y[i] is the position of node i.
type Positions struct {
	X []float64
	Y []float64
}

// NewPositions allocates a zeroed position set for n nodes.
func NewPositions(n int) Positions {
	return Positions{X: make([]float64, n), Y: make([]float64, n)}
}

// Len returns the number of nodes.
func (p Positions) Len() int { return len(p.X) }

// Clone returns a deep copy. Snapshots hand out clones so consumers are
// never aliased to the solver's working buffers.
func (p Positions) Clone() Positions {
	c := NewPositions(p.Len())
	copy(c.X, p.X)
	copy(c.Y, p.Y)
	return c
}

// ClampMin replaces every value below floor with floor, in place.
func ClampMin(values []float64, floor float64) {
	vek.MaximumNumber_Inplace(values, floor)
}

// Rescale normalizes a position set to the canonical unit domain: each axis
// is shifted so its minimum is 0, then both axes are scaled uniformly so the
// largest coordinate is 1. The transform preserves order and aspect ratio
// and is idempotent up to floating-point tolerance.
//
// A set with zero extent (a single node, or all nodes coincident) is only
// shifted, never scaled, so coordinates stay finite.
func Rescale(p Positions) {
	if p.Len() == 0 {
		return
	}
	floats.AddConst(-floats.Min(p.X), p.X)
	floats.AddConst(-floats.Min(p.Y), p.Y)

	extent := max(floats.Max(p.X), floats.Max(p.Y))
	if extent <= 0 {
		return
	}
	floats.Scale(1/extent, p.X)
	floats.Scale(1/extent, p.Y)
}

// Segment is a line segment between two node positions, ready for a line or
// arrow rendering primitive. For arrows the head sits at the (X2, Y2) end.
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Segments builds rendering geometry for the current positions: one line
// segment per nonzero adjacency entry and, when directed, one arrow segment
// per edge pointing at its target. The arrow slice is empty for undirected
// graphs.
func Segments(m adjacency.Matrix, p Positions, directed bool) (lines, arrows []Segment) {
	m.NonZero(func(i, j int, _ float64) {
		s := Segment{X1: p.X[i], Y1: p.Y[i], X2: p.X[j], Y2: p.Y[j]}
		lines = append(lines, s)
		if directed {
			arrows = append(arrows, s)
		}
	})
	return lines, arrows
}
