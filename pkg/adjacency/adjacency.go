// Package adjacency provides weighted adjacency-matrix representations for
// graph layout.
//
// The [Matrix] interface abstracts over storage so the layout solvers can
// run against either representation:
//
//   - [Dense]: a gonum-backed dense matrix, one float64 per (i,j) pair.
//   - [CSR]: compressed sparse rows, storing only nonzero entries.
//
// Entry (i,j) is the edge weight from node i to node j; zero means no edge.
// Matrices are read-only from the solvers' perspective and may be shared
// across concurrent layout computations.
package adjacency

import "github.com/matzehuels/forcegraph/pkg/errors"

// Matrix is a read-only weighted adjacency structure.
type Matrix interface {
	// Dims returns the number of rows and columns.
	Dims() (rows, cols int)

	// At returns the weight of the edge from node i to node j, or 0.
	At(i, j int) float64

	// Row writes the densified i-th row into dst and returns it.
	// If dst is nil or too small a new slice is allocated.
	Row(i int, dst []float64) []float64

	// NonZero calls fn for every nonzero entry in row-major order.
	NonZero(fn func(i, j int, w float64))
}

// Square validates that m has an equal number of rows and columns.
// A violated shape is a fatal input error, never silently truncated.
func Square(m Matrix) error {
	r, c := m.Dims()
	if r != c {
		return errors.New(errors.ErrCodeInvalidShape, "adjacency matrix must be square, got %dx%d", r, c)
	}
	return nil
}

// growRow returns dst resized to n, reusing its backing array when possible.
func growRow(dst []float64, n int) []float64 {
	if cap(dst) < n {
		return make([]float64, n)
	}
	return dst[:n]
}
