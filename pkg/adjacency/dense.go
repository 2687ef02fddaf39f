package adjacency

import "gonum.org/v1/gonum/mat"

// Dense is a dense adjacency matrix backed by a gonum [mat.Dense].
type Dense struct {
	m *mat.Dense
}

// NewDense creates an r x c dense matrix. If data is non-nil it must have
// length r*c and is used in row-major order; otherwise the matrix is zeroed.
func NewDense(r, c int, data []float64) *Dense {
	return &Dense{m: mat.NewDense(r, c, data)}
}

// FromRows creates a dense matrix from row slices. The matrix must be
// non-empty and every row must have the same length as the first; gonum
// panics on ragged input, so callers validate rows beforehand.
func FromRows(rows [][]float64) *Dense {
	r, c := len(rows), len(rows[0])
	d := mat.NewDense(r, c, nil)
	for i, row := range rows {
		d.SetRow(i, row)
	}
	return &Dense{m: d}
}

// Dims returns the matrix dimensions.
func (d *Dense) Dims() (rows, cols int) { return d.m.Dims() }

// At returns the weight at (i, j).
func (d *Dense) At(i, j int) float64 { return d.m.At(i, j) }

// Row writes the i-th row into dst and returns it.
func (d *Dense) Row(i int, dst []float64) []float64 {
	_, c := d.m.Dims()
	dst = growRow(dst, c)
	copy(dst, d.m.RawRowView(i))
	return dst
}

// NonZero calls fn for every nonzero entry in row-major order.
func (d *Dense) NonZero(fn func(i, j int, w float64)) {
	r, c := d.m.Dims()
	for i := 0; i < r; i++ {
		row := d.m.RawRowView(i)
		for j := 0; j < c; j++ {
			if row[j] != 0 {
				fn(i, j, row[j])
			}
		}
	}
}

// Set assigns the weight at (i, j). Intended for matrix construction;
// mutating a matrix while a layout computation reads it is not supported.
func (d *Dense) Set(i, j int, w float64) { d.m.Set(i, j, w) }

var _ Matrix = (*Dense)(nil)
