package adjacency

import "sort"

// Entry is a single weighted cell used to construct sparse matrices.
type Entry struct {
	Row, Col int
	Weight   float64
}

// CSR is a compressed-sparse-row adjacency matrix. Only nonzero entries are
// stored; Row densifies a single row on demand so solvers never need the
// full matrix in dense form.
type CSR struct {
	rows, cols int
	rowPtr     []int
	colIdx     []int
	weights    []float64
}

// NewCSR builds a CSR matrix from entries. Entries with zero weight are
// dropped; duplicate (row, col) pairs keep the last weight. The input slice
// is not retained.
func NewCSR(rows, cols int, entries []Entry) *CSR {
	es := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Weight != 0 {
			es = append(es, e)
		}
	}
	sort.SliceStable(es, func(a, b int) bool {
		if es[a].Row != es[b].Row {
			return es[a].Row < es[b].Row
		}
		return es[a].Col < es[b].Col
	})

	// Collapse duplicates, keeping the last occurrence.
	dedup := es[:0]
	for _, e := range es {
		if n := len(dedup); n > 0 && dedup[n-1].Row == e.Row && dedup[n-1].Col == e.Col {
			dedup[n-1] = e
			continue
		}
		dedup = append(dedup, e)
	}

	c := &CSR{
		rows:    rows,
		cols:    cols,
		rowPtr:  make([]int, rows+1),
		colIdx:  make([]int, len(dedup)),
		weights: make([]float64, len(dedup)),
	}
	for i, e := range dedup {
		c.rowPtr[e.Row+1]++
		c.colIdx[i] = e.Col
		c.weights[i] = e.Weight
	}
	for i := 1; i <= rows; i++ {
		c.rowPtr[i] += c.rowPtr[i-1]
	}
	return c
}

// Dims returns the matrix dimensions.
func (c *CSR) Dims() (rows, cols int) { return c.rows, c.cols }

// At returns the weight at (i, j), or 0 if the entry is not stored.
func (c *CSR) At(i, j int) float64 {
	lo, hi := c.rowPtr[i], c.rowPtr[i+1]
	k := lo + sort.SearchInts(c.colIdx[lo:hi], j)
	if k < hi && c.colIdx[k] == j {
		return c.weights[k]
	}
	return 0
}

// Row densifies the i-th row into dst and returns it.
func (c *CSR) Row(i int, dst []float64) []float64 {
	dst = growRow(dst, c.cols)
	for j := range dst {
		dst[j] = 0
	}
	for k := c.rowPtr[i]; k < c.rowPtr[i+1]; k++ {
		dst[c.colIdx[k]] = c.weights[k]
	}
	return dst
}

// NonZero calls fn for every stored entry in row-major order.
func (c *CSR) NonZero(fn func(i, j int, w float64)) {
	for i := 0; i < c.rows; i++ {
		for k := c.rowPtr[i]; k < c.rowPtr[i+1]; k++ {
			fn(i, c.colIdx[k], c.weights[k])
		}
	}
}

// NNZ returns the number of stored nonzero entries.
func (c *CSR) NNZ() int { return len(c.weights) }

var _ Matrix = (*CSR)(nil)
