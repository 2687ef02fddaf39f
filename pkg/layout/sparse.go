package layout

import (
	"github.com/viterin/vek"

	"github.com/matzehuels/forcegraph/pkg/adjacency"
	"github.com/matzehuels/forcegraph/pkg/geometry"
)

// rowSolver runs the same dynamics as the dense solver but row by row: for
// each node it computes the delta vector against all positions and densifies
// only that node's adjacency row for the attraction term. Time stays
// O(N²) per iteration but memory is O(N), with no pairwise tensor ever
// materialized.
type rowSolver struct {
	dx, dy  []float64
	dist    []float64
	force   []float64
	row     []float64
	scratch []float64
}

func newRowSolver(n int) *rowSolver {
	return &rowSolver{
		dx:      make([]float64, n),
		dy:      make([]float64, n),
		dist:    make([]float64, n),
		force:   make([]float64, n),
		row:     make([]float64, n),
		scratch: make([]float64, n),
	}
}

func (r *rowSolver) Name() string { return "sparse" }

func (r *rowSolver) Displace(adj adjacency.Matrix, pos geometry.Positions, optimal float64, dispX, dispY []float64) {
	n := pos.Len()
	k2 := optimal * optimal

	for i := 0; i < n; i++ {
		// delta = pos[i] - pos, per axis.
		vek.SubNumber_Into(r.dx, pos.X, pos.X[i])
		vek.Neg_Inplace(r.dx)
		vek.SubNumber_Into(r.dy, pos.Y, pos.Y[i])
		vek.Neg_Inplace(r.dy)

		vek.Mul_Into(r.dist, r.dx, r.dx)
		vek.Mul_Into(r.scratch, r.dy, r.dy)
		vek.Add_Inplace(r.dist, r.scratch)
		vek.Sqrt_Inplace(r.dist)
		geometry.ClampMin(r.dist, minDistance)

		w := adj.Row(i, r.row)
		for j := 0; j < n; j++ {
			dj := r.dist[j]
			r.force[j] = k2/(dj*dj) - w[j]*dj/optimal
		}

		dispX[i] = vek.Dot(r.dx, r.force)
		dispY[i] = vek.Dot(r.dy, r.force)
	}
}

var _ solver = (*rowSolver)(nil)
