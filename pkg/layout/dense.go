package layout

import (
	"github.com/viterin/vek"
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/forcegraph/pkg/adjacency"
	"github.com/matzehuels/forcegraph/pkg/geometry"
)

// denseSolver computes one iteration over full pairwise matrices: an N×N
// delta matrix per axis plus an N×N distance matrix, all reused across
// iterations. Memory is O(N²), which is the price for keeping every inner
// pass a straight vectorized sweep.
type denseSolver struct {
	n      int
	deltaX *mat.Dense // deltaX[i][j] = x[i] - x[j]
	deltaY *mat.Dense
	dist   *mat.Dense // pairwise distances, clamped to minDistance
	force  []float64  // per-row signed force factors
	row    []float64  // densified adjacency row
}

func newDenseSolver(n int) *denseSolver {
	return &denseSolver{
		n:      n,
		deltaX: mat.NewDense(n, n, nil),
		deltaY: mat.NewDense(n, n, nil),
		dist:   mat.NewDense(n, n, nil),
		force:  make([]float64, n),
		row:    make([]float64, n),
	}
}

func (d *denseSolver) Name() string { return "dense" }

func (d *denseSolver) Displace(adj adjacency.Matrix, pos geometry.Positions, optimal float64, dispX, dispY []float64) {
	k2 := optimal * optimal

	// Pairwise deltas and distances, one row sweep at a time.
	for i := 0; i < d.n; i++ {
		dx := d.deltaX.RawRowView(i)
		dy := d.deltaY.RawRowView(i)
		dist := d.dist.RawRowView(i)

		// delta[i][j] = pos[i] - pos[j]
		vek.SubNumber_Into(dx, pos.X, pos.X[i])
		vek.Neg_Inplace(dx)
		vek.SubNumber_Into(dy, pos.Y, pos.Y[i])
		vek.Neg_Inplace(dy)

		vek.Mul_Into(dist, dx, dx)
		vek.Mul_Into(d.force, dy, dy) // borrow force as scratch
		vek.Add_Inplace(dist, d.force)
		vek.Sqrt_Inplace(dist)
		geometry.ClampMin(dist, minDistance)
	}

	// Signed per-pair force: repulsion k²/d² minus attraction w·d/k, then
	// each node's displacement is the force-weighted sum of its deltas.
	// The diagonal contributes nothing since delta[i][i] is zero.
	for i := 0; i < d.n; i++ {
		dist := d.dist.RawRowView(i)
		w := adj.Row(i, d.row)
		for j := 0; j < d.n; j++ {
			dj := dist[j]
			d.force[j] = k2/(dj*dj) - w[j]*dj/optimal
		}
		dispX[i] = vek.Dot(d.deltaX.RawRowView(i), d.force)
		dispY[i] = vek.Dot(d.deltaY.RawRowView(i), d.force)
	}
}

var _ solver = (*denseSolver)(nil)
