package geometry

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/adjacency"
)

func TestClampMin(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		floor  float64
		want   []float64
	}{
		{
			name:   "values below floor",
			values: []float64{0.005, 0.02, 0, 1},
			floor:  0.01,
			want:   []float64{0.01, 0.02, 0.01, 1},
		},
		{
			name:   "all above floor",
			values: []float64{1, 2, 3},
			floor:  0.01,
			want:   []float64{1, 2, 3},
		},
		{
			name:   "negative values",
			values: []float64{-1, -0.001},
			floor:  0.01,
			want:   []float64{0.01, 0.01},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ClampMin(tt.values, tt.floor)
			if !reflect.DeepEqual(tt.values, tt.want) {
				t.Errorf("ClampMin() = %v, want %v", tt.values, tt.want)
			}
		})
	}
}

func TestRescale(t *testing.T) {
	p := Positions{
		X: []float64{2, 4, 6},
		Y: []float64{1, 1, 3},
	}
	Rescale(p)

	wantX := []float64{0, 0.5, 1}
	wantY := []float64{0, 0, 0.5}
	for i := range wantX {
		if math.Abs(p.X[i]-wantX[i]) > 1e-12 {
			t.Errorf("X[%d] = %v, want %v", i, p.X[i], wantX[i])
		}
		if math.Abs(p.Y[i]-wantY[i]) > 1e-12 {
			t.Errorf("Y[%d] = %v, want %v", i, p.Y[i], wantY[i])
		}
	}
}

func TestRescaleIdempotent(t *testing.T) {
	p := Positions{
		X: []float64{-3, 0, 7, 2},
		Y: []float64{5, -1, 0, 9},
	}
	Rescale(p)
	once := p.Clone()
	Rescale(p)

	for i := 0; i < p.Len(); i++ {
		if math.Abs(p.X[i]-once.X[i]) > 1e-12 || math.Abs(p.Y[i]-once.Y[i]) > 1e-12 {
			t.Errorf("node %d moved on second rescale: (%v,%v) vs (%v,%v)",
				i, p.X[i], p.Y[i], once.X[i], once.Y[i])
		}
	}
}

func TestRescaleDegenerate(t *testing.T) {
	t.Run("single node", func(t *testing.T) {
		p := Positions{X: []float64{0.3}, Y: []float64{0.7}}
		Rescale(p)
		if math.IsNaN(p.X[0]) || math.IsNaN(p.Y[0]) {
			t.Fatal("single-node rescale produced NaN")
		}
		if p.X[0] != 0 || p.Y[0] != 0 {
			t.Errorf("single node = (%v, %v), want origin", p.X[0], p.Y[0])
		}
	})

	t.Run("coincident nodes", func(t *testing.T) {
		p := Positions{X: []float64{2, 2}, Y: []float64{5, 5}}
		Rescale(p)
		for i := 0; i < 2; i++ {
			if math.IsNaN(p.X[i]) || math.IsInf(p.X[i], 0) {
				t.Fatal("coincident rescale produced non-finite coordinate")
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		Rescale(Positions{}) // must not panic
	})
}

func TestClone(t *testing.T) {
	p := Positions{X: []float64{1, 2}, Y: []float64{3, 4}}
	c := p.Clone()
	c.X[0] = 99
	if p.X[0] != 1 {
		t.Error("Clone() aliases the original X buffer")
	}
}

func TestSegments(t *testing.T) {
	m := adjacency.FromRows([][]float64{
		{0, 1},
		{1, 0},
	})
	p := Positions{X: []float64{0, 1}, Y: []float64{0, 2}}

	t.Run("undirected", func(t *testing.T) {
		lines, arrows := Segments(m, p, false)
		wantLines := []Segment{
			{X1: 0, Y1: 0, X2: 1, Y2: 2},
			{X1: 1, Y1: 2, X2: 0, Y2: 0},
		}
		if !reflect.DeepEqual(lines, wantLines) {
			t.Errorf("lines = %v, want %v", lines, wantLines)
		}
		if len(arrows) != 0 {
			t.Errorf("arrows = %v, want empty", arrows)
		}
	})

	t.Run("directed", func(t *testing.T) {
		lines, arrows := Segments(m, p, true)
		if !reflect.DeepEqual(arrows, lines) {
			t.Errorf("directed arrows = %v, want same endpoints as lines %v", arrows, lines)
		}
	})

	t.Run("no edges", func(t *testing.T) {
		empty := adjacency.NewDense(2, 2, nil)
		lines, arrows := Segments(empty, p, true)
		if len(lines) != 0 || len(arrows) != 0 {
			t.Errorf("zero adjacency produced geometry: %v, %v", lines, arrows)
		}
	})
}
