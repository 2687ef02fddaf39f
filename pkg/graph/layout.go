package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/geometry"
	"github.com/matzehuels/forcegraph/pkg/layout"
)

// =============================================================================
// Frame - Streaming Snapshot Format
// =============================================================================

// Frame is the wire format for one layout snapshot, used by the streaming
// endpoint (one frame per NDJSON line) and the animation consumer.
// Positions follow the input graph's node order.
type Frame struct {
	Iteration   int                `json:"iteration"`
	Temperature float64            `json:"temperature"`
	Positions   [][2]float64       `json:"positions"`
	Lines       []geometry.Segment `json:"lines,omitempty"`
	Arrows      []geometry.Segment `json:"arrows,omitempty"`
}

// FrameFromSnapshot converts an engine snapshot to its wire format.
func FrameFromSnapshot(s layout.Snapshot) Frame {
	pos := make([][2]float64, s.Positions.Len())
	for i := range pos {
		pos[i] = [2]float64{s.Positions.X[i], s.Positions.Y[i]}
	}
	return Frame{
		Iteration:   s.Iteration,
		Temperature: s.Temperature,
		Positions:   pos,
		Lines:       s.Lines,
		Arrows:      s.Arrows,
	}
}

// =============================================================================
// Layout - Final Artifact Format
// =============================================================================

// Layout is the serialization format for a finished layout: final node
// positions plus the parameters that produced them, so a run can be
// reproduced or used to seed a refinement run.
type Layout struct {
	Directed   bool    `json:"directed,omitempty"`
	Iterations int     `json:"iterations"`
	Seed       uint64  `json:"seed,omitempty"`
	Optimal    float64 `json:"optimal,omitempty"`

	Nodes  []NodePosition     `json:"nodes"`
	Lines  []geometry.Segment `json:"lines,omitempty"`
	Arrows []geometry.Segment `json:"arrows,omitempty"`
}

// NodePosition pairs a node ID with its final coordinates.
type NodePosition struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// LayoutFromSnapshot builds the final-artifact document from the last
// snapshot of a computation over g.
func LayoutFromSnapshot(g Graph, s layout.Snapshot, iterations int, seed uint64, optimal float64) Layout {
	nodes := make([]NodePosition, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = NodePosition{ID: n.ID, X: s.Positions.X[i], Y: s.Positions.Y[i]}
	}
	return Layout{
		Directed:   g.Directed,
		Iterations: iterations,
		Seed:       seed,
		Optimal:    optimal,
		Nodes:      nodes,
		Lines:      s.Lines,
		Arrows:     s.Arrows,
	}
}

// InitialPositions converts the stored node coordinates back into a
// position set, for seeding a refinement run.
func (l Layout) InitialPositions() geometry.Positions {
	p := geometry.NewPositions(len(l.Nodes))
	for i, n := range l.Nodes {
		p.X[i] = n.X
		p.Y[i] = n.Y
	}
	return p
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if len(l.Nodes) == 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout must contain nodes")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
