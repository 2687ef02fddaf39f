// Package graph provides the canonical serialization format for input
// graphs and computed layouts.
//
// A [Graph] is the JSON document callers hand to the CLI or server: a node
// list plus weighted edges. [Graph.Adjacency] converts it into the matrix
// form the layout engine consumes, choosing a dense or sparse representation
// by edge density.
//
// A [Layout] is the JSON artifact written after a computation: final node
// positions plus the line/arrow geometry of the last snapshot, along with
// the parameters that produced it so a run can be reproduced or refined.
package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/forcegraph/pkg/adjacency"
	"github.com/matzehuels/forcegraph/pkg/errors"
)

// =============================================================================
// Graph - Input Serialization
// =============================================================================

// Graph is the canonical serialization format for input graphs.
// The format is human-readable and designed for round-trip fidelity.
type Graph struct {
	// Directed controls whether the layout emits arrow geometry.
	Directed bool `json:"directed,omitempty"`

	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a graph vertex. Positions are assigned by the layout engine in
// node-list order.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"` // display label (defaults to ID)
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a weighted connection between two nodes. A zero weight means
// unset and is treated as 1.
type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight,omitempty"`
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Validate checks structural integrity: non-empty unique node IDs and edge
// endpoints that refer to declared nodes.
func (g *Graph) Validate() error {
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidGraph, "node with empty id")
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
	}
	for _, e := range g.Edges {
		if !seen[e.From] {
			return errors.New(errors.ErrCodeInvalidGraph, "edge references unknown node %q", e.From)
		}
		if !seen[e.To] {
			return errors.New(errors.ErrCodeInvalidGraph, "edge references unknown node %q", e.To)
		}
	}
	return nil
}

// denseCutoff is the edge density above which Adjacency builds a dense
// matrix instead of compressed sparse rows.
const denseCutoff = 0.25

// Adjacency converts the graph to matrix form for the layout engine.
// Node order follows the node list. Undirected graphs get symmetric
// entries: each edge is stored as both (i,j) and (j,i).
func (g *Graph) Adjacency() (adjacency.Matrix, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	n := len(g.Nodes)
	index := make(map[string]int, n)
	for i, node := range g.Nodes {
		index[node.ID] = i
	}

	entries := make([]adjacency.Entry, 0, 2*len(g.Edges))
	for _, e := range g.Edges {
		w := e.Weight
		if w == 0 {
			w = 1
		}
		i, j := index[e.From], index[e.To]
		entries = append(entries, adjacency.Entry{Row: i, Col: j, Weight: w})
		if !g.Directed {
			entries = append(entries, adjacency.Entry{Row: j, Col: i, Weight: w})
		}
	}

	if n > 0 && float64(len(entries)) > denseCutoff*float64(n)*float64(n) {
		d := adjacency.NewDense(n, n, nil)
		for _, e := range entries {
			d.Set(e.Row, e.Col, e.Weight)
		}
		return d, nil
	}
	return adjacency.NewCSR(n, n, entries), nil
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// UnmarshalGraph deserializes JSON bytes to a Graph and validates it.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal graph")
	}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// MarshalGraph serializes a Graph to pretty-printed JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// ReadGraphFile reads and validates a Graph from a JSON file.
func ReadGraphFile(path string) (Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Graph{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalGraph(data)
}

// WriteGraphFile writes a Graph to a JSON file.
func WriteGraphFile(g Graph, path string) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
