package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

func testGraphAndLayout(directed bool) (graph.Graph, graph.Layout) {
	g := graph.Graph{
		Directed: directed,
		Nodes: []graph.Node{
			{ID: "a", Label: "Node A"},
			{ID: "b"},
		},
		Edges: []graph.Edge{{From: "a", To: "b"}},
	}
	l := graph.Layout{
		Directed: directed,
		Nodes: []graph.NodePosition{
			{ID: "a", X: 0.0, Y: 0.0},
			{ID: "b", X: 1.0, Y: 0.5},
		},
	}
	return g, l
}

func TestToDOTUndirected(t *testing.T) {
	g, l := testGraphAndLayout(false)
	dot := ToDOT(g, l, Options{})

	if !strings.HasPrefix(dot, "graph G {") {
		t.Errorf("undirected graphs should emit graph, got: %s", dot[:20])
	}
	if !strings.Contains(dot, `"a" -- "b";`) {
		t.Error("undirected edges should use --")
	}
	if strings.Contains(dot, "->") {
		t.Error("undirected DOT should not contain ->")
	}
}

func TestToDOTDirected(t *testing.T) {
	g, l := testGraphAndLayout(true)
	dot := ToDOT(g, l, Options{})

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("directed graphs should emit digraph, got: %s", dot[:20])
	}
	if !strings.Contains(dot, `"a" -> "b";`) {
		t.Error("directed edges should use ->")
	}
}

func TestToDOTPinsPositions(t *testing.T) {
	g, l := testGraphAndLayout(false)
	dot := ToDOT(g, l, Options{})

	// Positions scaled by DefaultScale and pinned with "!"
	if !strings.Contains(dot, `"a" [pos="0.0000,0.0000!"];`) {
		t.Errorf("node a should be pinned at origin:\n%s", dot)
	}
	if !strings.Contains(dot, `"b" [pos="10.0000,5.0000!"];`) {
		t.Errorf("node b should be pinned at scaled position:\n%s", dot)
	}
	if !strings.Contains(dot, "layout=neato;") {
		t.Error("DOT should select the neato engine")
	}
}

func TestToDOTCustomScale(t *testing.T) {
	g, l := testGraphAndLayout(false)
	dot := ToDOT(g, l, Options{Scale: 2})

	if !strings.Contains(dot, `"b" [pos="2.0000,1.0000!"];`) {
		t.Errorf("custom scale should apply:\n%s", dot)
	}
}

func TestToDOTLabels(t *testing.T) {
	g, l := testGraphAndLayout(false)
	dot := ToDOT(g, l, Options{Labels: true})

	if !strings.Contains(dot, `label="Node A"`) {
		t.Error("explicit labels should be used when set")
	}
	// Nodes without a label fall back to their ID
	if !strings.Contains(dot, `label="b"`) {
		t.Error("nodes without a label should fall back to the ID")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">
<g></g>
</svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox should be normalized: %s", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("width/height should match the viewBox: %s", out)
	}
	if strings.Contains(out, "pt") && strings.Contains(out, `width="100pt"`) {
		t.Error("pt-based size should be replaced")
	}
}

func TestNormalizeViewBoxNoMatch(t *testing.T) {
	in := []byte("<svg>no viewbox</svg>")
	out := normalizeViewBox(in)
	if string(out) != string(in) {
		t.Error("input without a viewBox should pass through unchanged")
	}
}
