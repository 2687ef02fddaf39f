package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// DefaultScale maps the unit layout domain onto Graphviz inches.
// Coordinates in [0,1] are too cramped for readable output, so positions
// are multiplied by this factor before pinning.
const DefaultScale = 10.0

// Options configures DOT generation.
type Options struct {
	// Scale multiplies layout coordinates before pinning. Zero means
	// DefaultScale.
	Scale float64

	// Labels renders node labels instead of bare IDs.
	Labels bool
}

// ToDOT converts a computed layout to Graphviz DOT format. Every node is
// pinned at its layout position (the "!" suffix), so the neato engine keeps
// the force-directed embedding instead of computing its own.
func ToDOT(g graph.Graph, l graph.Layout, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	labels := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		labels[n.ID] = n.DisplayLabel()
	}

	edgeOp := "--"
	var buf bytes.Buffer
	if l.Directed {
		buf.WriteString("digraph G {\n")
		edgeOp = "->"
	} else {
		buf.WriteString("graph G {\n")
	}
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fixedsize=true, width=0.6];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		attrs := []string{fmt.Sprintf("pos=\"%.4f,%.4f!\"", n.X*scale, n.Y*scale)}
		if opts.Labels {
			attrs = append(attrs, fmt.Sprintf("label=%q", labels[n.ID]))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q %s %q;\n", e.From, edgeOp, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz. The DOT produced by
// [ToDOT] selects the neato engine itself, so pinned positions are honored.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the outer svg tag so the viewBox starts at the
// origin and the width/height match it. Graphviz emits pt-based sizes that
// scale poorly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
