// Package render turns computed layouts into visual artifacts.
//
// # Overview
//
// A layout assigns unit-square coordinates to every node of a graph. This
// package serializes those coordinates into Graphviz DOT with pinned node
// positions, and optionally rasterizes the DOT into SVG:
//
//	dot := render.ToDOT(g, layout, render.Options{Scale: render.DefaultScale})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # DOT Output
//
// [ToDOT] emits a digraph or graph depending on the layout's directedness.
// Node positions carry the "!" pin suffix and the graph sets layout=neato,
// so Graphviz honors the force-directed embedding instead of recomputing
// its own. Coordinates are scaled from the unit square into point space by
// [Options.Scale] (defaulting to [DefaultScale]).
//
// # SVG Output
//
// [RenderSVG] runs the embedded Graphviz engine (goccy/go-graphviz, a WASM
// build of the C library) and normalizes the resulting viewBox so the SVG
// scales cleanly when embedded in web pages.
package render
