package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// layoutCommand creates the layout command for computing graph layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		formats  string
		from     string
		noCache  bool
		directed bool
	)
	opts := pipeline.Options{
		Iterations: c.Config.Iterations,
		Optimal:    c.Config.Optimal,
		Seed:       c.Config.Seed,
		Scale:      c.Config.Scale,
		Labels:     c.Config.Labels,
	}

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a force-directed layout for a graph",
		Long: `Compute a force-directed layout for a graph.

The layout command takes a graph.json file and runs Fruchterman-Reingold
dynamics until the configured iteration budget is spent. The result is a
layout.json document with one position per node in the unit square, plus
optional DOT and SVG renderings (--format).

An existing layout can be refined instead of starting from random positions
by passing it with --from.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formats)
			var dirOverride *bool
			if cmd.Flags().Changed("directed") {
				dirOverride = &directed
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, from, noCache, dirOverride)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output basename (default: derived from input)")
	cmd.Flags().StringVarP(&formats, "format", "f", "json", "output formats, comma-separated: json, dot, svg")
	cmd.Flags().StringVar(&from, "from", "", "refine an existing layout.json instead of starting from random positions")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if a cached layout exists")
	cmd.Flags().BoolVar(&directed, "directed", false, "treat the graph as directed (overrides the graph file)")

	cmd.Flags().IntVarP(&opts.Iterations, "iterations", "n", opts.Iterations, "number of simulation iterations")
	cmd.Flags().Float64VarP(&opts.Optimal, "optimal", "k", opts.Optimal, "optimal inter-node distance (default: 1/sqrt(n))")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for initial positions")

	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "coordinate scale for dot/svg output")
	cmd.Flags().BoolVar(&opts.Labels, "labels", opts.Labels, "render node labels in dot/svg output")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes the artifacts.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output, from string, noCache bool, directed *bool) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	if directed != nil {
		g.Directed = *directed
	}
	if g.EdgeCount() == 0 {
		printWarning("Graph has no edges; nodes will spread uniformly")
	}

	if from != "" {
		initial, err := graph.ReadLayoutFile(from)
		if err != nil {
			return fmt.Errorf("load layout %s: %w", from, err)
		}
		opts.Initial = &initial
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Computed layout for %d nodes", g.NodeCount()))

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	printSuccess("Layout complete")
	for _, format := range opts.Formats {
		path := artifactPath(base, format)
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(g.NodeCount(), g.EdgeCount(), result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Animate", appName+" animate "+input)

	return nil
}

// artifactPath derives the output path for a format from the basename.
func artifactPath(base, format string) string {
	switch format {
	case pipeline.FormatJSON:
		return base + ".layout.json"
	case pipeline.FormatDOT:
		return base + ".dot"
	case pipeline.FormatSVG:
		return base + ".svg"
	default:
		return base + "." + format
	}
}
