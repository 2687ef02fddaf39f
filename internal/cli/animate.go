package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// animateCommand creates the animate command for playing a layout stream
// in the terminal.
func (c *CLI) animateCommand() *cobra.Command {
	var fps int
	opts := pipeline.Options{
		Iterations: c.Config.Iterations,
		Optimal:    c.Config.Optimal,
		Seed:       c.Config.Seed,
	}

	cmd := &cobra.Command{
		Use:   "animate [graph.json]",
		Short: "Animate a layout computation in the terminal",
		Long: `Animate a layout computation in the terminal.

Each simulation step is rendered as soon as it is computed, showing the
layout annealing from random positions into its final embedding. The stream
is pull-based, so pausing the animation pauses the computation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}

			// Streams are never cached, so skip cache setup entirely.
			runner, err := c.newRunner(true)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts.Logger = c.Logger
			stream, err := runner.StreamLayout(cmd.Context(), g, opts)
			if err != nil {
				return err
			}

			model := newAnimateModel(stream, fps)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().IntVarP(&opts.Iterations, "iterations", "n", opts.Iterations, "number of simulation iterations")
	cmd.Flags().Float64VarP(&opts.Optimal, "optimal", "k", opts.Optimal, "optimal inter-node distance (default: 1/sqrt(n))")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for initial positions")
	cmd.Flags().IntVar(&fps, "fps", 15, "playback speed in frames per second")

	return cmd
}

// =============================================================================
// AnimateModel - Terminal layout animation
// =============================================================================

var (
	animNodeStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	animDoneStyle = lipgloss.NewStyle().Foreground(colorGreen)
)

// tickMsg advances the animation by one snapshot.
type tickMsg time.Time

// AnimateModel is the bubbletea model that plays a layout stream.
type AnimateModel struct {
	stream  *layout.Stream
	frame   graph.Frame
	total   int
	fps     int
	playing bool
	done    bool
	started bool
	width   int
	height  int
}

// newAnimateModel creates an animation model for the given stream.
func newAnimateModel(stream *layout.Stream, fps int) AnimateModel {
	if fps <= 0 {
		fps = 15
	}
	return AnimateModel{
		stream:  stream,
		total:   stream.Len(),
		fps:     fps,
		playing: true,
		width:   80,
		height:  24,
	}
}

func (m AnimateModel) Init() tea.Cmd {
	return m.tick()
}

func (m AnimateModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m AnimateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
			if m.playing && !m.done {
				return m, m.tick()
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		if !m.playing || m.done {
			return m, nil
		}
		snap, ok := m.stream.Next()
		if !ok {
			m.done = true
			return m, nil
		}
		m.frame = graph.FrameFromSnapshot(snap)
		m.started = true
		return m, m.tick()
	}
	return m, nil
}

func (m AnimateModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout Animation"))
	b.WriteString("  ")
	if m.done {
		b.WriteString(animDoneStyle.Render("settled"))
	} else if !m.playing {
		b.WriteString(StyleWarning.Render("paused"))
	} else {
		b.WriteString(StyleDim.Render(fmt.Sprintf("step %d/%d  t=%.4f",
			m.frame.Iteration+1, m.total, m.frame.Temperature)))
	}
	b.WriteString("\n\n")

	if m.started {
		b.WriteString(m.plot())
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space pause/resume  q quit"))
	return b.String()
}

// plot rasterizes the unit-square positions onto a character grid.
func (m AnimateModel) plot() string {
	cols := m.width - 4
	rows := m.height - 6
	if cols < 10 {
		cols = 10
	}
	if rows < 5 {
		rows = 5
	}

	grid := make([][]bool, rows)
	for i := range grid {
		grid[i] = make([]bool, cols)
	}

	for _, p := range m.frame.Positions {
		col := int(p[0] * float64(cols-1))
		// Terminal rows grow downward, layout y grows upward.
		row := rows - 1 - int(p[1]*float64(rows-1))
		if col >= 0 && col < cols && row >= 0 && row < rows {
			grid[row][col] = true
		}
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString("  ")
		for _, set := range row {
			if set {
				b.WriteString(animNodeStyle.Render("●"))
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
