package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pipelinedag/pkg/graph"
	"github.com/matzehuels/pipelinedag/pkg/layout"
	"github.com/matzehuels/pipelinedag/pkg/pipeline"
	"github.com/matzehuels/pipelinedag/pkg/validate"
)

// cellWidth approximates the pixel width of one terminal column when the
// window size is turned into a display context.
const cellWidth = 8

// Editor styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listMarkStyle     = lipgloss.NewStyle().Foreground(colorYellow)
)

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	var (
		flags layoutFlags
		auto  bool
	)

	cmd := &cobra.Command{
		Use:   "edit [graph]",
		Short: "Edit a pipeline interactively with live validation",
		Long: `Edit a pipeline interactively with live validation.

The pipeline is re-validated after every change. Press l or L to lay it
out; with --auto it is also laid out again after every change. A layout
that finishes after a newer change is discarded.

Keys:
  a        add a step            x      remove the selected step
  c        connect (mark, then pick the target)
  d        disconnect the marked step from the selected one
  esc      clear the mark        l / L  lay out top-to-bottom / left-to-right
  s        save                  q      quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)
			opts.Logger = c.Logger
			opts.SetDefaults()
			if err := opts.Validate(); err != nil {
				return err
			}

			path := "pipeline.json"
			var g graph.Graph
			if len(args) == 1 {
				path = args[0]
				g, err = graph.ReadFile(path)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("load graph %s: %w", path, err)
				}
			}

			coord := layout.NewCoordinator(pipeline.NewEngine(opts))
			m := newEditorModel(cmd.Context(), g, coord, opts)
			m.path = path
			m.auto = auto

			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			coord.Close()
			if errors.Is(err, tea.ErrProgramKilled) && cmd.Context().Err() != nil {
				return cmd.Context().Err()
			}
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&auto, "auto", false, "lay out again after every change")

	return cmd
}

// =============================================================================
// editorModel - Interactive pipeline editor
// =============================================================================

// layoutMsg carries a finished layout request back into the update loop.
type layoutMsg struct {
	result layout.Result
	ok     bool
	err    error
	rev    int
	dir    graph.Direction
}

// editorModel is the bubbletea model of the editor. Every mutation bumps
// rev; a layout computed for an older rev is never applied.
type editorModel struct {
	ctx   context.Context
	coord *layout.Coordinator

	graph   graph.Graph
	report  validate.Report
	dir     graph.Direction
	presets layout.Presets
	sizing  layout.Sizing
	fixed   bool // sizing forced by flags; window size is ignored

	cursor int
	mark   string
	rev    int
	next   int
	auto   bool
	path   string
	status string
}

func newEditorModel(ctx context.Context, g graph.Graph, coord *layout.Coordinator, opts pipeline.Options) editorModel {
	m := editorModel{
		ctx:     ctx,
		coord:   coord,
		graph:   g.Clone(),
		dir:     opts.Dir(),
		presets: opts.Presets,
		sizing:  opts.Sizing(),
		fixed:   opts.Compact != nil || opts.ViewportWidth > 0,
		next:    len(g.Nodes) + 1,
	}
	m.report = validate.Validate(m.graph)
	return m
}

func (m editorModel) Init() tea.Cmd {
	if m.auto && len(m.graph.Nodes) > 0 {
		return m.requestLayout(m.dir)
	}
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		if !m.fixed {
			m.sizing = m.presets.For(layout.DisplayContext{ViewportWidth: float64(msg.Width * cellWidth)})
		}

	case layoutMsg:
		switch {
		case msg.rev != m.rev:
			m.status = "Dropped a stale layout"
		case msg.err != nil:
			m.status = "Layout failed: " + msg.err.Error()
		case !msg.ok:
			m.status = "Dropped a stale layout"
		default:
			m.graph = layout.Apply(m.graph, msg.result)
			m.dir = msg.dir
			m.status = fmt.Sprintf("Laid out %d steps (%s)", len(msg.result.Positions), msg.dir)
		}
	}
	return m, nil
}

func (m editorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.coord.Close()
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.graph.Nodes)-1 {
			m.cursor++
		}

	case "a":
		m.graph.Nodes = append(m.graph.Nodes, graph.Node{
			ID:    uuid.NewString(),
			Label: fmt.Sprintf("step %d", m.next),
		})
		m.next++
		m.cursor = len(m.graph.Nodes) - 1
		return m.changed("Added " + m.graph.Nodes[m.cursor].Label)

	case "x":
		sel, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.removeNode(sel.ID)
		if m.mark == sel.ID {
			m.mark = ""
		}
		if m.cursor >= len(m.graph.Nodes) && m.cursor > 0 {
			m.cursor--
		}
		return m.changed("Removed " + sel.DisplayLabel())

	case "c":
		sel, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.mark == "" {
			m.mark = sel.ID
			m.status = "Connecting from " + sel.DisplayLabel() + ", pick a target and press c"
			return m, nil
		}
		if m.mark == sel.ID {
			m.status = validate.MsgSelfLoop
			return m, nil
		}
		if m.connected(m.mark, sel.ID) {
			m.status = "Steps are already connected"
			return m, nil
		}
		m.graph.Edges = append(m.graph.Edges, graph.Edge{ID: uuid.NewString(), Source: m.mark, Target: sel.ID})
		m.mark = ""
		return m.changed("Connected to " + sel.DisplayLabel())

	case "d":
		sel, ok := m.selected()
		if !ok || m.mark == "" {
			m.status = "Mark a step with c first"
			return m, nil
		}
		if !m.disconnect(m.mark, sel.ID) {
			m.status = "Steps are not connected"
			return m, nil
		}
		m.mark = ""
		return m.changed("Disconnected " + sel.DisplayLabel())

	case "esc":
		m.mark = ""
		m.status = ""

	case "l":
		return m, m.requestLayout(graph.TopToBottom)
	case "L":
		return m, m.requestLayout(graph.LeftToRight)

	case "s":
		if err := writeJSON(m.path, m.graph); err != nil {
			m.status = "Save failed: " + err.Error()
		} else {
			m.status = "Saved " + m.path
		}
	}
	return m, nil
}

// changed re-validates after a mutation and, in auto mode, requests a
// fresh layout.
func (m editorModel) changed(status string) (tea.Model, tea.Cmd) {
	m.rev++
	m.report = validate.Validate(m.graph)
	m.status = status
	if m.auto && len(m.graph.Nodes) > 0 {
		return m, m.requestLayout(m.dir)
	}
	return m, nil
}

// requestLayout returns a command computing the layout of the current
// graph. The graph is copied, so later edits cannot race with it.
func (m editorModel) requestLayout(dir graph.Direction) tea.Cmd {
	ctx, coord, g, s, rev := m.ctx, m.coord, m.graph.Clone(), m.sizing, m.rev
	return func() tea.Msg {
		res, ok, err := coord.Request(ctx, g, dir, s)
		return layoutMsg{result: res, ok: ok, err: err, rev: rev, dir: dir}
	}
}

func (m *editorModel) selected() (graph.Node, bool) {
	if m.cursor < 0 || m.cursor >= len(m.graph.Nodes) {
		return graph.Node{}, false
	}
	return m.graph.Nodes[m.cursor], true
}

// removeNode drops the node and every edge touching it.
func (m *editorModel) removeNode(id string) {
	nodes := m.graph.Nodes[:0:0]
	for _, n := range m.graph.Nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}
	edges := m.graph.Edges[:0:0]
	for _, e := range m.graph.Edges {
		if e.Source != id && e.Target != id {
			edges = append(edges, e)
		}
	}
	m.graph.Nodes, m.graph.Edges = nodes, edges
}

func (m *editorModel) connected(source, target string) bool {
	for _, e := range m.graph.Edges {
		if e.Source == source && e.Target == target {
			return true
		}
	}
	return false
}

// disconnect removes every source→target edge and reports whether there
// was one.
func (m *editorModel) disconnect(source, target string) bool {
	edges := m.graph.Edges[:0:0]
	for _, e := range m.graph.Edges {
		if e.Source != source || e.Target != target {
			edges = append(edges, e)
		}
	}
	removed := len(edges) != len(m.graph.Edges)
	m.graph.Edges = edges
	return removed
}

func (m editorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Pipeline Editor"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s · %s", m.path, m.dir)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("a add  x remove  c connect  d disconnect  l/L layout  s save  q quit"))
	b.WriteString("\n\n")

	if len(m.graph.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  (no steps, press a to add one)"))
		b.WriteString("\n")
	}
	for i, n := range m.graph.Nodes {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		mark := " "
		if n.ID == m.mark {
			mark = listMarkStyle.Render("*")
		}
		line := fmt.Sprintf("%s%s %-16s %s", cursor, mark, n.DisplayLabel(),
			listDimStyle.Render(fmt.Sprintf("(%.0f, %.0f)  ← %s", n.Position.X, n.Position.Y, m.inputs(n.ID))))
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.reportView())
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

// inputs lists the labels of the steps feeding id.
func (m editorModel) inputs(id string) string {
	labels := map[string]string{}
	for _, n := range m.graph.Nodes {
		labels[n.ID] = n.DisplayLabel()
	}
	var in []string
	for _, e := range m.graph.Edges {
		if e.Target == id {
			in = append(in, labels[e.Source])
		}
	}
	if len(in) == 0 {
		return "—"
	}
	return strings.Join(in, ", ")
}

func (m editorModel) reportView() string {
	var b strings.Builder
	switch m.report.Status() {
	case validate.StatusValid:
		b.WriteString(styleValid.Render(m.report.Summary()))
	case validate.StatusEmpty:
		b.WriteString(listDimStyle.Render(m.report.Title()))
	default:
		b.WriteString(styleInvalid.Render(m.report.Title()))
	}
	b.WriteString("\n")
	for _, msg := range m.report.Errors {
		b.WriteString("  " + styleIconError.Render(iconError) + " " + msg + "\n")
	}
	for _, msg := range m.report.Warnings {
		b.WriteString("  " + styleIconWarning.Render(iconWarning) + " " + msg + "\n")
	}
	return b.String()
}
