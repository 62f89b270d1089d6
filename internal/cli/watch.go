package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/pkg/graph"
	"github.com/matzehuels/orbit/pkg/layout/force"
)

// The terminal grid is a scaled view of the canvas: each cell covers
// cellWidth x cellHeight canvas pixels.
const (
	cellWidth  = 12.0
	cellHeight = 24.0
	dragStep   = 24.0 // pixels per arrow key press
	chromeRows = 4    // header, blank line, two footer lines
	anchorRune = '◉'
)

var (
	watchSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	watchDraggedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <snapshot>",
		Short: "Watch a live layout in the terminal",
		Long: `Watch a live layout in the terminal.

Keys:
  tab / shift+tab   select next / previous node
  arrows, hjkl      drag the selected node
  enter             release the dragged node
  r                 send every node home
  space             pause or resume ticking
  q                 quit`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeSnapshots,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runWatch(ctx context.Context, input string) error {
	snap, err := c.loadSnapshot(ctx, input)
	if err != nil {
		return err
	}

	e := force.New(c.Config.Params())
	e.Initialize(snap.ToSpecs(), c.Config.CanvasSize())

	p := tea.NewProgram(newWatchModel(snap, e, c.Config.LoopOptions()), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(watchModel); ok {
		loggerFromContext(ctx).Debug("watch ended", "ticks", e.Ticks(), "corrections", m.stats.Corrections)
	}
	return nil
}

// =============================================================================
// watchModel - Live layout view
// =============================================================================

type frameMsg time.Time

type watchModel struct {
	engine   *force.Engine
	name     string
	ids      []string
	labels   map[string]string
	interval time.Duration
	maxDT    float64

	selected int // index into ids, -1 when nothing is selected
	dragging bool
	paused   bool

	cols, rows int
	last       time.Time
	stats      force.TickStats
}

func newWatchModel(s graph.Snapshot, e *force.Engine, opts force.LoopOptions) watchModel {
	if opts.Rate <= 0 {
		opts.Rate = force.DefaultRate
	}
	if opts.MaxDT <= 0 {
		opts.MaxDT = force.DefaultMaxDT
	}
	sorted := s.Sorted()
	m := watchModel{
		engine:   e,
		name:     s.Name,
		labels:   make(map[string]string, len(sorted.Nodes)),
		interval: time.Duration(float64(time.Second) / opts.Rate),
		maxDT:    opts.MaxDT,
		selected: -1,
	}
	for _, n := range sorted.Nodes {
		m.ids = append(m.ids, n.ID)
		m.labels[n.ID] = n.DisplayLabel()
	}
	return m
}

func (m watchModel) nextFrame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	return m.nextFrame()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		now := time.Time(msg)
		if !m.last.IsZero() && !m.paused {
			dt := now.Sub(m.last).Seconds()
			if dt > m.maxDT {
				dt = m.maxDT
			}
			m.stats = m.engine.Tick(dt)
		}
		m.last = now
		return m, m.nextFrame()

	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 1)
		m.rows = max(msg.Height-chromeRows, 1)
		m.engine.SetCanvasSize(force.Size{Width: float64(m.cols) * cellWidth, Height: float64(m.rows) * cellHeight})

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m = m.release()
			return m, tea.Quit
		case "tab":
			m = m.selectBy(1)
		case "shift+tab":
			m = m.selectBy(-1)
		case "up", "k":
			m = m.nudge(0, -dragStep)
		case "down", "j":
			m = m.nudge(0, dragStep)
		case "left", "h":
			m = m.nudge(-dragStep, 0)
		case "right", "l":
			m = m.nudge(dragStep, 0)
		case "enter":
			m = m.release()
		case "r":
			m.engine.ResetAll()
		case " ":
			m.paused = !m.paused
		}
	}
	return m, nil
}

// selectBy moves the selection by delta, releasing any dragged node.
func (m watchModel) selectBy(delta int) watchModel {
	if len(m.ids) == 0 {
		return m
	}
	m = m.release()
	n := len(m.ids)
	if m.selected < 0 && delta < 0 {
		m.selected = 0
	}
	m.selected = ((m.selected+delta)%n + n) % n
	return m
}

// nudge drags the selected node by (dx, dy), starting a drag if needed.
func (m watchModel) nudge(dx, dy float64) watchModel {
	if m.selected < 0 {
		return m
	}
	id := m.ids[m.selected]
	st, ok := m.engine.State(id)
	if !ok {
		return m
	}
	p := st.Position.Add(force.Vec{X: dx, Y: dy})
	if m.dragging {
		m.engine.UpdateDrag(id, p)
	} else {
		m.engine.BeginDrag(id, p)
		m.dragging = true
	}
	return m
}

func (m watchModel) release() watchModel {
	if m.dragging && m.selected >= 0 {
		m.engine.EndDrag(m.ids[m.selected])
	}
	m.dragging = false
	return m
}

type cell struct {
	r     rune
	style *lipgloss.Style
}

func (m watchModel) View() string {
	if m.cols == 0 {
		return StyleDim.Render("starting…")
	}

	grid := make([][]cell, m.rows)
	for i := range grid {
		grid[i] = make([]cell, m.cols)
	}

	size := m.engine.CanvasSize()
	anchor, _ := m.engine.AnchorID()
	for _, st := range m.engine.States() {
		col := clampIndex(int(st.Position.X/size.Width*float64(m.cols)), m.cols)
		row := clampIndex(int(st.Position.Y/size.Height*float64(m.rows)), m.rows)

		r, style := glyph(m.labels[st.ID]), &StyleValue
		if st.ID == anchor {
			r, style = anchorRune, &StyleNumber
		}
		if m.selected >= 0 && m.ids[m.selected] == st.ID {
			style = &watchSelectedStyle
			if st.Dragging {
				style = &watchDraggedStyle
			}
		}
		grid[row][col] = cell{r: r, style: style}
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	for _, line := range grid {
		for _, c := range line {
			if c.style == nil {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.footer())
	return b.String()
}

func (m watchModel) header() string {
	title := StyleTitle.Render("orbit watch")
	if m.name != "" {
		title += " " + StyleValue.Render(m.name)
	}
	status := fmt.Sprintf("tick %d · %s · %d corrections · %d clamps",
		m.engine.Ticks(), plural(m.stats.Nodes, "node"), m.stats.Corrections, m.stats.Clamps)
	if m.paused {
		status += " · " + StyleWarning.Render("paused")
	}
	return title + "  " + StyleDim.Render(status)
}

func (m watchModel) footer() string {
	sel := StyleDim.Render("no selection")
	if m.selected >= 0 {
		id := m.ids[m.selected]
		if st, ok := m.engine.State(id); ok {
			sel = fmt.Sprintf("%s %s (%.0f, %.0f)", watchSelectedStyle.Render(m.labels[id]),
				StyleDim.Render(string(st.Category)), st.Position.X, st.Position.Y)
			if st.Dragging {
				sel += " " + watchDraggedStyle.Render("dragging")
			}
		}
	}
	help := StyleDim.Render("tab select · arrows drag · enter release · r reset · space pause · q quit")
	return sel + "\n" + help
}

func glyph(label string) rune {
	for _, r := range label {
		return r
	}
	return '•'
}

func clampIndex(i, n int) int {
	return min(max(i, 0), n-1)
}
