package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/orbit/pkg/layout/force"
)

func newTestWatch(t *testing.T) (watchModel, *force.Engine) {
	t.Helper()
	s := testSnapshot()
	e := force.New(force.DefaultParams())
	e.Initialize(s.ToSpecs(), force.Size{Width: 1600, Height: 1200})
	m := newWatchModel(s, e, force.LoopOptions{})
	return m, e
}

func update(t *testing.T, m watchModel, msg tea.Msg) watchModel {
	t.Helper()
	next, _ := m.Update(msg)
	wm, ok := next.(watchModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return wm
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWatchDefaults(t *testing.T) {
	m, _ := newTestWatch(t)
	if m.interval != time.Second/60 {
		t.Errorf("interval = %v, want 1/60 s", m.interval)
	}
	if m.selected != -1 || len(m.ids) != 3 || m.ids[0] != "alice" {
		t.Errorf("model = selected %d, ids %v", m.selected, m.ids)
	}
	if m.labels["root"] != "Root" || m.labels["alice"] != "alice" {
		t.Errorf("labels = %v", m.labels)
	}
}

func TestWatchFramesTickEngine(t *testing.T) {
	m, e := newTestWatch(t)
	start := time.Now()

	m = update(t, m, frameMsg(start))
	if e.Ticks() != 0 {
		t.Fatal("first frame only records the clock")
	}
	m = update(t, m, frameMsg(start.Add(16*time.Millisecond)))
	if e.Ticks() != 1 || m.stats.Nodes != 3 {
		t.Errorf("ticks = %d, stats = %+v", e.Ticks(), m.stats)
	}

	m = update(t, m, key("space"))
	if !m.paused {
		t.Fatal("space should pause")
	}
	update(t, m, frameMsg(start.Add(32*time.Millisecond)))
	if e.Ticks() != 1 {
		t.Error("paused model ticked")
	}
}

func TestWatchResizeSetsCanvas(t *testing.T) {
	m, e := newTestWatch(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 44})

	want := force.Size{Width: 100 * cellWidth, Height: 40 * cellHeight}
	if got := e.CanvasSize(); got != want {
		t.Errorf("canvas = %v, want %v", got, want)
	}
	if got := e.Positions()["root"]; got != want.Center() {
		t.Errorf("anchor = %v, want centre %v", got, want.Center())
	}
	if m.cols != 100 || m.rows != 40 {
		t.Errorf("grid = %dx%d", m.cols, m.rows)
	}
}

func TestWatchSelectAndDrag(t *testing.T) {
	m, e := newTestWatch(t)

	m = update(t, m, key("right"))
	if m.dragging {
		t.Fatal("arrow without selection should not drag")
	}

	m = update(t, m, key("tab"))
	if m.ids[m.selected] != "alice" {
		t.Fatalf("tab selected %q", m.ids[m.selected])
	}
	before := e.Positions()["alice"]
	m = update(t, m, key("right"))
	m = update(t, m, key("l"))
	st, _ := e.State("alice")
	if !st.Dragging || !m.dragging {
		t.Fatal("arrow on selection should start a drag")
	}
	if want := before.Add(force.Vec{X: 2 * dragStep}); st.Position != want {
		t.Errorf("alice = %v, want %v", st.Position, want)
	}

	m = update(t, m, key("tab"))
	if st, _ := e.State("alice"); st.Dragging {
		t.Error("changing selection should release the dragged node")
	}
	if m.ids[m.selected] != "root" {
		t.Errorf("second tab selected %q", m.ids[m.selected])
	}

	m = update(t, m, key("shift+tab"))
	m = update(t, m, key("shift+tab"))
	if m.ids[m.selected] != "rule" {
		t.Errorf("shift+tab wrapped to %q", m.ids[m.selected])
	}

	m = update(t, m, key("j"))
	m = update(t, m, key("enter"))
	if st, _ := e.State("rule"); st.Dragging || m.dragging {
		t.Error("enter should release")
	}
}

func TestWatchQuit(t *testing.T) {
	m, _ := newTestWatch(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestWatchView(t *testing.T) {
	m, _ := newTestWatch(t)
	if !strings.Contains(m.View(), "starting") {
		t.Error("view before sizing should be a placeholder")
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	view := m.View()
	for _, want := range []string{"orbit watch", "team", string(anchorRune), "a", "r", "no selection"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if lines := strings.Count(view, "\n"); lines != 20+3 {
		t.Errorf("view has %d newlines, want %d", lines, 23)
	}
}
