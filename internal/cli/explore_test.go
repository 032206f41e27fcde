package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/pipeline"
)

// projectJSON lays out into 150x100 as
//
//	p/src 0,0 120x100 (main.go 80 wide, util.go 40 wide)
//	p/README.md 120,0 30x100
const projectJSON = `{
  "name": "p",
  "children": [
    {"name": "src", "children": [
      {"name": "main.go", "weight": 8},
      {"name": "util.go", "weight": 4}
    ]},
    {"name": "README.md", "weight": 3}
  ]
}`

func newTestExplorer(t *testing.T) *exploreModel {
	t.Helper()
	tr, err := pipeline.ReadTree([]byte(projectJSON), pipeline.Options{})
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	opts := pipeline.Options{Palette: "default", Logger: runner.Logger}
	return newExploreModel(context.Background(), runner, tr, opts)
}

// send delivers msg and runs any resulting layout synchronously.
func send(m *exploreModel, msg tea.Msg) {
	_, cmd := m.Update(msg)
	for cmd != nil {
		next := cmd()
		if _, ok := next.(layoutDoneMsg); !ok {
			return
		}
		_, cmd = m.Update(next)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func checkSelected(t *testing.T, m *exploreModel, node string, x, y, w, h int) {
	t.Helper()
	if !m.hasSel {
		t.Fatalf("no selection, want %s", node)
	}
	s := m.selected
	if s.Node != node || s.X != x || s.Y != y || s.Width != w || s.Height != h {
		t.Errorf("selected = %v, want %s %d,%d %dx%d", s, node, x, y, w, h)
	}
}

func TestExploreInitialLayout(t *testing.T) {
	m := newTestExplorer(t)
	send(m, tea.WindowSizeMsg{Width: 150, Height: 100 + chromeRows})

	if m.computing {
		t.Error("still computing after layout was delivered")
	}
	if m.rects.Len() != 5 {
		t.Fatalf("rects = %d, want 5", m.rects.Len())
	}
	checkSelected(t, m, "p/src/main.go", 0, 0, 80, 100)

	view := m.View()
	for _, want := range []string{"main.go", "README.md", "p/src/main.go"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestExploreMove(t *testing.T) {
	m := newTestExplorer(t)
	send(m, tea.WindowSizeMsg{Width: 150, Height: 100 + chromeRows})

	tests := []struct {
		key  string
		want string
	}{
		{"right", "p/src/util.go"},
		{"l", "p/README.md"},
		{"right", "p/README.md"}, // edge of the map
		{"left", "p/src/util.go"},
		{"h", "p/src/main.go"},
		{"k", "p/src/main.go"},
	}
	for _, tt := range tests {
		send(m, key(tt.key))
		if m.selected.Node != tt.want {
			t.Errorf("after %s selected = %s, want %s", tt.key, m.selected.Node, tt.want)
		}
	}
}

func TestExploreZoomReanchorsSelection(t *testing.T) {
	m := newTestExplorer(t)
	send(m, tea.WindowSizeMsg{Width: 150, Height: 100 + chromeRows})
	send(m, key("right"))
	checkSelected(t, m, "p/src/util.go", 80, 0, 40, 100)

	send(m, key("enter"))
	if m.opts.Start != "p/src" {
		t.Fatalf("start = %q, want p/src", m.opts.Start)
	}
	checkSelected(t, m, "p/src/util.go", 100, 0, 50, 100)

	// Leaves cannot be zoomed into.
	send(m, key("enter"))
	if m.opts.Start != "p/src" {
		t.Errorf("start = %q after zooming into a leaf", m.opts.Start)
	}

	send(m, key("backspace"))
	if m.opts.Start != "p" {
		t.Fatalf("start = %q, want p", m.opts.Start)
	}
	checkSelected(t, m, "p/src/util.go", 80, 0, 40, 100)

	// Same size again: the identical rectangle is found.
	send(m, tea.WindowSizeMsg{Width: 150, Height: 100 + chromeRows})
	checkSelected(t, m, "p/src/util.go", 80, 0, 40, 100)
}

func TestExploreDepth(t *testing.T) {
	m := newTestExplorer(t)
	send(m, tea.WindowSizeMsg{Width: 150, Height: 100 + chromeRows})
	send(m, key("right"))

	send(m, key("+"))
	if m.opts.MaxDepth != 0 {
		t.Errorf("+ at unlimited depth set MaxDepth = %d", m.opts.MaxDepth)
	}

	send(m, key("-"))
	if m.opts.MaxDepth != 1 || m.rects.Len() != 3 {
		t.Fatalf("after -: MaxDepth = %d, rects = %d; want 1 and 3", m.opts.MaxDepth, m.rects.Len())
	}
	// util.go is gone, so the selection falls back to the top-left rectangle.
	checkSelected(t, m, "p/src", 0, 0, 120, 100)

	send(m, key("-"))
	if m.opts.MaxDepth != 1 {
		t.Errorf("MaxDepth = %d, want it to stay at 1", m.opts.MaxDepth)
	}

	send(m, key("+"))
	if m.opts.MaxDepth != 2 || m.rects.Len() != 5 {
		t.Errorf("after +: MaxDepth = %d, rects = %d; want 2 and 5", m.opts.MaxDepth, m.rects.Len())
	}
}

func TestExploreDropsStaleLayouts(t *testing.T) {
	m := newTestExplorer(t)

	_, first := m.Update(tea.WindowSizeMsg{Width: 150, Height: 100 + chromeRows})
	firstFlag := m.cancel
	_, second := m.Update(tea.WindowSizeMsg{Width: 60, Height: 40 + chromeRows})

	if !firstFlag.Canceled() {
		t.Error("superseded layout was not cancelled")
	}

	m.Update(first())
	if !m.computing || !m.rects.IsEmpty() {
		t.Fatal("stale layout was applied")
	}

	m.Update(second())
	if m.computing || m.rects.Root().Width != 60 || m.rects.Root().Height != 40 {
		t.Errorf("root = %v, want 60x40", m.rects.Root())
	}
}

func TestExploreQuit(t *testing.T) {
	m := newTestExplorer(t)
	m.Update(tea.WindowSizeMsg{Width: 10, Height: 10})
	flag := m.cancel

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q did not return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	if !flag.Canceled() {
		t.Error("quitting did not cancel the running layout")
	}
}
