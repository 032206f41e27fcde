package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/render"
)

// exploreCommand creates the interactive treemap viewer.
func (c *CLI) exploreCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "explore <tree.json|dir|s3://bucket/prefix>",
		Short: "Browse a treemap in the terminal",
		Long: `Browse a treemap in the terminal.

Arrow keys (or h/j/k/l) move the selection, enter zooms into the selected
branch, backspace zooms out, +/- change the depth limit and q quits. The
layout is recomputed in the background whenever the window size, zoom or
depth changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), cmd, &flags, args[0])
		},
	}

	flags.registerLoad(cmd)
	cmd.Flags().IntVar(&flags.opts.MaxDepth, "depth", 0, "initial depth limit, 0 for unlimited")
	cmd.Flags().StringVar(&flags.opts.Start, "start", "", "node ID to start at instead of the root")
	cmd.Flags().StringVar(&flags.opts.Palette, "palette", "", "color palette: default, depth, mono")
	completeValues(cmd, "palette", paletteValues()...)

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, cmd *cobra.Command, flags *optionFlags, input string) error {
	opts := c.resolve(cmd, flags, input)

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Loading "+input+"...")
	spinner.Start()
	t, err := runner.LoadTree(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	spinner.Stop()

	if opts.Start != "" && !t.Contains(opts.Start) {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", opts.Start)
	}
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	// The explorer owns the terminal, so pipeline logs would garble it.
	runner.Logger = log.New(io.Discard)
	opts.Logger = runner.Logger

	m := newExploreModel(ctx, runner, t, opts)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// =============================================================================
// Explorer model
// =============================================================================

// Explorer styles
var (
	exploreHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	exploreFooterStyle = lipgloss.NewStyle().Foreground(colorGray)
	exploreBusyStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	exploreErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// selectedBackground fills the selected rectangle.
const selectedBackground = "#ffd54f"

// chromeRows is the number of terminal rows used by the header and footer.
const chromeRows = 2

// layoutDoneMsg delivers a background layout. gen identifies the request so
// results of superseded layouts can be dropped.
type layoutDoneMsg struct {
	gen   int
	rects *layout.RectTree[string]
	err   error
}

type exploreModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	tree   pipeline.Tree
	opts   pipeline.Options

	palette render.Palette
	width   int
	height  int
	trail   []string // previous zoom anchors, innermost last

	rects    *layout.RectTree[string]
	scene    render.Scene
	selected layout.Rect[string]
	hasSel   bool

	gen       int
	cancel    *layout.CancelFlag
	computing bool
	err       error
}

func newExploreModel(ctx context.Context, runner *pipeline.Runner, t pipeline.Tree, opts pipeline.Options) *exploreModel {
	if opts.Start == "" {
		opts.Start = t.Root()
	}
	p, ok := render.LookupPalette(opts.Palette)
	if !ok {
		p, _ = render.LookupPalette(render.DefaultPalette)
	}
	return &exploreModel{
		ctx:     ctx,
		runner:  runner,
		tree:    t,
		opts:    opts,
		palette: p,
		rects:   layout.Empty[string](),
	}
}

func (m *exploreModel) Init() tea.Cmd {
	return nil
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, max(msg.Height-chromeRows, 0)
		return m, m.relayout()

	case layoutDoneMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.computing = false
		if msg.err != nil {
			if !errors.Is(msg.err, errors.ErrCodeCanceled) {
				m.err = msg.err
			}
			return m, nil
		}
		m.err = nil
		m.setLayout(msg.rects)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel.Cancel()
			}
			return m, tea.Quit
		case "left", "h":
			m.move(-1, 0)
		case "right", "l":
			m.move(1, 0)
		case "up", "k":
			m.move(0, -1)
		case "down", "j":
			m.move(0, 1)
		case "enter":
			return m, m.zoomIn()
		case "backspace", "u":
			return m, m.zoomOut()
		case "+", "=":
			return m, m.changeDepth(1)
		case "-":
			return m, m.changeDepth(-1)
		}
	}
	return m, nil
}

// relayout cancels the running layout and starts a new one in the
// background.
func (m *exploreModel) relayout() tea.Cmd {
	if m.cancel != nil {
		m.cancel.Cancel()
	}
	if m.width <= 0 || m.height <= 0 {
		return nil
	}

	m.gen++
	m.cancel = &layout.CancelFlag{}
	m.computing = true

	gen, opts := m.gen, m.opts
	opts.Width, opts.Height = m.width, m.height
	opts.Canceler = m.cancel
	ctx, runner, t := m.ctx, m.runner, m.tree
	return func() tea.Msg {
		rects, err := runner.ComputeLayout(ctx, t, opts)
		return layoutDoneMsg{gen: gen, rects: rects, err: err}
	}
}

// setLayout installs a finished layout and re-anchors the selection: the
// same rectangle if it survived the relayout unchanged, otherwise the same
// node, otherwise the first leaf.
func (m *exploreModel) setLayout(rects *layout.RectTree[string]) {
	m.rects = rects
	m.scene = pipeline.Scene(rects)

	if m.hasSel {
		if r, ok := rects.Find(m.selected); ok {
			m.selected = r
			return
		}
		if r, ok := rects.Lookup(m.selected.Node); ok {
			m.selected = r
			return
		}
	}
	m.hasSel = false
	if rects.IsEmpty() {
		return
	}
	if r, ok := rects.At(rects.Root().X, rects.Root().Y); ok {
		m.selected, m.hasSel = r, true
	}
}

// move selects the deepest rectangle just past the edge of the current
// selection in direction (dx, dy).
func (m *exploreModel) move(dx, dy int) {
	if !m.hasSel {
		return
	}
	s := m.selected
	x, y := s.X+s.Width/2, s.Y+s.Height/2
	switch {
	case dx < 0:
		x = s.X - 1
	case dx > 0:
		x = s.Right()
	case dy < 0:
		y = s.Y - 1
	case dy > 0:
		y = s.Bottom()
	}
	if r, ok := m.rects.At(x, y); ok {
		m.selected = r
	}
}

// zoomIn makes the top-level branch containing the selection the new
// layout root.
func (m *exploreModel) zoomIn() tea.Cmd {
	if !m.hasSel || m.rects.IsEmpty() {
		return nil
	}
	root := m.rects.Root()
	branch := m.selected
	for {
		parent, ok := m.rects.Parent(branch)
		if !ok || parent.Node == root.Node {
			break
		}
		branch = parent
	}
	if branch.Node == root.Node || !m.rects.HasChildren(branch) {
		return nil
	}
	m.trail = append(m.trail, m.opts.Start)
	m.opts.Start = branch.Node
	return m.relayout()
}

func (m *exploreModel) zoomOut() tea.Cmd {
	if len(m.trail) == 0 {
		return nil
	}
	m.opts.Start = m.trail[len(m.trail)-1]
	m.trail = m.trail[:len(m.trail)-1]
	return m.relayout()
}

// changeDepth raises or lowers the depth limit by one level. Lowering from
// unlimited starts below the deepest level currently shown; raising past the
// depth of the tree removes the limit.
func (m *exploreModel) changeDepth(delta int) tea.Cmd {
	limited := m.opts.MaxDepth > 0 && m.opts.MaxDepth != layout.Unlimited
	shown := m.shownDepth()

	var depth int
	switch {
	case delta > 0 && !limited:
		return nil
	case delta > 0 && shown < m.opts.MaxDepth:
		depth = 0
	case delta > 0:
		depth = m.opts.MaxDepth + 1
	case !limited:
		depth = shown - 1
	default:
		depth = m.opts.MaxDepth - 1
	}
	if delta < 0 && depth < 1 {
		return nil
	}
	m.opts.MaxDepth = depth
	return m.relayout()
}

func (m *exploreModel) shownDepth() int {
	d := 0
	for _, it := range m.scene.Items {
		d = max(d, it.Depth)
	}
	return d
}

// =============================================================================
// View
// =============================================================================

type cell struct {
	ch    rune
	fg    string
	bg    string
	bold  bool
	valid bool
}

func (m *exploreModel) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.body())
	b.WriteString(m.footer())
	return b.String()
}

func (m *exploreModel) header() string {
	line := exploreHeaderStyle.Render(appName) + " " + StyleValue.Render(m.opts.Start)
	depth := "all"
	if d := m.opts.MaxDepth; d > 0 && d != layout.Unlimited {
		depth = fmt.Sprint(d)
	}
	line += StyleDim.Render(fmt.Sprintf("  depth %s", depth))
	if m.computing {
		line += "  " + exploreBusyStyle.Render("laying out...")
	}
	return line
}

func (m *exploreModel) footer() string {
	if m.err != nil {
		return exploreErrorStyle.Render(iconError + " " + errors.UserMessage(m.err))
	}
	help := StyleDim.Render("←↓↑→ move  ⏎ zoom  ⌫ back  +/- depth  q quit")
	if !m.hasSel {
		return help
	}
	s := m.selected
	info := fmt.Sprintf("%s  %s  %dx%d", s.Node, m.tree.FormatWeight(s.Node), s.Width, s.Height)
	return exploreFooterStyle.Render(info) + "  " + help
}

// body paints the scene into a character grid, one cell per layout unit.
func (m *exploreModel) body() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	grid := make([][]cell, m.height)
	for y := range grid {
		grid[y] = make([]cell, m.width)
	}

	for _, it := range m.scene.Items {
		fill := m.palette.Fill(it)
		paintRect(grid, it.X, it.Y, it.W, it.H, cell{ch: ' ', bg: fill, valid: true})
		// A thin left edge separates neighbours of the same color.
		for y := it.Y; y < it.Y+it.H && y < len(grid); y++ {
			if it.X >= 0 && it.X < m.width && y >= 0 {
				grid[y][it.X] = cell{ch: '▏', fg: m.palette.Stroke, bg: fill, valid: true}
			}
		}
		if it.Leaf && it.W > 2 && it.Y >= 0 && it.Y < len(grid) {
			paintText(grid[it.Y], it.X+1, it.W-1, it.Label, m.palette.Text)
		}
	}

	if m.hasSel {
		s := m.selected
		for y := max(s.Y, 0); y < s.Bottom() && y < len(grid); y++ {
			for x := max(s.X, 0); x < s.Right() && x < m.width; x++ {
				grid[y][x].bold = true
				grid[y][x].bg = selectedBackground
			}
		}
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(renderRow(row))
		b.WriteString("\n")
	}
	return b.String()
}

func paintRect(grid [][]cell, x, y, w, h int, c cell) {
	for yy := max(y, 0); yy < y+h && yy < len(grid); yy++ {
		row := grid[yy]
		for xx := max(x, 0); xx < x+w && xx < len(row); xx++ {
			row[xx] = c
		}
	}
}

func paintText(row []cell, x, w int, text, fg string) {
	i := 0
	for _, r := range text {
		if i >= w || x+i >= len(row) {
			break
		}
		row[x+i].ch, row[x+i].fg = r, fg
		i++
	}
}

// renderRow styles runs of cells with identical colors together.
func renderRow(row []cell) string {
	var b, run strings.Builder
	var cur cell
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if !cur.valid {
			b.WriteString(run.String())
		} else {
			st := lipgloss.NewStyle().Bold(cur.bold)
			if cur.bg != "" {
				st = st.Background(lipgloss.Color(cur.bg))
			}
			if cur.fg != "" {
				st = st.Foreground(lipgloss.Color(cur.fg))
			}
			b.WriteString(st.Render(run.String()))
		}
		run.Reset()
	}
	for i, c := range row {
		ch := c.ch
		if !c.valid || ch == 0 {
			ch = ' '
		}
		if i > 0 && (c.fg != cur.fg || c.bg != cur.bg || c.bold != cur.bold || c.valid != cur.valid) {
			flush()
		}
		cur = c
		run.WriteRune(ch)
	}
	flush()
	return b.String()
}
