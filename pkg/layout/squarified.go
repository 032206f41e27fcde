package layout

import (
	"context"
	"math"
	"slices"

	"github.com/matzehuels/treemap/pkg/tree"
	"github.com/matzehuels/treemap/pkg/weight"
)

// Unlimited is the default maximum nesting depth.
const Unlimited = math.MaxInt

// Option configures a [Squarified] engine.
type Option func(*options)

type options struct {
	maxDepth int
	border   int
}

// WithMaxDepth limits how deep the engine descends below the starting node.
// Depth 0 yields only the starting rectangle, depth 1 adds its children, and
// so on. Negative values mean unlimited.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth < 0 {
			depth = Unlimited
		}
		o.maxDepth = depth
	}
}

// WithBorder shrinks every placed child rectangle by px on all four sides
// before it is emitted and subdivided. Rectangles that vanish are dropped.
func WithBorder(px int) Option {
	return func(o *options) {
		o.border = max(px, 0)
	}
}

// Squarified lays out weighted trees with the squarified treemap algorithm
// of Bruls, Huizing and van Wijk.
//
// Children are ordered by descending weight and grouped into rows whose
// rectangles stay as close to square as the heuristic allows. Rows are laid
// out as strips; nodes with children are subdivided recursively.
//
// An engine holds only configuration, so one engine can run any number of
// layouts concurrently.
type Squarified[N comparable, T any] struct {
	arith weight.Arithmetic[T]
	opts  options
}

// NewSquarified creates an engine for trees whose weights use arith.
func NewSquarified[N comparable, T any](arith weight.Arithmetic[T], opts ...Option) *Squarified[N, T] {
	o := options{maxDepth: Unlimited}
	for _, opt := range opts {
		opt(&o)
	}
	return &Squarified[N, T]{arith: arith, opts: o}
}

// MaxDepth returns the configured depth limit.
func (s *Squarified[N, T]) MaxDepth() int { return s.opts.maxDepth }

// Border returns the configured border width.
func (s *Squarified[N, T]) Border() int { return s.opts.border }

// Layout lays out the subtree under start in a width x height area anchored
// at the origin.
func (s *Squarified[N, T]) Layout(t tree.Weighted[N, T], start N, width, height int) *RectTree[N] {
	return s.LayoutCancelable(t, start, width, height, Never)
}

// LayoutCancelable is like Layout but stops as soon as c reports
// cancellation, in which case the result is an empty tree. A nil c never
// cancels.
//
// Non-positive sizes produce an empty tree.
func (s *Squarified[N, T]) LayoutCancelable(t tree.Weighted[N, T], start N, width, height int, c Canceler) *RectTree[N] {
	if c == nil {
		c = Never
	}
	if width <= 0 || height <= 0 || c.Canceled() {
		return Empty[N]()
	}

	root := NewRect(start, 0, 0, width, height)
	r := &run[N, T]{
		arith:  s.arith,
		opts:   s.opts,
		tree:   t,
		cancel: c,
		out:    newRectTree(root),
	}
	r.layoutNode(root, 0)
	if r.canceled {
		return Empty[N]()
	}
	return r.out
}

// LayoutContext is like Layout but is cancelled by ctx. When ctx ends before
// the layout completes, it returns an empty tree and ctx.Err().
func (s *Squarified[N, T]) LayoutContext(ctx context.Context, t tree.Weighted[N, T], start N, width, height int) (*RectTree[N], error) {
	out := s.LayoutCancelable(t, start, width, height, ContextCanceler(ctx))
	if err := ctx.Err(); err != nil {
		return Empty[N](), err
	}
	return out, nil
}

// item is a child together with its weight, read once per subdivision.
type item[N comparable, T any] struct {
	node   N
	weight T
}

// run is the state of a single layout call.
type run[N comparable, T any] struct {
	arith    weight.Arithmetic[T]
	opts     options
	tree     tree.Weighted[N, T]
	cancel   Canceler
	out      *RectTree[N]
	canceled bool
}

func (r *run[N, T]) stopped() bool {
	if !r.canceled && r.cancel.Canceled() {
		r.canceled = true
	}
	return r.canceled
}

// layoutNode subdivides rect, which is already placed for rect.Node, among
// the children of that node.
func (r *run[N, T]) layoutNode(rect Rect[N], depth int) {
	if depth >= r.opts.maxDepth || r.stopped() {
		return
	}
	n := rect.Node
	if !r.tree.HasChildren(n) {
		return
	}

	items := make([]item[N, T], 0, tree.ChildCount[N](r.tree, n))
	total := r.arith.Zero()
	for c := range r.tree.Children(n) {
		w := r.tree.Weight(c)
		items = append(items, item[N, T]{node: c, weight: w})
		total = r.arith.Add(total, w)
	}

	switch len(items) {
	case 0:
		return
	case 1:
		r.slice(rect, items, total, depth)
	case 2:
		if r.arith.Compare(items[1].weight, items[0].weight) > 0 {
			items[0], items[1] = items[1], items[0]
		}
		r.slice(rect, items, total, depth)
	default:
		slices.SortStableFunc(items, func(a, b item[N, T]) int {
			return r.arith.Compare(b.weight, a.weight)
		})
		r.squarify(rect, items, total, depth)
	}
}

// squarify grows a row from the front of items while the worst aspect ratio
// in the row keeps improving. The accepted row is sliced into its share of
// rect and the remaining items are squarified in what is left.
func (r *run[N, T]) squarify(rect Rect[N], items []item[N, T], total T, depth int) {
	if r.stopped() {
		return
	}
	ftotal := r.arith.Float64(total)
	if len(items) > 2 && ftotal > 0 {
		best := math.Inf(1)
		sum := r.arith.Zero()
		for i, it := range items {
			sum = r.arith.Add(sum, it.weight)
			fsum := r.arith.Float64(sum)
			rw, rh := fit(rect.Width, rect.Height, fsum, ftotal)
			rw, rh = fit(rw, rh, r.arith.Float64(it.weight), fsum)
			ratio := aspect(rw, rh)
			if ratio <= best {
				best = ratio
				continue
			}

			sum = r.arith.Sub(sum, it.weight)
			share := r.arith.Float64(sum) / ftotal
			if share > 0 && share < 1 {
				head, tail, err := rect.Split(share)
				if err == nil {
					r.slice(head, items[:i], sum, depth)
					r.squarify(tail, items[i:], r.arith.Sub(total, sum), depth)
					return
				}
			}
			break
		}
	}
	r.slice(rect, items, total, depth)
}

// slice cuts rect into one strip per item across its longer side. Every
// strip but the last gets a width proportional to its weight; the last one
// takes whatever space remains. Items whose share rounds to zero still get a
// one-unit strip while space is left, and items beyond the available space
// are dropped.
func (r *run[N, T]) slice(rect Rect[N], items []item[N, T], total T, depth int) {
	if r.stopped() {
		return
	}
	stacked := rect.Width < rect.Height
	side := rect.Width
	if stacked {
		side = rect.Height
	}
	ftotal := r.arith.Float64(total)
	last := len(items) - 1

	pos := 0
	for i, it := range items {
		rest := side - pos
		if rest <= 0 {
			break
		}

		step := rest
		if i != last {
			step = min(share(side, r.arith.Float64(it.weight), ftotal), rest)
		}
		recurse := true
		if step <= 0 {
			step, recurse = 1, false
		}

		strip := NewRect(it.node, rect.X+pos, rect.Y, step, rect.Height)
		if stacked {
			strip = NewRect(it.node, rect.X, rect.Y+pos, rect.Width, step)
		}
		if child, ok := r.place(rect.Node, strip); ok && recurse {
			r.layoutNode(child, depth+1)
		}
		pos += step
	}
}

// place records child under parent, applying the border. It reports false
// when nothing is left to draw.
func (r *run[N, T]) place(parent N, child Rect[N]) (Rect[N], bool) {
	if r.opts.border > 0 {
		child = child.Inset(r.opts.border)
	}
	if child.IsEmpty() {
		return child, false
	}
	r.out.add(parent, child)
	return child, true
}

// fit returns the size of a strip holding the fraction weight/total of the
// longer side of a w x h rectangle, spanning its full shorter side. The
// strip is at least one unit thick, also when the share is not a number.
func fit(w, h int, weight, total float64) (int, int) {
	short, long := min(w, h), max(w, h)
	a := 1
	switch v := weight * float64(long) / total; {
	case v >= math.MaxInt32:
		a = math.MaxInt32
	case v >= 1:
		a = int(v)
	}
	return a, short
}

// aspect returns max(a, b) / min(a, b).
func aspect(a, b int) float64 {
	if a < b {
		a, b = b, a
	}
	if b <= 0 {
		return math.Inf(1)
	}
	return float64(a) / float64(b)
}

// share returns round(side * w / total), or 0 when the share is not a
// positive finite number.
func share(side int, w, total float64) int {
	if !(total > 0) || !(w > 0) {
		return 0
	}
	v := float64(side) * w / total
	if v >= float64(side) {
		return side
	}
	return int(math.Floor(v + 0.5))
}
