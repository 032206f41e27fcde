package layout

import (
	"iter"
	"slices"

	"github.com/matzehuels/treemap/pkg/tree"
)

// RectTree is the result of a layout: a tree of rectangles, one per placed
// node. Children of a rectangle are listed in placement order, which is
// weight-descending with ties in sibling order.
//
// A RectTree is built once by the engine and never changes afterwards, so it
// can be shared between goroutines. The empty tree has no root; it is
// returned for cancelled layouts and degenerate sizes.
type RectTree[N comparable] struct {
	root     Rect[N]
	hasRoot  bool
	rects    map[N]Rect[N]
	children map[N][]Rect[N]
	parents  map[N]N
}

// Empty returns a tree without rectangles.
func Empty[N comparable]() *RectTree[N] {
	return &RectTree[N]{}
}

func newRectTree[N comparable](root Rect[N]) *RectTree[N] {
	return &RectTree[N]{
		root:     root,
		hasRoot:  true,
		rects:    map[N]Rect[N]{root.Node: root},
		children: make(map[N][]Rect[N]),
		parents:  make(map[N]N),
	}
}

func (t *RectTree[N]) add(parent N, child Rect[N]) {
	t.rects[child.Node] = child
	t.children[parent] = append(t.children[parent], child)
	t.parents[child.Node] = parent
}

// IsEmpty reports whether the tree has no rectangles.
func (t *RectTree[N]) IsEmpty() bool { return !t.hasRoot }

// Len returns the number of rectangles, including the root.
func (t *RectTree[N]) Len() int { return len(t.rects) }

// Root returns the rectangle of the starting node. It is the zero Rect for
// an empty tree.
func (t *RectTree[N]) Root() Rect[N] { return t.root }

// Parent returns the rectangle enclosing r.
func (t *RectTree[N]) Parent(r Rect[N]) (Rect[N], bool) {
	p, ok := t.parents[r.Node]
	if !ok {
		return Rect[N]{}, false
	}
	return t.rects[p], true
}

// Children returns the rectangles placed inside r.
func (t *RectTree[N]) Children(r Rect[N]) iter.Seq[Rect[N]] {
	return slices.Values(t.children[r.Node])
}

// ChildCount returns the number of rectangles placed inside r.
func (t *RectTree[N]) ChildCount(r Rect[N]) int { return len(t.children[r.Node]) }

// HasChildren reports whether any rectangle was placed inside r.
func (t *RectTree[N]) HasChildren(r Rect[N]) bool { return len(t.children[r.Node]) > 0 }

// Lookup returns the rectangle assigned to node.
func (t *RectTree[N]) Lookup(node N) (Rect[N], bool) {
	r, ok := t.rects[node]
	return r, ok
}

// Find returns the rectangle equal to r in this tree (same node and size),
// wherever it has been placed. It is used to keep a selection stable across
// relayouts.
func (t *RectTree[N]) Find(r Rect[N]) (Rect[N], bool) {
	got, ok := t.rects[r.Node]
	if !ok || !got.Equal(r) {
		return Rect[N]{}, false
	}
	return got, true
}

// At returns the deepest rectangle containing the point (x, y).
func (t *RectTree[N]) At(x, y int) (Rect[N], bool) {
	if !t.hasRoot || !t.root.Contains(x, y) {
		return Rect[N]{}, false
	}
	cur := t.root
	for {
		next, found := cur, false
		for _, c := range t.children[cur.Node] {
			if c.Contains(x, y) {
				next, found = c, true
				break
			}
		}
		if !found {
			return cur, true
		}
		cur = next
	}
}

// All yields every rectangle breadth-first, starting at the root.
func (t *RectTree[N]) All() iter.Seq[Rect[N]] {
	if !t.hasRoot {
		return func(func(Rect[N]) bool) {}
	}
	return tree.BreadthFirst[Rect[N]](t, t.root)
}

// Depth returns the nesting depth of r below the root.
func (t *RectTree[N]) Depth(r Rect[N]) int {
	return tree.Depth[Rect[N]](t, r)
}

var _ tree.Tree[Rect[string]] = (*RectTree[string])(nil)
