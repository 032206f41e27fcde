package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidFraction is returned by [Rect.Split] when the fraction is not
// strictly between 0 and 1.
var ErrInvalidFraction = errors.New("split fraction must be in (0, 1)")

// Rect is an axis-aligned integer rectangle assigned to a tree node.
// X and Y are the top-left corner; Width and Height are dimensions.
type Rect[N comparable] struct {
	Node          N
	X, Y          int
	Width, Height int
}

// RectKey identifies a rectangle independently of its position. Two
// rectangles with the same key are considered equal.
type RectKey[N comparable] struct {
	Node          N
	Width, Height int
}

// NewRect creates a rectangle for node.
func NewRect[N comparable](node N, x, y, width, height int) Rect[N] {
	return Rect[N]{Node: node, X: x, Y: y, Width: width, Height: height}
}

// Right returns the x-coordinate of the right edge (exclusive).
func (r Rect[N]) Right() int {
	return r.X + r.Width
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect[N]) Bottom() int {
	return r.Y + r.Height
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect[N]) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the area of the rectangle, or 0 when it is empty.
func (r Rect[N]) Area() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Width * r.Height
}

// Contains returns true if the point (x, y) is inside the rectangle.
// Points on the left and top edges are inside; points on the right and bottom edges are outside.
func (r Rect[N]) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersects returns true if the two rectangles overlap.
// Touching edges do not count as overlapping.
func (r Rect[N]) Intersects(o Rect[N]) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return max(r.X, o.X) < min(r.Right(), o.Right()) &&
		max(r.Y, o.Y) < min(r.Bottom(), o.Bottom())
}

// Encloses returns true if o lies completely inside r.
func (r Rect[N]) Encloses(o Rect[N]) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Inset shrinks the rectangle by d on every side. The result may be empty.
func (r Rect[N]) Inset(d int) Rect[N] {
	return Rect[N]{Node: r.Node, X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// Split cuts the rectangle across its longer side. When the rectangle is
// taller than wide the parts are stacked vertically; otherwise they sit side
// by side. The first part receives floor(side * fraction) units and the
// second part the rest, so the parts tile r exactly. Both parts keep r's node.
func (r Rect[N]) Split(fraction float64) (Rect[N], Rect[N], error) {
	if !(fraction > 0 && fraction < 1) {
		return Rect[N]{}, Rect[N]{}, fmt.Errorf("%w: %v", ErrInvalidFraction, fraction)
	}
	if r.Width < r.Height {
		h := int(float64(r.Height) * fraction)
		return NewRect(r.Node, r.X, r.Y, r.Width, h),
			NewRect(r.Node, r.X, r.Y+h, r.Width, r.Height-h), nil
	}
	w := int(float64(r.Width) * fraction)
	return NewRect(r.Node, r.X, r.Y, w, r.Height),
		NewRect(r.Node, r.X+w, r.Y, r.Width-w, r.Height), nil
}

// Key returns the position-independent identity of r.
func (r Rect[N]) Key() RectKey[N] {
	return RectKey[N]{Node: r.Node, Width: r.Width, Height: r.Height}
}

// Equal reports whether r and o belong to the same node and have the same
// size. Position is ignored, which lets callers recognise a rectangle again
// after a relayout has moved it.
func (r Rect[N]) Equal(o Rect[N]) bool {
	return r.Key() == o.Key()
}

// String returns a compact representation like "a@10,20 30x40".
func (r Rect[N]) String() string {
	return fmt.Sprintf("%v@%d,%d %dx%d", r.Node, r.X, r.Y, r.Width, r.Height)
}
