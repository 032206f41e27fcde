// Package layout computes squarified treemap layouts.
//
// A layout assigns every node of a weighted tree an axis-aligned integer
// rectangle. Sibling rectangles tile their parent without overlap and their
// areas are proportional to the node weights, up to integer rounding.
//
// # Algorithm
//
// [Squarified] follows Bruls, Huizing and van Wijk. For each node:
//
//  1. Children are read together with their weights and sorted by
//     descending weight. The sort is stable, so equal weights keep their
//     sibling order.
//  2. One or two children are sliced directly into strips.
//  3. With three or more children a row is grown from the heaviest child
//     while the worst aspect ratio in the row improves. The row is sliced
//     into its share of the rectangle and the rest is squarified in the
//     remaining space.
//  4. Every placed child with children of its own is subdivided the same
//     way, one level deeper.
//
// Strips always run across the longer side of the rectangle being cut. A
// child whose share rounds to zero still gets a one-unit strip while space
// is left; children that no longer fit are dropped.
//
// # Depth and cancellation
//
// [WithMaxDepth] bounds the recursion: depth 0 places only the starting
// node, depth 1 its children, and so on. Long layouts can be stopped through
// a [Canceler] such as [CancelFlag] or [ContextCanceler]. A cancelled layout
// returns an empty [RectTree], never a partial one.
//
// # Output
//
// [RectTree] implements tree.Tree over [Rect] values, so the traversal
// helpers of package tree work on layouts:
//
//	engine := layout.NewSquarified[string, int64](weight.Int64(), layout.WithMaxDepth(3))
//	rects := engine.Layout(model, model.Root(), 800, 600)
//	for r := range rects.All() {
//	    fmt.Println(r)
//	}
//
// Rectangles compare equal by node and size only ([Rect.Equal],
// [Rect.Key]). A viewer can use this to keep a selection after a relayout
// has moved it.
package layout
