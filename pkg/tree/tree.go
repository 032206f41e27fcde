package tree

import "iter"

// Tree is a rooted tree navigated through node handles. Handles are compared
// with ==, so they must identify a node uniquely.
type Tree[N comparable] interface {
	// Root returns the root node.
	Root() N
	// Parent returns the parent of n. The second result is false for the
	// root and for unknown nodes.
	Parent(n N) (N, bool)
	// Children returns the children of n in sibling order. The sequence can
	// be iterated repeatedly.
	Children(n N) iter.Seq[N]
	// HasChildren reports whether n has at least one child.
	HasChildren(n N) bool
}

// Weighted is a Tree whose nodes carry a weight of type T.
//
// Callers are expected to keep weight(n) >= sum of weight over children(n).
// Consumers do not validate this.
type Weighted[N comparable, T any] interface {
	Tree[N]
	Weight(n N) T
}

// ChildCounter is implemented by trees that can report child counts cheaply.
type ChildCounter[N comparable] interface {
	ChildCount(n N) int
}

// ChildCount returns the number of children of n, using ChildCounter when t
// implements it.
func ChildCount[N comparable](t Tree[N], n N) int {
	if c, ok := t.(ChildCounter[N]); ok {
		return c.ChildCount(n)
	}
	count := 0
	for range t.Children(n) {
		count++
	}
	return count
}

// Depth returns the number of edges between n and the root.
func Depth[N comparable](t Tree[N], n N) int {
	d := 0
	for {
		p, ok := t.Parent(n)
		if !ok {
			return d
		}
		n = p
		d++
	}
}

// Path returns the nodes from the root down to n, inclusive.
func Path[N comparable](t Tree[N], n N) []N {
	path := []N{n}
	for {
		p, ok := t.Parent(n)
		if !ok {
			break
		}
		path = append(path, p)
		n = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
