package tree

import "iter"

// BreadthFirst yields the subtree under start level by level, siblings in
// order.
func BreadthFirst[N comparable](t Tree[N], start N) iter.Seq[N] {
	return func(yield func(N) bool) {
		queue := []N{start}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			if !yield(n) {
				return
			}
			for c := range t.Children(n) {
				queue = append(queue, c)
			}
		}
	}
}

// DepthFirst yields the subtree under start in pre-order together with each
// node's depth relative to start.
func DepthFirst[N comparable](t Tree[N], start N) iter.Seq2[int, N] {
	return func(yield func(int, N) bool) {
		walkDepthFirst(t, start, 0, yield)
	}
}

func walkDepthFirst[N comparable](t Tree[N], n N, depth int, yield func(int, N) bool) bool {
	if !yield(depth, n) {
		return false
	}
	for c := range t.Children(n) {
		if !walkDepthFirst(t, c, depth+1, yield) {
			return false
		}
	}
	return true
}

// Leaves yields the nodes under start that have no children, in pre-order.
func Leaves[N comparable](t Tree[N], start N) iter.Seq[N] {
	return func(yield func(N) bool) {
		for _, n := range DepthFirst(t, start) {
			if t.HasChildren(n) {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}
