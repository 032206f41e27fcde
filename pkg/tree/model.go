package tree

import (
	"errors"
	"iter"
	"slices"

	"github.com/matzehuels/treemap/pkg/weight"
)

var (
	// ErrRootExists is returned by [Model.SetRoot] when the model already has
	// a root.
	ErrRootExists = errors.New("root already set")

	// ErrNoRoot is returned by [Model.Add] before a root has been set.
	ErrNoRoot = errors.New("root not set")

	// ErrDuplicateNode is returned when a node is added twice.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrUnknownParent is returned when the parent of a new node is not in
	// the model.
	ErrUnknownParent = errors.New("unknown parent node")
)

// Model is a mutable weighted tree backed by maps.
//
// Parent and weight lookups are O(1). Children keep insertion order, which
// the layout engine uses to break ties between equally weighted siblings.
//
// The zero value is not usable; create models with [NewModel]. Model is not
// safe for concurrent mutation, but concurrent reads are fine once building
// is done.
type Model[N comparable, T any] struct {
	arith    weight.Arithmetic[T]
	root     N
	hasRoot  bool
	parents  map[N]N
	children map[N][]N
	weights  map[N]T
}

// NewModel creates an empty model whose weights are combined with arith.
func NewModel[N comparable, T any](arith weight.Arithmetic[T]) *Model[N, T] {
	return &Model[N, T]{
		arith:    arith,
		parents:  make(map[N]N),
		children: make(map[N][]N),
		weights:  make(map[N]T),
	}
}

// Arithmetic returns the arithmetic used for weights.
func (m *Model[N, T]) Arithmetic() weight.Arithmetic[T] { return m.arith }

// SetRoot installs node as the root with weight w.
func (m *Model[N, T]) SetRoot(node N, w T) error {
	if m.hasRoot {
		return ErrRootExists
	}
	m.root = node
	m.hasRoot = true
	m.weights[node] = w
	return nil
}

// Add inserts node under parent and adds w to the weight of every ancestor.
func (m *Model[N, T]) Add(node N, w T, parent N) error {
	return m.Insert(node, w, parent, true)
}

// Insert inserts node under parent. When propagate is true, w is also added
// to the weight of every ancestor; otherwise ancestor weights are left as
// they are and the caller is responsible for keeping them consistent.
func (m *Model[N, T]) Insert(node N, w T, parent N, propagate bool) error {
	if !m.hasRoot {
		return ErrNoRoot
	}
	if m.contains(node) {
		return ErrDuplicateNode
	}
	if !m.contains(parent) {
		return ErrUnknownParent
	}

	m.weights[node] = w
	m.parents[node] = parent
	m.children[parent] = append(m.children[parent], node)

	if propagate {
		for p, ok := parent, true; ok; p, ok = m.parents[p] {
			m.weights[p] = m.arith.Add(m.weights[p], w)
		}
	}
	return nil
}

func (m *Model[N, T]) contains(n N) bool {
	_, ok := m.weights[n]
	return ok
}

// Contains reports whether n is part of the model.
func (m *Model[N, T]) Contains(n N) bool { return m.contains(n) }

// Root returns the root node, or the zero N if no root was set.
func (m *Model[N, T]) Root() N { return m.root }

// Parent returns the parent of n.
func (m *Model[N, T]) Parent(n N) (N, bool) {
	p, ok := m.parents[n]
	return p, ok
}

// Children returns the children of n in insertion order.
func (m *Model[N, T]) Children(n N) iter.Seq[N] {
	return slices.Values(m.children[n])
}

// ChildCount returns the number of children of n.
func (m *Model[N, T]) ChildCount(n N) int { return len(m.children[n]) }

// HasChildren reports whether n has children.
func (m *Model[N, T]) HasChildren(n N) bool { return len(m.children[n]) > 0 }

// Weight returns the weight of n, or the arithmetic zero for unknown nodes.
func (m *Model[N, T]) Weight(n N) T {
	if w, ok := m.weights[n]; ok {
		return w
	}
	return m.arith.Zero()
}

// Len returns the number of nodes, including the root.
func (m *Model[N, T]) Len() int { return len(m.weights) }

var (
	_ Weighted[string, int64] = (*Model[string, int64])(nil)
	_ ChildCounter[string]    = (*Model[string, int64])(nil)
)
