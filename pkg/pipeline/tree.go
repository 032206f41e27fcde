package pipeline

import (
	"bytes"
	"context"

	"github.com/shopspring/decimal"

	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/tree"
)

// Tree is a loaded input tree, independent of its weight type.
type Tree interface {
	// Root returns the root node ID.
	Root() string
	// Len returns the number of nodes.
	Len() int
	// Contains reports whether id is a node of the tree.
	Contains(id string) bool
	// FormatWeight returns the weight of id as text.
	FormatWeight(id string) string
	// Marshal encodes the tree in the JSON format of [tree.ReadJSON].
	Marshal() ([]byte, error)
	// Layout computes the treemap of the tree.
	Layout(ctx context.Context, opts Options) (*layout.RectTree[string], error)
}

type typedTree[T any] struct {
	m      *tree.Model[string, T]
	format func(T) string
}

// NewTree wraps a model. format renders weights as text.
func NewTree[T any](m *tree.Model[string, T], format func(T) string) Tree {
	return &typedTree[T]{m: m, format: format}
}

// Int64Tree wraps an integer-weighted model.
func Int64Tree(m *tree.Model[string, int64]) Tree {
	return NewTree(m, tree.FormatInt64)
}

// DecimalTree wraps a decimal-weighted model.
func DecimalTree(m *tree.Model[string, decimal.Decimal]) Tree {
	return NewTree(m, tree.FormatDecimal)
}

func (t *typedTree[T]) Root() string                  { return t.m.Root() }
func (t *typedTree[T]) Len() int                      { return t.m.Len() }
func (t *typedTree[T]) Contains(id string) bool       { return t.m.Contains(id) }
func (t *typedTree[T]) FormatWeight(id string) string { return t.format(t.m.Weight(id)) }

func (t *typedTree[T]) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := tree.WriteJSON[T](&buf, t.m, t.format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (t *typedTree[T]) Layout(ctx context.Context, opts Options) (*layout.RectTree[string], error) {
	return ComputeLayout(ctx, t.m, opts)
}
