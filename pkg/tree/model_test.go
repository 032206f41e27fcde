package tree

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/treemap/pkg/weight"
)

func newWijk(t *testing.T) *Model[string, int64] {
	t.Helper()
	m := NewModel[string, int64](weight.Int64())
	if err := m.SetRoot("root", 0); err != nil {
		t.Fatal(err)
	}
	for _, c := range []struct {
		id string
		w  int64
	}{{"a", 6}, {"b", 6}, {"c", 4}, {"d", 3}, {"e", 2}, {"f", 2}, {"g", 1}} {
		if err := m.Add(c.id, c.w, "root"); err != nil {
			t.Fatal(err)
		}
	}
	return m
}

func TestModelPropagation(t *testing.T) {
	m := NewModel[string, int64](weight.Int64())
	_ = m.SetRoot("root", 0)
	_ = m.Add("dir", 0, "root")
	_ = m.Add("dir/a", 5, "dir")
	_ = m.Add("dir/b", 7, "dir")
	_ = m.Add("c", 3, "root")

	tests := []struct {
		node string
		want int64
	}{
		{"root", 15},
		{"dir", 12},
		{"dir/a", 5},
		{"c", 3},
		{"missing", 0},
	}
	for _, tt := range tests {
		if got := m.Weight(tt.node); got != tt.want {
			t.Errorf("Weight(%q) = %d, want %d", tt.node, got, tt.want)
		}
	}
}

func TestModelInsertWithoutPropagation(t *testing.T) {
	m := NewModel[string, int64](weight.Int64())
	_ = m.SetRoot("root", 10)
	if err := m.Insert("a", 4, "root", false); err != nil {
		t.Fatal(err)
	}
	if got := m.Weight("root"); got != 10 {
		t.Errorf("Weight(root) = %d, want 10", got)
	}
}

func TestModelErrors(t *testing.T) {
	m := NewModel[string, int64](weight.Int64())
	if err := m.Add("a", 1, "root"); !errors.Is(err, ErrNoRoot) {
		t.Errorf("Add before root = %v, want ErrNoRoot", err)
	}
	_ = m.SetRoot("root", 0)
	if err := m.SetRoot("other", 0); !errors.Is(err, ErrRootExists) {
		t.Errorf("second SetRoot = %v, want ErrRootExists", err)
	}
	_ = m.Add("a", 1, "root")
	if err := m.Add("a", 1, "root"); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("duplicate Add = %v, want ErrDuplicateNode", err)
	}
	if err := m.Add("b", 1, "nope"); !errors.Is(err, ErrUnknownParent) {
		t.Errorf("Add under unknown parent = %v, want ErrUnknownParent", err)
	}
}

func TestModelNavigation(t *testing.T) {
	m := newWijk(t)

	if got := m.Root(); got != "root" {
		t.Errorf("Root() = %q, want root", got)
	}
	if _, ok := m.Parent("root"); ok {
		t.Error("root should have no parent")
	}
	if p, ok := m.Parent("c"); !ok || p != "root" {
		t.Errorf("Parent(c) = %q, %v", p, ok)
	}

	want := []string{"a", "b", "c", "d", "e", "f", "g"}
	got := slices.Collect(m.Children("root"))
	if !slices.Equal(got, want) {
		t.Errorf("Children(root) = %v, want %v", got, want)
	}
	// Sequences are restartable.
	if again := slices.Collect(m.Children("root")); !slices.Equal(again, want) {
		t.Errorf("second iteration = %v", again)
	}

	if !m.HasChildren("root") || m.HasChildren("a") {
		t.Error("HasChildren mismatch")
	}
	if got := ChildCount[string](m, "root"); got != 7 {
		t.Errorf("ChildCount(root) = %d, want 7", got)
	}
	if got := m.Len(); got != 8 {
		t.Errorf("Len() = %d, want 8", got)
	}
	if got := m.Weight("root"); got != 24 {
		t.Errorf("Weight(root) = %d, want 24", got)
	}
}

func TestDepthAndPath(t *testing.T) {
	m := NewModel[string, int64](weight.Int64())
	_ = m.SetRoot("r", 0)
	_ = m.Add("r/x", 0, "r")
	_ = m.Add("r/x/y", 1, "r/x")

	if got := Depth[string](m, "r/x/y"); got != 2 {
		t.Errorf("Depth = %d, want 2", got)
	}
	if got := Path[string](m, "r/x/y"); !slices.Equal(got, []string{"r", "r/x", "r/x/y"}) {
		t.Errorf("Path = %v", got)
	}
}
