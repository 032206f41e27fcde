package render

import (
	"testing"

	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/tree"
	"github.com/matzehuels/treemap/pkg/weight"
)

// project lays out a small source tree into 150x100:
//
//	root 150
//	  src 120
//	    src/main.go 80
//	    src/util.go 40
//	  README.md 30
func project(t *testing.T) *layout.RectTree[string] {
	t.Helper()
	m := tree.NewModel[string, int64](weight.Int64())
	if err := m.SetRoot("root", 0); err != nil {
		t.Fatal(err)
	}
	for _, n := range []struct {
		id, parent string
		w          int64
	}{
		{"src", "root", 0},
		{"src/main.go", "src", 80},
		{"src/util.go", "src", 40},
		{"README.md", "root", 30},
	} {
		if err := m.Add(n.id, n.w, n.parent); err != nil {
			t.Fatal(err)
		}
	}
	engine := layout.NewSquarified[string, int64](weight.Int64())
	return engine.Layout(m, m.Root(), 150, 100)
}

func TestFromTree(t *testing.T) {
	scene := FromTree(project(t), tree.Name)

	if scene.Width != 150 || scene.Height != 100 {
		t.Errorf("size = %dx%d, want 150x100", scene.Width, scene.Height)
	}

	want := []Item{
		{ID: "root", Label: "root", X: 0, Y: 0, W: 150, H: 100},
		{ID: "src", Label: "src", X: 0, Y: 0, W: 120, H: 100, Depth: 1, Parent: "root", Group: 0},
		{ID: "README.md", Label: "README.md", X: 120, Y: 0, W: 30, H: 100, Depth: 1, Leaf: true, Parent: "root", Group: 1},
		{ID: "src/main.go", Label: "main.go", X: 0, Y: 0, W: 80, H: 100, Depth: 2, Leaf: true, Parent: "src", Group: 0},
		{ID: "src/util.go", Label: "util.go", X: 80, Y: 0, W: 40, H: 100, Depth: 2, Leaf: true, Parent: "src", Group: 0},
	}
	if len(scene.Items) != len(want) {
		t.Fatalf("len(Items) = %d, want %d", len(scene.Items), len(want))
	}
	for i, w := range want {
		if scene.Items[i] != w {
			t.Errorf("Items[%d] = %+v, want %+v", i, scene.Items[i], w)
		}
	}
	if got := scene.Leaves(); got != 3 {
		t.Errorf("Leaves() = %d, want 3", got)
	}
}

func TestFromTreeDefaultLabel(t *testing.T) {
	scene := FromTree[string](project(t), nil)
	if got := scene.Items[3].Label; got != "src/main.go" {
		t.Errorf("Label = %q, want %q", got, "src/main.go")
	}
}

func TestFromTreeEmpty(t *testing.T) {
	tests := []struct {
		name string
		tree *layout.RectTree[string]
	}{
		{"nil", nil},
		{"empty", layout.Empty[string]()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := FromTree(tt.tree, tree.Name)
			if len(scene.Items) != 0 || scene.Width != 0 {
				t.Errorf("FromTree() = %+v, want empty scene", scene)
			}
		})
	}
}

func TestItemCenter(t *testing.T) {
	it := Item{X: 10, Y: 20, W: 5, H: 10}
	if it.CX() != 12.5 || it.CY() != 25 {
		t.Errorf("center = (%v, %v), want (12.5, 25)", it.CX(), it.CY())
	}
}
