package render

import (
	"fmt"

	"github.com/matzehuels/treemap/pkg/layout"
)

// Item is a single drawable rectangle of a [Scene].
type Item struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	W      int    `json:"w"`
	H      int    `json:"h"`
	Depth  int    `json:"depth"`
	Leaf   bool   `json:"leaf"`
	Parent string `json:"parent,omitempty"`

	// Group is the index of the item's top-level branch below the layout
	// root. It is 0 for the root itself.
	Group int `json:"group"`
}

// CX returns the horizontal center of the item.
func (it Item) CX() float64 { return float64(it.X) + float64(it.W)/2 }

// CY returns the vertical center of the item.
func (it Item) CY() float64 { return float64(it.Y) + float64(it.H)/2 }

// Scene is a flattened treemap ready for drawing.
type Scene struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Items  []Item `json:"items"`
}

// Leaves returns the number of leaf items.
func (s Scene) Leaves() int {
	n := 0
	for _, it := range s.Items {
		if it.Leaf {
			n++
		}
	}
	return n
}

// FromTree flattens t into a scene. label maps nodes to display text;
// when nil, labels are formatted with %v. Item IDs are always the %v
// formatting of the node.
func FromTree[N comparable](t *layout.RectTree[N], label func(N) string) Scene {
	if t == nil || t.IsEmpty() {
		return Scene{}
	}
	if label == nil {
		label = func(n N) string { return fmt.Sprint(n) }
	}

	root := t.Root()
	scene := Scene{
		Width:  root.Right(),
		Height: root.Bottom(),
		Items:  make([]Item, 0, t.Len()),
	}

	depths := make(map[N]int, t.Len())
	groups := make(map[N]int, t.Len())
	ordinal := 0
	for r := range t.All() {
		it := Item{
			ID:    fmt.Sprint(r.Node),
			Label: label(r.Node),
			X:     r.X,
			Y:     r.Y,
			W:     r.Width,
			H:     r.Height,
			Leaf:  !t.HasChildren(r),
		}
		if p, ok := t.Parent(r); ok {
			it.Parent = fmt.Sprint(p.Node)
			it.Depth = depths[p.Node] + 1
			if it.Depth == 1 {
				it.Group = ordinal
				ordinal++
			} else {
				it.Group = groups[p.Node]
			}
		}
		depths[r.Node] = it.Depth
		groups[r.Node] = it.Group
		scene.Items = append(scene.Items, it)
	}
	return scene
}
