package sink

import (
	"encoding/json"

	"github.com/matzehuels/treemap/pkg/render"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	palette *render.Palette
}

// WithJSONPalette adds a resolved fill color to every item.
func WithJSONPalette(p render.Palette) JSONOption {
	return func(r *jsonRenderer) { r.palette = &p }
}

type jsonOutput struct {
	Width   int        `json:"width"`
	Height  int        `json:"height"`
	Palette string     `json:"palette,omitempty"`
	Items   []jsonItem `json:"items"`
}

type jsonItem struct {
	render.Item
	Fill string `json:"fill,omitempty"`
}

// RenderJSON encodes the scene as indented JSON.
func RenderJSON(s render.Scene, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:  s.Width,
		Height: s.Height,
		Items:  make([]jsonItem, len(s.Items)),
	}
	if r.palette != nil {
		out.Palette = r.palette.Name
	}
	for i, it := range s.Items {
		out.Items[i] = jsonItem{Item: it}
		if r.palette != nil {
			out.Items[i].Fill = r.palette.Fill(it)
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
