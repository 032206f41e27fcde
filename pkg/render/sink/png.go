package sink

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/matzehuels/treemap/pkg/render"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	palette  *render.Palette
	scale    float64
	noLabels bool
}

// WithPNGPalette sets the palette (default [render.DefaultPalette]).
func WithPNGPalette(p render.Palette) PNGOption {
	return func(r *pngRenderer) { r.palette = &p }
}

// WithScale sets the PNG scale factor (default 1.0).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithoutPNGLabels disables text labels.
func WithoutPNGLabels() PNGOption {
	return func(r *pngRenderer) { r.noLabels = true }
}

// RenderPNG rasterizes the scene. Labels use gg's built-in bitmap face, so
// no font files are needed.
func RenderPNG(s render.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("sink: invalid scale %v", r.scale)
	}
	w, h := int(float64(s.Width)*r.scale), int(float64(s.Height)*r.scale)
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyScene
	}
	p := resolvePalette(r.palette)

	dc := gg.NewContext(w, h)
	dc.SetHexColor(p.Background)
	dc.Clear()
	dc.Scale(r.scale, r.scale)
	dc.SetLineWidth(1 / r.scale)

	for _, it := range s.Items {
		dc.DrawRectangle(float64(it.X), float64(it.Y), float64(it.W), float64(it.H))
		dc.SetHexColor(p.Fill(it))
		dc.FillPreserve()
		dc.SetHexColor(p.Stroke)
		dc.Stroke()
	}

	if !r.noLabels {
		dc.SetHexColor(p.Text)
		for _, it := range s.Items {
			if !it.Leaf {
				continue
			}
			label := fitLabel(it.Label, it.W, it.H)
			if label == "" {
				continue
			}
			if tw, _ := dc.MeasureString(label); tw > float64(it.W-4) {
				continue
			}
			dc.DrawStringAnchored(label, it.CX(), it.CY(), 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
