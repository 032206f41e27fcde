package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/treemap/pkg/render"
)

const itemInteractionCSS = `
    .item { transition: stroke-width 0.2s ease; }
    .item:hover { stroke-width: 3; }
    .item-text { pointer-events: none; font-family: sans-serif; font-size: 11px; }`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	palette    *render.Palette
	noLabels   bool
	leavesOnly bool
}

func WithPalette(p render.Palette) SVGOption { return func(r *svgRenderer) { r.palette = &p } }
func WithoutLabels() SVGOption               { return func(r *svgRenderer) { r.noLabels = true } }

// WithLeavesOnly skips inner rectangles. Their area is fully covered by
// their children unless the layout was cut off by depth.
func WithLeavesOnly() SVGOption { return func(r *svgRenderer) { r.leavesOnly = true } }

// RenderSVG renders the scene as a standalone SVG document.
func RenderSVG(s render.Scene, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}
	p := resolvePalette(r.palette)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", itemInteractionCSS)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", p.Background)

	for _, it := range s.Items {
		if r.leavesOnly && !it.Leaf {
			continue
		}
		fmt.Fprintf(&buf, `  <rect id="item-%s" class="item" x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="%s" stroke-width="1">`,
			html.EscapeString(it.ID), it.X, it.Y, it.W, it.H, p.Fill(it), p.Stroke)
		fmt.Fprintf(&buf, "<title>%s</title></rect>\n", html.EscapeString(it.ID))
	}

	if !r.noLabels {
		for _, it := range s.Items {
			if !it.Leaf {
				continue
			}
			label := fitLabel(it.Label, it.W, it.H)
			if label == "" {
				continue
			}
			fmt.Fprintf(&buf, `  <text class="item-text" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
				it.CX(), it.CY(), p.Text, html.EscapeString(label))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
