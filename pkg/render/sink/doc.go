// Package sink writes treemap scenes in various output formats.
//
// Supported formats:
//
//   - SVG ([RenderSVG]): vector output with hover titles and labels
//   - PNG ([RenderPNG]): raster output drawn with gg
//   - JSON ([RenderJSON]): the scene itself, for web frontends
//   - DOT ([ToDOT], [RenderDOT]): the rectangle hierarchy as a Graphviz
//     diagram, rendered to SVG
//
// All renderers take a [render.Scene] built with [render.FromTree].
package sink

import (
	"errors"

	"github.com/matzehuels/treemap/pkg/render"
)

// ErrEmptyScene is returned by raster renderers for scenes without area.
var ErrEmptyScene = errors.New("sink: empty scene")

func resolvePalette(p *render.Palette) render.Palette {
	if p != nil {
		return *p
	}
	def, _ := render.LookupPalette(render.DefaultPalette)
	return def
}

// minLabelWidth and minLabelHeight bound the items that get a text label.
const (
	minLabelWidth  = 24
	minLabelHeight = 14
	charWidth      = 7
)

// fitLabel truncates label to the item's width, or returns "" if the item
// is too small to hold text.
func fitLabel(label string, w, h int) string {
	if w < minLabelWidth || h < minLabelHeight {
		return ""
	}
	maxChars := (w - 4) / charWidth
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	if maxChars < 2 {
		return ""
	}
	return string(runes[:maxChars-1]) + "…"
}
