package render

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// DefaultPalette is the palette used when none is configured.
const DefaultPalette = "default"

// Palette decides the colors of scene items. Colors are "#rrggbb" strings.
type Palette struct {
	Name       string
	Background string
	Stroke     string
	Text       string

	fill func(Item) string
}

// Fill returns the fill color of it.
func (p Palette) Fill(it Item) string { return p.fill(it) }

var categorical = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

var palettes = map[string]Palette{
	"default": {
		Name:       "default",
		Background: "#ffffff",
		Stroke:     "#333333",
		Text:       "#1a1a1a",
		fill: func(it Item) string {
			if it.Depth == 0 {
				return "#f2f2f2"
			}
			return Lighten(categorical[it.Group%len(categorical)], depthFactor(it.Depth-1))
		},
	},
	"depth": {
		Name:       "depth",
		Background: "#ffffff",
		Stroke:     "#08306b",
		Text:       "#08306b",
		fill: func(it Item) string {
			return Lighten("#2171b5", depthFactor(it.Depth))
		},
	},
	"mono": {
		Name:       "mono",
		Background: "#ffffff",
		Stroke:     "#000000",
		Text:       "#000000",
		fill: func(it Item) string {
			if it.Leaf {
				return "#ffffff"
			}
			return Lighten("#808080", depthFactor(it.Depth))
		},
	},
}

// LookupPalette returns the named palette.
func LookupPalette(name string) (Palette, bool) {
	p, ok := palettes[name]
	return p, ok
}

// PaletteNames returns the names of all built-in palettes, sorted.
func PaletteNames() []string {
	return slices.Sorted(maps.Keys(palettes))
}

// depthFactor grows towards 0.8 so deep levels stay distinguishable from white.
func depthFactor(depth int) float64 {
	f := 0.0
	for range depth {
		f += (0.8 - f) * 0.35
	}
	return f
}

// Lighten mixes the hex color toward white by f in [0,1]. Invalid colors
// are returned unchanged.
func Lighten(hex string, f float64) string {
	r, g, b, ok := ParseHex(hex)
	if !ok {
		return hex
	}
	f = min(max(f, 0), 1)
	mix := func(c uint8) uint8 { return uint8(float64(c) + (255-float64(c))*f + 0.5) }
	return fmt.Sprintf("#%02x%02x%02x", mix(r), mix(g), mix(b))
}

// ParseHex parses a "#rrggbb" color.
func ParseHex(hex string) (r, g, b uint8, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
