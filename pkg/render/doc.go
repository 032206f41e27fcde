// Package render turns computed treemap layouts into drawable scenes.
//
// # Overview
//
// A [layout.RectTree] is generic over the node type and knows nothing
// about labels or colors. [FromTree] flattens it into a [Scene]: a plain,
// JSON-serializable list of [Item] values in breadth-first order, so
// parents are always drawn before their children.
//
//	rects := engine.Layout(model, model.Root(), 800, 600)
//	scene := render.FromTree(rects, tree.Name)
//
// # Palettes
//
// A [Palette] decides fill, stroke and text colors per item. Built-in
// palettes are registered by name and looked up with [LookupPalette]:
//
//   - default: categorical colors per top-level branch, lighter with depth
//   - depth: a single hue shaded by nesting depth
//   - mono: greyscale
//
// # Output Formats
//
// The [sink] subpackage writes scenes as SVG, PNG, JSON or, through
// Graphviz, as a hierarchy diagram.
//
// [sink]: github.com/matzehuels/treemap/pkg/render/sink
package render
