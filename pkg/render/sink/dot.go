package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treemap/pkg/render"
)

// DOTOptions configures hierarchy diagram output.
type DOTOptions struct {
	// Detailed adds the rectangle geometry to each node label.
	Detailed bool
	// Palette colors the nodes like their rectangles. nil leaves them white.
	Palette *render.Palette
}

// ToDOT converts the scene's rectangle hierarchy to Graphviz DOT format.
// The result can be rendered with [RenderDOT].
func ToDOT(s render.Scene, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	for _, it := range s.Items {
		attrs := []string{fmt.Sprintf("label=%q", dotLabel(it, opts.Detailed))}
		if opts.Palette != nil {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", opts.Palette.Fill(it)))
		}
		if !it.Leaf {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", it.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, it := range s.Items {
		if it.Depth > 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", it.Parent, it.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(it render.Item, detailed bool) string {
	if !detailed {
		return it.Label
	}
	return fmt.Sprintf("%s\n%dx%d @ %d,%d", it.Label, it.W, it.H, it.X, it.Y)
}

// RenderDOT renders a DOT graph to SVG using Graphviz.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
