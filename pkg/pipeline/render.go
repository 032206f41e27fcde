package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/render"
	"github.com/matzehuels/treemap/pkg/render/sink"
	"github.com/matzehuels/treemap/pkg/tree"
)

// =============================================================================
// Rendering
// =============================================================================

// Scene flattens a layout, labelling rectangles with the last segment of
// their node ID.
func Scene(rects *layout.RectTree[string]) render.Scene {
	return render.FromTree(rects, tree.Name)
}

// RenderScene renders the scene in every format of opts.Formats.
func RenderScene(ctx context.Context, scene render.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		began := time.Now()
		data, err := renderFormat(ctx, scene, format, opts)
		observability.Layout().OnRenderComplete(ctx, format, len(data), time.Since(began), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, scene render.Scene, format string, opts Options) ([]byte, error) {
	p := opts.palette()
	switch format {
	case FormatSVG:
		svgOpts := []sink.SVGOption{sink.WithPalette(p)}
		if opts.NoLabels {
			svgOpts = append(svgOpts, sink.WithoutLabels())
		}
		if opts.LeavesOnly {
			svgOpts = append(svgOpts, sink.WithLeavesOnly())
		}
		return sink.RenderSVG(scene, svgOpts...), nil
	case FormatPNG:
		pngOpts := []sink.PNGOption{sink.WithPNGPalette(p), sink.WithScale(opts.Scale)}
		if opts.NoLabels {
			pngOpts = append(pngOpts, sink.WithoutPNGLabels())
		}
		return sink.RenderPNG(scene, pngOpts...)
	case FormatJSON:
		return sink.RenderJSON(scene, sink.WithJSONPalette(p))
	case FormatDOT:
		return sink.RenderDOT(ctx, sink.ToDOT(scene, sink.DOTOptions{Palette: &p}))
	default:
		return nil, ValidateFormat(format)
	}
}
