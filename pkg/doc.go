// Package pkg provides the libraries behind the treemap command.
//
// # Overview
//
// Treemap turns weighted hierarchies (directory trees, S3 buckets, JSON
// documents) into squarified treemaps: nested rectangles whose areas are
// proportional to the weights and whose shapes stay close to square. The pkg
// directory is organized into four areas:
//
//  1. Core: [tree], [weight] and [layout] hold the data model and the
//     squarified layout engine. They have no I/O and no logging.
//  2. Inputs: [source] scans directories and S3 prefixes into trees.
//  3. Outputs: [render] flattens layouts into scenes that the sinks in
//     render/sink draw as SVG, PNG, JSON or Graphviz diagrams.
//  4. Orchestration: [pipeline] runs load → layout → render with caching
//     ([cache]), configuration ([config]), metrics and tracing
//     ([observability]); [server] exposes it over HTTP.
//
// # Architecture
//
// The typical data flow:
//
//	directory / s3://bucket/prefix / tree.json
//	         ↓
//	    [source] or tree.ReadJSON (weighted tree.Model)
//	         ↓
//	    [layout] (squarified RectTree)
//	         ↓
//	    [render] (Scene) → render/sink
//	         ↓
//	    SVG/PNG/JSON/DOT output
//
// # Quick Start
//
// Lay out a small tree and render it:
//
//	import (
//	    "github.com/matzehuels/treemap/pkg/layout"
//	    "github.com/matzehuels/treemap/pkg/render"
//	    "github.com/matzehuels/treemap/pkg/render/sink"
//	    "github.com/matzehuels/treemap/pkg/tree"
//	    "github.com/matzehuels/treemap/pkg/weight"
//	)
//
//	m := tree.NewModel[string, int64](weight.Int64())
//	m.SetRoot("root", 0)
//	m.Add("root/a", 6, "root")
//	m.Add("root/b", 4, "root")
//
//	engine := layout.NewSquarified[string, int64](weight.Int64())
//	rects := engine.Layout(m, m.Root(), 600, 400)
//
//	svg := sink.RenderSVG(render.FromTree(rects, tree.Name))
//
// For everything including input loading and caching, use [pipeline.Runner].
//
// # Main Packages
//
// [weight] - Arithmetic over weight types (int64, float64, decimal) so one
// layout algorithm serves them all.
//
// [tree] - Read-only tree views, the mutable weighted [tree.Model] and the
// nested JSON format.
//
// [layout] - The squarified engine, rectangles and the resulting RectTree
// with point lookup. Layouts can be cancelled through a Canceler.
//
// [render] - Scenes and palettes; render/sink holds the output formats.
//
// [source] - Directory (source/fs) and S3 (source/s3) scanners.
//
// [cache] - File, Redis and null caches for scanned and uploaded trees.
//
// [pipeline] - Options, validation and the Runner shared by CLI and server.
//
// [server] - chi-based HTTP API for uploading and laying out trees.
//
// [observability] - Hook registry for metrics; observability/prom
// implements it with Prometheus.
//
// [errors] - Coded errors with HTTP status mapping.
//
// [config] - TOML configuration file.
//
// [buildinfo] - Version information set at build time.
package pkg
