// Package pipeline provides the load → layout → render pipeline for treemap.
//
// This package implements the complete pipeline used by the CLI and the
// HTTP server. Centralizing it keeps defaults, validation and caching the
// same across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a JSON tree file, or scan a directory or S3 prefix
//  2. Layout: Compute the squarified treemap rectangles
//  3. Render: Generate output in various formats (SVG, PNG, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "./src",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	t, err := runner.LoadTree(ctx, opts)
//	rects, err := runner.ComputeLayout(ctx, t, opts)
//	artifacts, err := runner.Render(ctx, pipeline.Scene(rects), opts)
package pipeline

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/render"
	"github.com/matzehuels/treemap/pkg/source"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 1200

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 800

	// DefaultMaxDepth lays out the whole tree.
	DefaultMaxDepth = layout.Unlimited

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 1.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// Weight types for JSON tree files.
const (
	WeightsInt64   = "int64"
	WeightsDecimal = "decimal"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidSources is the set of supported input kinds.
var ValidSources = map[string]bool{
	source.KindFile: true,
	source.KindDir:  true,
	source.KindS3:   true,
}

// ValidWeights is the set of supported weight types.
var ValidWeights = map[string]bool{
	WeightsInt64:   true,
	WeightsDecimal: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Input    string `json:"input,omitempty"`
	Source   string `json:"source,omitempty"`  // file, dir or s3; detected from Input when empty
	Weights  string `json:"weights,omitempty"` // int64 or decimal; decimal applies to JSON files only
	Hidden   bool   `json:"hidden,omitempty"`
	MaxFiles int    `json:"max_files,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"`

	// Layout options
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	MaxDepth int    `json:"max_depth,omitempty"` // zero or negative means unlimited
	Start    string `json:"start,omitempty"`     // node ID to lay out instead of the root
	Border   int    `json:"border,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Palette    string   `json:"palette,omitempty"`
	NoLabels   bool     `json:"no_labels,omitempty"`
	LeavesOnly bool     `json:"leaves_only,omitempty"`
	Scale      float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger               `json:"-"`
	S3Client s3.ListObjectsV2APIClient `json:"-"`
	Canceler layout.Canceler           `json:"-"` // stops the layout in addition to the context

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the loaded input tree.
	Tree Tree

	// Layout is the computed rectangle tree.
	Layout *layout.RectTree[string]

	// Scene is the flattened layout the artifacts were drawn from.
	Scene render.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Nodes      int
	Rects      int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TreeHit bool // Whether the scanned tree came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePalette checks that a palette exists.
func ValidatePalette(name string) error {
	if _, ok := render.LookupPalette(name); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid palette: %q (must be one of: %s)",
			name, strings.Join(render.PaletteNames(), ", "))
	}
	return nil
}

// DetectSource guesses the source kind of an input.
func DetectSource(input string) string {
	if strings.HasPrefix(input, "s3://") {
		return source.KindS3
	}
	if info, err := os.Stat(input); err == nil && info.IsDir() {
		return source.KindDir
	}
	return source.KindFile
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading a tree.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	if o.Source == "" {
		o.Source = DetectSource(o.Input)
	}
	if !ValidSources[o.Source] {
		return errors.New(errors.ErrCodeInvalidSource, "invalid source: %q (must be one of: file, dir, s3)", o.Source)
	}
	if o.Weights == "" {
		o.Weights = WeightsInt64
	}
	if !ValidWeights[o.Weights] {
		return errors.New(errors.ErrCodeInvalidWeights, "invalid weights: %q (must be one of: int64, decimal)", o.Weights)
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Border < 0 {
		o.Border = 0
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return errors.ValidateSize(o.Width, o.Height)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Palette == "" {
		o.Palette = render.DefaultPalette
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	return ValidatePalette(o.Palette)
}

// TreeKeyOpts returns cache key options for scanned trees.
func (o *Options) TreeKeyOpts() cache.TreeKeyOpts {
	return cache.TreeKeyOpts{
		Hidden:   o.Hidden,
		MaxFiles: o.MaxFiles,
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func (o *Options) palette() render.Palette {
	p, ok := render.LookupPalette(o.Palette)
	if !ok {
		p, _ = render.LookupPalette(render.DefaultPalette)
	}
	return p
}
