// Package cli implements the treemap command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/buildinfo"
	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/config"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/source"
	s3source "github.com/matzehuels/treemap/pkg/source/s3"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// redisPrefix namespaces treemap keys in a shared Redis.
const redisPrefix = appName + ":"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The configuration file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Treemap lays out weighted hierarchies as nested rectangles",
		Long:         `Treemap computes squarified treemaps of directory trees, S3 buckets and JSON hierarchies, and renders them as SVG, PNG, JSON or Graphviz diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/treemap/config.toml)")

	// Register all subcommands
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration file. A missing file leaves the
// defaults in place.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			c.Logger.Debug("no config directory", "error", err)
			return nil
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend := c.Config.Cache.Backend
	if noCache {
		backend = config.BackendNone
	}
	cc, err := c.newCache(ctx, backend)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.ScanTTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// newCache opens the cache backend. An unusable file cache directory
// degrades to no caching; an unreachable Redis is an error.
func (c *CLI) newCache(ctx context.Context, backend string) (cache.Cache, error) {
	switch backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Config.Cache.RedisAddr,
			Password: c.Config.Cache.RedisPassword,
			DB:       c.Config.Cache.RedisDB,
			Prefix:   redisPrefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// newS3Client creates an S3 client from the [s3] config section.
func (c *CLI) newS3Client() *s3.Client {
	return s3source.NewClient(s3source.Config{
		Region:    c.Config.S3.Region,
		Endpoint:  c.Config.S3.Endpoint,
		PathStyle: c.Config.S3.PathStyle,
	})
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the XDG
// default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/treemap/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// outputBase derives the base output path (without extension) from the
// output flag and the input.
func outputBase(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if strings.HasPrefix(input, "s3://") {
		input = strings.TrimSuffix(strings.TrimPrefix(input, "s3://"), "/")
		input = strings.ReplaceAll(input, "/", "_")
	}
	base := filepath.Base(strings.TrimSuffix(input, string(filepath.Separator)))
	if base == "." || base == string(filepath.Separator) {
		base = "treemap"
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// =============================================================================
// Options Helpers
// =============================================================================

// defaultOptions returns pipeline options seeded from the configuration.
// Flags registered on these options override the configured values.
func (c *CLI) defaultOptions() pipeline.Options {
	cfg := c.Config
	return pipeline.Options{
		Width:    cfg.Layout.Width,
		Height:   cfg.Layout.Height,
		MaxDepth: cfg.Layout.MaxDepth,
		Border:   cfg.Layout.Border,
		Palette:  cfg.Render.Palette,
		NoLabels: !cfg.Render.Labels,
		Logger:   c.Logger,
	}
}

// optionFlags binds the flags shared by commands that load and lay out a
// tree.
type optionFlags struct {
	opts    pipeline.Options
	noCache bool
}

func (f *optionFlags) registerLoad(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.opts.Source, "source", "", "input source: file, dir or s3 (default: detected)")
	cmd.Flags().StringVar(&f.opts.Weights, "weights", "", "weight type for JSON files: int64 (default), decimal")
	cmd.Flags().BoolVar(&f.opts.Hidden, "hidden", false, "include hidden files and directories")
	cmd.Flags().IntVar(&f.opts.MaxFiles, "max-files", 0, "stop scanning after this many entries (default 1048576)")
	cmd.Flags().BoolVar(&f.opts.Refresh, "refresh", false, "rescan even if a cached tree exists")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	completeValues(cmd, "source", sourceValues...)
	completeValues(cmd, "weights", weightValues...)
}

func (f *optionFlags) registerLayout(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.opts.Width, "width", 0, "frame width (default from config)")
	cmd.Flags().IntVar(&f.opts.Height, "height", 0, "frame height (default from config)")
	cmd.Flags().IntVar(&f.opts.MaxDepth, "depth", 0, "maximum nesting depth, 0 for unlimited")
	cmd.Flags().StringVar(&f.opts.Start, "start", "", "node ID to lay out instead of the root")
	cmd.Flags().IntVar(&f.opts.Border, "border", 0, "inset every rectangle by this many pixels")
}

func (f *optionFlags) registerRender(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.opts.Palette, "palette", "", "color palette: default, depth, mono")
	cmd.Flags().BoolVar(&f.opts.NoLabels, "no-labels", false, "do not draw labels")
	cmd.Flags().BoolVar(&f.opts.LeavesOnly, "leaves-only", false, "draw only leaf rectangles (svg)")
	cmd.Flags().Float64Var(&f.opts.Scale, "scale", pipeline.DefaultScale, "pixel scale factor (png)")
	completeValues(cmd, "palette", paletteValues()...)
}

// resolve merges the flags that were set on cmd into the configured
// defaults and attaches an S3 client for s3:// inputs.
func (c *CLI) resolve(cmd *cobra.Command, f *optionFlags, input string) pipeline.Options {
	opts := c.defaultOptions()
	set := cmd.Flags().Changed

	opts.Input = input
	opts.Source = f.opts.Source
	opts.Weights = f.opts.Weights
	opts.Hidden = f.opts.Hidden
	opts.MaxFiles = f.opts.MaxFiles
	opts.Refresh = f.opts.Refresh
	opts.Start = f.opts.Start
	opts.LeavesOnly = f.opts.LeavesOnly
	opts.Scale = f.opts.Scale

	if set("width") {
		opts.Width = f.opts.Width
	}
	if set("height") {
		opts.Height = f.opts.Height
	}
	if set("depth") {
		opts.MaxDepth = f.opts.MaxDepth
	}
	if set("border") {
		opts.Border = f.opts.Border
	}
	if set("palette") {
		opts.Palette = f.opts.Palette
	}
	if set("no-labels") {
		opts.NoLabels = f.opts.NoLabels
	}

	if opts.Source == "" {
		opts.Source = pipeline.DetectSource(input)
	}
	if opts.Source == source.KindS3 {
		opts.S3Client = c.newS3Client()
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for f := range strings.SplitSeq(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
