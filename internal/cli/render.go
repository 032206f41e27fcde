package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/pipeline"
)

// renderCommand creates the render command, which runs the whole
// load, layout and render pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      optionFlags
		output     string
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render <tree.json|dir|s3://bucket/prefix>",
		Short: "Render a treemap to SVG, PNG, JSON or DOT",
		Long: `Render a treemap to SVG, PNG, JSON or DOT.

Each format is written to <base>.<format>, where the base is derived from
--output or from the input name. The dot format is a Graphviz diagram of the
nesting, rendered to SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd, &flags, args[0], output, formats)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: derived from input)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, dot (comma-separated)")
	completeValues(cmd, "format", formatValues...)
	flags.registerLoad(cmd)
	flags.registerLayout(cmd)
	flags.registerRender(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, flags *optionFlags, input, output string, formats []string) error {
	opts := c.resolve(cmd, flags, input)
	opts.Formats = formats

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Rendering "+input+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(outputBase(output, input), result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Nodes, result.Stats.Rects, result.CacheInfo.TreeHit)
	c.Logger.Debug("timings",
		"load", result.Stats.LoadTime,
		"layout", result.Stats.LayoutTime,
		"render", result.Stats.RenderTime)

	return nil
}

// writeArtifacts writes every artifact to base.<format> and returns the
// paths in format order.
func writeArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + artifactExt(f)
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// artifactExt returns the file extension for a format. DOT output is
// rendered by Graphviz, so it is written as SVG next to the treemap SVG.
func artifactExt(format string) string {
	if format == pipeline.FormatDOT {
		return "dot.svg"
	}
	return format
}
