package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/render/sink"
)

// layoutCommand creates the layout command for computing treemap rectangles.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  optionFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout <tree.json|dir|s3://bucket/prefix>",
		Short: "Compute the treemap rectangles of a tree",
		Long: `Compute the treemap rectangles of a tree.

The output is a JSON scene listing every rectangle with its node ID, position,
size and depth, in the same format as 'render -f json' without colors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), cmd, &flags, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.layout.json)")
	flags.registerLoad(cmd)
	flags.registerLayout(cmd)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, cmd *cobra.Command, flags *optionFlags, input, output string) error {
	opts := c.resolve(cmd, flags, input)

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Loading "+input+"...")
	spinner.Start()

	t, cached, err := runner.LoadTreeWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}

	spinner.Update("Computing layout...")
	rects, err := runner.ComputeLayout(ctx, t, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	data, err := sink.RenderJSON(pipeline.Scene(rects))
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = outputBase("", input) + ".layout.json"
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(t.Len(), rects.Len(), cached)
	printNewline()
	printNextStep("Explore", appName+" explore "+input)

	return nil
}
