package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/source"
)

// scanCommand creates the scan command, which turns a directory or S3
// prefix into a JSON tree.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		flags  optionFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "scan <dir|s3://bucket/prefix>",
		Short: "Scan a directory or S3 prefix into a JSON tree",
		Long: `Scan a directory or S3 prefix into a JSON tree.

Files and objects weigh their size in bytes; directories and prefixes weigh
the sum of their contents. The result can be passed to 'layout', 'render' and
'explore', or uploaded to 'serve'.

Scans are cached; use --refresh to rescan.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd.Context(), cmd, &flags, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.tree.json)")
	flags.registerLoad(cmd)

	return cmd
}

func (c *CLI) runScan(ctx context.Context, cmd *cobra.Command, flags *optionFlags, input, output string) error {
	opts := c.resolve(cmd, flags, input)
	if opts.Source == source.KindFile {
		return fmt.Errorf("scan needs a directory or s3:// input, got file %s", input)
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Scanning "+input+"...")
	spinner.Start()
	prog := newProgress(c.Logger)

	t, cached, err := runner.LoadTreeWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Scan failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Scanned %d nodes", t.Len()))

	data, err := t.Marshal()
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = outputBase("", input) + ".tree.json"
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Scan complete")
	printFile(outputPath)
	printKeyValue("Total", t.FormatWeight(t.Root())+" bytes")
	printStats(t.Len(), 0, cached)
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}
