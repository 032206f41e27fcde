package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/config"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/render"
	"github.com/matzehuels/treemap/pkg/source"
)

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for treemap and print it to stdout.

Completions cover subcommands and the values of --format, --palette,
--source, --weights and --cache.

  $ source <(treemap completion bash)
  $ treemap completion zsh > "${fpath[1]}/_treemap"
  $ treemap completion fish > ~/.config/fish/completions/treemap.fish
  PS> treemap completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeValues offers a fixed set of values for a flag of cmd.
func completeValues(cmd *cobra.Command, flag string, values ...string) {
	_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
}

var (
	formatValues  = []string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatJSON, pipeline.FormatDOT}
	sourceValues  = []string{source.KindFile, source.KindDir, source.KindS3}
	weightValues  = []string{pipeline.WeightsInt64, pipeline.WeightsDecimal}
	backendValues = []string{config.BackendFile, config.BackendRedis, config.BackendNone}
)

func paletteValues() []string { return render.PaletteNames() }
