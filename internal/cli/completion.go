package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/pipeline"
	"github.com/matzehuels/chartcore/pkg/transition"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for chartcore.

Bash:
  $ source <(chartcore completion bash)

Zsh:
  $ chartcore completion zsh > "${fpath[1]}/_chartcore"

Fish:
  $ chartcore completion fish | source

PowerShell:
  PS> chartcore completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// registerChartCompletions offers the known values for the chart flags.
func registerChartCompletions(cmd *cobra.Command) {
	fixed := func(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		}
	}

	types := make([]string, len(chart.Types))
	for i, t := range chart.Types {
		types[i] = string(t)
	}
	_ = cmd.RegisterFlagCompletionFunc("type", fixed(types...))
	_ = cmd.RegisterFlagCompletionFunc("easing", fixed(transition.EasingNames()...))
	if cmd.Flags().Lookup("format") != nil {
		_ = cmd.RegisterFlagCompletionFunc("format", fixed(pipeline.Formats...))
	}
	_ = cmd.MarkFlagFilename("config", "toml", "yaml", "yml", "json")
	_ = cmd.MarkFlagFilename("previous", "csv", "json")
}
