package cmd

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for hitsheet.

To load completions:

Bash:
  $ source <(hitsheet completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ hitsheet completion bash > /etc/bash_completion.d/hitsheet
  # macOS:
  $ hitsheet completion bash > $(brew --prefix)/etc/bash_completion.d/hitsheet

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ hitsheet completion zsh > "${fpath[1]}/_hitsheet"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ hitsheet completion fish | source

  # To load completions for each session, execute once:
  $ hitsheet completion fish > ~/.config/fish/completions/hitsheet.fish

PowerShell:
  PS> hitsheet completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> hitsheet completion powershell > hitsheet.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  usageArgs(cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)),

	// Completion scripts need no configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletionV2(out, true)
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

func init() {
	rootCmd.AddCommand(completionCmd)
}
