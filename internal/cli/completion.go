package cli

import "github.com/spf13/cobra"

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pyright-node.

To load completions:

Bash:
  $ source <(pyright-node completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ pyright-node completion bash > /etc/bash_completion.d/pyright-node
  # macOS:
  $ pyright-node completion bash > $(brew --prefix)/etc/bash_completion.d/pyright-node

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ pyright-node completion zsh > "${fpath[1]}/_pyright-node"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ pyright-node completion fish | source

  # To load completions for each session, execute once:
  $ pyright-node completion fish > ~/.config/fish/completions/pyright-node.fish

PowerShell:
  PS> pyright-node completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> pyright-node completion powershell > pyright-node.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(c.stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.stdout)
			}
			return nil
		},
	}

	return cmd
}
