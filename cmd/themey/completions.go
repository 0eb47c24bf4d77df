package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var completionsCmd = &cobra.Command{
	Use:   "completions <shell>",
	Short: "Generate shell completion scripts",
	Long: `Generate a completion script for the given shell.

  bash:       themey completions bash > ~/.local/share/bash-completion/completions/themey
  zsh:        themey completions zsh > "${fpath[1]}/_themey"
  fish:       themey completions fish > ~/.config/fish/completions/themey.fish
  powershell: themey completions powershell | Out-String | Invoke-Expression`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	// Skip config and home resolution.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runCompletions,
}

func init() {
	rootCmd.AddCommand(completionsCmd)
}

func runCompletions(cmd *cobra.Command, args []string) error {
	switch args[0] {
	case "bash":
		return rootCmd.GenBashCompletionV2(os.Stdout, true)
	case "zsh":
		return rootCmd.GenZshCompletion(os.Stdout)
	case "fish":
		return rootCmd.GenFishCompletion(os.Stdout, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
	default:
		return fmt.Errorf("unsupported shell %q (valid: bash, zsh, fish, powershell)", args[0])
	}
}
