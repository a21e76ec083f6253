package cmd

import (
	"fmt"

	"github.com/chris-regnier/moodjournal/internal/shell"
	"github.com/spf13/cobra"
)

var initShellCmd = &cobra.Command{
	Use:   "init <shell>",
	Short: "Output shell integration script",
	Long: `Output shell integration script for eval.

Generates shell-specific initialization code that sets up:
- Shell completions
- Prompt hook for journal status env vars
- moodjournal_prompt_info helper function

Supported shells: bash, zsh`,
	Example: `  # Add to ~/.bashrc
  eval "$(moodjournal init bash)"

  # Add to ~/.zshrc
  eval "$(moodjournal init zsh)"`,
	Args:        cobra.ExactArgs(1),
	ValidArgs:   []string{"bash", "zsh"},
	Annotations: map[string]string{annotationNoSetup: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			shell.WriteBashInit(cmd.OutOrStdout())
		case "zsh":
			shell.WriteZshInit(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell %q (supported: bash, zsh)", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initShellCmd)
}
