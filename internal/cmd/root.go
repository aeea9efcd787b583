// Package cmd contains the CLI command definitions for autocommit.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the autocommit CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "autocommit",
		Short: "AI-powered git commit message generator",
		Long: `autocommit reads your staged git changes, sends the diff to the
OpenAI chat completion API, and proposes a conventional commit message.

You review the message interactively - accept, edit, regenerate, or
cancel - and on acceptance autocommit runs 'git commit' with exactly
the message you approved.`,
		Version: version,
		// Running the bare binary is the same as running 'autocommit commit'
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			yes, _ := cmd.Flags().GetBool("yes")
			output, _ := cmd.Flags().GetString("output")
			prompt, _ := cmd.Flags().GetString("prompt")

			flags := &CommitFlags{
				DryRun:     dryRun,
				Yes:        yes,
				OutputFile: output,
				Prompt:     prompt,
			}

			return runCommit(cmd, flags)
		},
	}

	rootCmd.SetVersionTemplate(`autocommit {{.Version}}
Commit: ` + commitHash + `
Built:  ` + date + "\n")

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.autocommit/config.yaml)")
	rootCmd.PersistentFlags().String("model", "", "Completion model to use")

	// Commit flags on the root command for the default action
	rootCmd.Flags().Bool("dry-run", false, "Generate message without committing")
	rootCmd.Flags().BoolP("yes", "y", false, "Skip interactive confirmation and commit immediately")
	rootCmd.Flags().StringP("output", "o", "", "Write generated message to file (implies --dry-run)")
	rootCmd.Flags().String("prompt", "", "Custom prompt to use instead of the built-in template")
	rootCmd.Flags().Int("unified", 0, "Context lines around each diff hunk sent to the model")

	rootCmd.AddCommand(NewCommitCmd())
	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}
