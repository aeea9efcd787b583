// Package cmd contains the CLI command definitions for autocommit.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command as an alias for commit --dry-run.
func NewGenerateCmd() *cobra.Command {
	flags := &CommitFlags{
		DryRun: true, // Always dry-run for generate command
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a commit message without committing",
		Long: `Generate a commit message from your staged changes without actually
committing.

This is equivalent to running 'autocommit commit --dry-run'.

The generated message is displayed to stdout by default, or can be
written to a file using the --output flag.

Examples:
  autocommit generate              # Generate and display message
  autocommit generate -o msg.txt   # Save message to file
  autocommit generate --yes        # Skip interactive prompt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip interactive confirmation")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Write generated message to file")
	cmd.Flags().StringVar(&flags.Prompt, "prompt", "", "Custom prompt to use instead of the built-in template")
	cmd.Flags().Int("unified", 0, "Context lines around each diff hunk sent to the model")

	return cmd
}
