// Package main is the entry point for the autocommit CLI application.
// autocommit reads staged git changes and generates a conventional
// commit message with the OpenAI chat completion API.
package main

import (
	"fmt"
	"os"

	"github.com/autocommit/autocommit/internal/cmd"
	apperrors "github.com/autocommit/autocommit/internal/pkg/errors"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cmd.NewRootCmd(version, commit, date)
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.FormatError(err))
		os.Exit(apperrors.GetExitCode(err))
	}
}
