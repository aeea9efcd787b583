// Package cmd contains the CLI command definitions for autocommit.
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/autocommit/autocommit/internal/app"
	"github.com/autocommit/autocommit/internal/pkg/ai"
	"github.com/autocommit/autocommit/internal/pkg/config"
	"github.com/autocommit/autocommit/internal/pkg/cost"
	"github.com/autocommit/autocommit/internal/pkg/envcheck"
	apperrors "github.com/autocommit/autocommit/internal/pkg/errors"
	"github.com/autocommit/autocommit/internal/pkg/git"
	"github.com/autocommit/autocommit/internal/pkg/processor"
	"github.com/autocommit/autocommit/internal/pkg/security"
	"github.com/autocommit/autocommit/internal/pkg/ui"
)

// CommitFlags holds the flags for the commit command.
type CommitFlags struct {
	DryRun     bool
	Yes        bool
	OutputFile string
	Prompt     string
}

// NewCommitCmd creates the commit command.
func NewCommitCmd() *cobra.Command {
	flags := &CommitFlags{}

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Generate and commit with an AI-generated message",
		Long: `Generate a commit message from your staged changes, then optionally
commit with that message.

The command reads your staged git diff, sends it to the OpenAI chat
completion API, and presents an interactive interface to review, edit,
and confirm the commit message. Nothing is sent until the estimated
request cost has been shown (and, above the threshold, confirmed).

Examples:
  autocommit commit              # Interactive commit
  autocommit commit --yes        # Auto-accept generated message
  autocommit commit --dry-run    # Generate without committing
  autocommit commit -o msg.txt   # Save message to file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommit(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Generate message without committing")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip interactive confirmation and commit immediately")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Write generated message to file (implies --dry-run)")
	cmd.Flags().StringVar(&flags.Prompt, "prompt", "", "Custom prompt to use instead of the built-in template")
	cmd.Flags().Int("unified", 0, "Context lines around each diff hunk sent to the model")

	return cmd
}

// runCommit executes the commit command logic.
func runCommit(cmd *cobra.Command, flags *CommitFlags) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Global flags
	verbose, _ := cmd.Flags().GetBool("verbose")
	configPath, _ := cmd.Flags().GetString("config")
	modelOverride, _ := cmd.Flags().GetString("model")

	apperrors.SetVerbose(verbose)

	// The git binary is required for everything that follows.
	envResult, err := envcheck.NewChecker().Check(ctx)
	if err != nil {
		return err
	}
	apperrors.Debug("Using %s (%s)", envResult.GitPath, envResult.GitVersion)

	cfgMgr, err := config.NewManager(configPath)
	if err != nil {
		apperrors.Error("Failed to create config manager: %v", err)
		return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
	}

	if configPath != "" {
		apperrors.Debug("Using custom config path: %s", configPath)
	}

	// Flag overrides are applied before loading so they win over env and
	// file values. They never persist to the config file.
	if modelOverride != "" {
		cfgMgr.SetOverride("provider.model", modelOverride)
		apperrors.Debug("Model overridden via flag: %s", modelOverride)
	}
	if cmd.Flags().Changed("unified") {
		unified, _ := cmd.Flags().GetInt("unified")
		cfgMgr.SetOverride("git.unified_context", unified)
		apperrors.Debug("Unified context overridden via flag: %d", unified)
	}

	cfg, err := cfgMgr.Load()
	if err != nil {
		apperrors.Error("Failed to load config: %v", err)
		return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to load config")
	}

	// Writing to a file never commits.
	if flags.OutputFile != "" {
		flags.DryRun = true
	}

	// Resolve the API key: environment variable, then the credential
	// dotfile, then the config file. The source is a diagnostic; the key
	// itself is never logged.
	apiKey, keySource, err := config.ResolveAPIKey(cfg)
	if err != nil {
		return err
	}
	apperrors.Info("API key loaded from %s", keySource)

	// Validate the key format before making requests (fail fast). Custom
	// endpoints may issue keys in other formats, so only the default
	// OpenAI endpoint is checked.
	if cfg.Provider.Endpoint == "" {
		if err := security.ValidateAPIKeyFormat(apiKey); err != nil {
			apperrors.Error("API key validation failed: %v", err)
			return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "invalid API key")
		}
	}

	// First-use privacy warning: staged diffs leave the machine.
	if !cfg.Security.WarningAcknowledged {
		if err := showSecurityWarning(cfgMgr, flags.Yes); err != nil {
			return err
		}
	}

	if verbose {
		apperrors.Info("Using model: %s", cfg.Provider.Model)
		apperrors.Info("API key: %s", security.MaskAPIKey(apiKey))
		if flags.DryRun {
			apperrors.Info("Dry-run mode enabled")
		}
	}

	gitClient := git.NewClient()

	aiProvider, err := ai.NewOpenAIProvider(ai.ProviderConfig{
		APIKey:      apiKey,
		Model:       cfg.Provider.Model,
		Endpoint:    cfg.Provider.Endpoint,
		Temperature: cfg.Provider.Temperature,
		MaxTokens:   cfg.Provider.MaxTokens,
	})
	if err != nil {
		apperrors.Error("Failed to create completion provider: %v", err)
		return err
	}
	apperrors.Debug("Completion provider created: %s", aiProvider.Name())

	diffProcessor := processor.NewProcessorWithConfig(processor.ProcessorConfig{
		DiffSizeThreshold: cfg.Git.DiffSizeThreshold,
	})

	estimator := cost.NewEstimator(cfg.Provider.Model)

	// UI manager based on --yes flag
	var uiMgr ui.Manager
	if flags.Yes {
		uiMgr = ui.NewNonInteractiveManager(cfg.UI.ColorEnabled)
	} else {
		uiMgr = ui.NewDefaultManager(cfg.UI.ColorEnabled, cfg.UI.Editor)
	}

	service := app.NewCommitService(
		gitClient,
		aiProvider,
		diffProcessor,
		uiMgr,
		estimator,
		cfg,
	)

	opts := &app.CommitOptions{
		DryRun:       flags.DryRun,
		OutputFile:   flags.OutputFile,
		SkipConfirm:  flags.Yes,
		CustomPrompt: flags.Prompt,
	}

	return service.GenerateAndCommit(ctx, opts)
}

// showSecurityWarning displays the first-use privacy warning and prompts for acknowledgment.
func showSecurityWarning(cfgMgr *config.ViperManager, autoAccept bool) error {
	fmt.Print(security.FirstUseWarning)

	if autoAccept {
		fmt.Println("Auto-acknowledging privacy warning (--yes flag)")
	} else {
		fmt.Print("Do you understand and wish to continue? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			return fmt.Errorf("privacy warning not acknowledged - operation cancelled")
		}
	}

	if err := cfgMgr.AcknowledgeSecurityWarning(); err != nil {
		// Warn but keep going; the warning will just show again next run.
		apperrors.Warn("Failed to save privacy acknowledgment: %v", err)
	}

	fmt.Println(security.FirstUseAcknowledgment)
	fmt.Println()

	return nil
}
