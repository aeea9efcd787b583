// Package app contains the application layer with business orchestration logic.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/autocommit/autocommit/internal/pkg/ai"
	"github.com/autocommit/autocommit/internal/pkg/config"
	"github.com/autocommit/autocommit/internal/pkg/cost"
	apperrors "github.com/autocommit/autocommit/internal/pkg/errors"
	"github.com/autocommit/autocommit/internal/pkg/git"
	"github.com/autocommit/autocommit/internal/pkg/message"
	"github.com/autocommit/autocommit/internal/pkg/processor"
	"github.com/autocommit/autocommit/internal/pkg/ui"
)

// writeFile is a variable to allow mocking in tests.
var writeFile = os.WriteFile

// MaxRegenerationAttempts is the maximum number of times a user can
// regenerate a commit message in one run.
const MaxRegenerationAttempts = 5

// CostEstimator prices prompt text before any network call is made.
type CostEstimator interface {
	Model() string
	Estimate(text string) cost.Estimate
}

// CommitOptions contains options for the commit workflow.
type CommitOptions struct {
	DryRun       bool
	OutputFile   string
	SkipConfirm  bool
	CustomPrompt string
}

// CommitService orchestrates the commit message generation workflow.
type CommitService struct {
	gitClient     git.Client
	aiProvider    ai.Provider
	diffProcessor processor.DiffProcessor
	uiManager     ui.Manager
	estimator     CostEstimator
	config        *config.Config
}

// NewCommitService creates a new CommitService with the given dependencies.
func NewCommitService(
	gitClient git.Client,
	aiProvider ai.Provider,
	diffProcessor processor.DiffProcessor,
	uiManager ui.Manager,
	estimator CostEstimator,
	cfg *config.Config,
) *CommitService {
	return &CommitService{
		gitClient:     gitClient,
		aiProvider:    aiProvider,
		diffProcessor: diffProcessor,
		uiManager:     uiManager,
		estimator:     estimator,
		config:        cfg,
	}
}

// GenerateAndCommit orchestrates the complete commit workflow:
// repo check → staged diff → process → cost gate → generate → display →
// handle action → commit or save.
//
// An empty staged diff and a declined cost confirmation both end the run
// cleanly before any API call is made.
func (s *CommitService) GenerateAndCommit(ctx context.Context, opts *CommitOptions) error {
	if opts == nil {
		opts = &CommitOptions{}
	}

	// Step 1: Must be inside a git working tree.
	if !s.gitClient.IsRepository(ctx) {
		return apperrors.NewNotARepositoryError()
	}

	// Step 2: Check for staged changes, offering to stage when there are
	// only unstaged ones.
	hasChanges, err := s.gitClient.HasStagedChanges(ctx)
	if err != nil {
		return fmt.Errorf("failed to check staged changes: %w", err)
	}
	if !hasChanges {
		hasUnstaged, err := s.gitClient.HasUnstagedChanges(ctx)
		if err != nil {
			return fmt.Errorf("failed to check unstaged changes: %w", err)
		}
		if !hasUnstaged {
			s.uiManager.ShowSuccess("Nothing to commit - working tree clean")
			return nil
		}

		confirmed, err := s.uiManager.PromptConfirm("No staged changes found. Run 'git add .' to stage all changes?")
		if err != nil {
			return fmt.Errorf("failed to prompt user: %w", err)
		}
		if !confirmed {
			return apperrors.NewNoStagedChangesError()
		}

		spinner := s.uiManager.ShowSpinner("Staging all changes...")
		spinner.Start()
		if err := s.gitClient.AddAll(ctx); err != nil {
			spinner.Stop()
			return fmt.Errorf("failed to stage changes: %w", err)
		}
		spinner.Stop()
		s.uiManager.ShowSuccess("All changes staged")
	}

	// Step 3: Read the staged diff and its stats.
	spinner := s.uiManager.ShowSpinner("Reading staged changes...")
	spinner.Start()

	diffChunks, err := s.gitClient.GetStagedDiff(ctx)
	if err != nil {
		spinner.Stop()
		return err
	}

	diffStats, err := s.gitClient.GetDiffStats(ctx)
	if err != nil {
		spinner.Stop()
		return err
	}

	spinner.Stop()

	if len(diffChunks) == 0 {
		s.uiManager.ShowSuccess("Nothing to commit - staged diff is empty")
		return nil
	}

	// Step 4: Filter and size the diff.
	processedDiff, err := s.diffProcessor.Process(ctx, diffChunks)
	if err != nil {
		return fmt.Errorf("failed to process diff: %w", err)
	}

	if len(processedDiff.Chunks) == 0 {
		s.uiManager.ShowSuccess("Nothing to commit - only lock files are staged")
		return nil
	}

	// Step 5: Build the generation request. The unified variant is
	// fetched here, before the cost gate, so the estimate prices the
	// text that is actually sent.
	req := s.buildGenerateRequest(ctx, opts, processedDiff, diffStats)

	// Step 6: Cost gate. The estimate is computed locally; nothing has
	// been sent yet, so a decline here is a free abort.
	if err := s.confirmCost(opts, req); err != nil {
		return err
	}

	// Step 7+: generate → display → action loop.
	return s.generateAndHandleLoop(ctx, opts, req)
}

// buildGenerateRequest assembles the provider request. For diffs small
// enough to send whole, the unified variant with extra context lines is
// preferred; it reads better for the model than the per-file chunks. The
// chunks are kept when the unified recapture grows past the size
// threshold that triggers summarization.
func (s *CommitService) buildGenerateRequest(
	ctx context.Context,
	opts *CommitOptions,
	processedDiff *processor.ProcessedDiff,
	diffStats *git.DiffStats,
) *ai.GenerateRequest {
	req := &ai.GenerateRequest{
		DiffChunks:       processedDiff.Chunks,
		DiffStats:        diffStats,
		CustomPrompt:     opts.CustomPrompt,
		RequiresChunking: processedDiff.RequiresChunking,
	}

	if processedDiff.RequiresChunking || s.config == nil || s.config.Git.UnifiedContext <= 0 {
		return req
	}

	unified, err := s.gitClient.GetStagedDiffUnified(ctx, s.config.Git.UnifiedContext)
	if err != nil || unified == "" {
		return req
	}

	threshold := s.config.Git.DiffSizeThreshold
	if threshold <= 0 {
		threshold = processor.DefaultDiffSizeThreshold
	}
	if len(unified) > threshold {
		return req
	}

	req.DiffChunks = []git.DiffChunk{{Content: unified}}
	return req
}

// confirmCost estimates the prompt cost and, above the threshold, asks
// the user whether to proceed. A decline is reported as a cancellation.
func (s *CommitService) confirmCost(opts *CommitOptions, req *ai.GenerateRequest) error {
	if s.estimator == nil {
		return nil
	}

	promptText, err := ai.EstimatePromptText(req)
	if err != nil {
		return fmt.Errorf("failed to render prompt for cost estimate: %w", err)
	}

	estimate := s.estimator.Estimate(promptText)
	s.uiManager.ShowCostEstimate(&estimate, s.estimator.Model())

	if !estimate.RequiresConfirmation() || opts.SkipConfirm {
		return nil
	}

	confirmed, err := s.uiManager.PromptConfirm(fmt.Sprintf(
		"Estimated cost $%.4f exceeds $%.2f. Send the diff anyway?", estimate.USD, cost.ConfirmThresholdUSD))
	if err != nil {
		return fmt.Errorf("failed to prompt user: %w", err)
	}
	if !confirmed {
		s.uiManager.ShowSuccess("Aborted - no request was sent")
		return apperrors.New(apperrors.ErrUserCancelled, "cost confirmation declined")
	}

	return nil
}

// generateAndHandleLoop handles the generate → display → action loop with
// bounded regeneration support.
func (s *CommitService) generateAndHandleLoop(
	ctx context.Context,
	opts *CommitOptions,
	req *ai.GenerateRequest,
) error {
	regenerationCount := 0

	for {
		response, err := s.generateCommitMessage(ctx, req)
		if err != nil {
			return err
		}

		if err := s.uiManager.DisplayMessage(response); err != nil {
			return fmt.Errorf("failed to display message: %w", err)
		}

		s.validateAndWarn(response)

		action, err := s.uiManager.PromptAction()
		if err != nil {
			return fmt.Errorf("failed to get user action: %w", err)
		}

		switch action {
		case ui.ActionAccept:
			return s.handleAccept(ctx, opts, response)

		case ui.ActionEdit:
			editedResponse, err := s.uiManager.EditMessage(response)
			if err != nil {
				s.uiManager.ShowError(fmt.Errorf("failed to edit message: %w", err))
				continue
			}
			return s.handleAccept(ctx, opts, editedResponse)

		case ui.ActionRegenerate:
			regenerationCount++
			if regenerationCount >= MaxRegenerationAttempts {
				return apperrors.New(apperrors.ErrUserCancelled,
					fmt.Sprintf("maximum regeneration attempts (%d) reached", MaxRegenerationAttempts))
			}
			req.PreviousAttempt = formatResponseForContext(response)
			continue

		case ui.ActionCancel:
			s.uiManager.ShowSuccess("Commit cancelled - no changes were made")
			return nil
		}
	}
}

// generateCommitMessage makes a single generation call, with the spinner
// scoped to exactly the duration of that call.
func (s *CommitService) generateCommitMessage(ctx context.Context, req *ai.GenerateRequest) (*ai.GenerateResponse, error) {
	spinner := s.uiManager.ShowSpinner("Generating commit message...")
	spinner.Start()
	response, err := s.aiProvider.GenerateCommitMessage(ctx, req)
	spinner.Stop()

	return response, err
}

// validateAndWarn validates the proposed message and surfaces style
// warnings. Warnings never block the commit.
func (s *CommitService) validateAndWarn(response *ai.GenerateResponse) {
	if response == nil {
		return
	}

	rawText := response.RawText
	if rawText == "" {
		rawText = formatCommitMessage(response)
	}

	cm := message.NewCommitMessage(rawText)
	result := cm.ValidateWithWarnings()

	for _, warning := range result.Warnings {
		s.uiManager.ShowError(fmt.Errorf("warning: %s", warning))
	}
}

// handleAccept commits or saves to file based on options.
func (s *CommitService) handleAccept(
	ctx context.Context,
	opts *CommitOptions,
	response *ai.GenerateResponse,
) error {
	commitMsg := formatCommitMessage(response)
	if commitMsg == "" {
		return apperrors.New(apperrors.ErrUserCancelled, "empty commit message, nothing to commit")
	}

	if opts.DryRun {
		if opts.OutputFile != "" {
			return s.writeToFile(opts.OutputFile, commitMsg)
		}
		s.uiManager.ShowSuccess("Dry-run complete - message generated but not committed")
		return nil
	}

	spinner := s.uiManager.ShowSpinner("Committing changes...")
	spinner.Start()

	err := s.gitClient.Commit(ctx, commitMsg)
	spinner.Stop()

	if err != nil {
		return err
	}

	s.uiManager.ShowSuccess("Successfully committed!")
	return nil
}

// formatCommitMessage formats the generation response into the exact
// string handed to git. The message is used verbatim; only surrounding
// whitespace is trimmed.
func formatCommitMessage(response *ai.GenerateResponse) string {
	if response == nil {
		return ""
	}

	if response.Subject != "" {
		var parts []string
		parts = append(parts, response.Subject)

		if response.Body != "" {
			parts = append(parts, "")
			parts = append(parts, response.Body)
		}

		if response.Footer != "" {
			parts = append(parts, "")
			parts = append(parts, response.Footer)
		}

		return strings.Join(parts, "\n")
	}

	return strings.TrimSpace(response.RawText)
}

// formatResponseForContext formats the response for use as previous
// attempt context on regeneration.
func formatResponseForContext(response *ai.GenerateResponse) string {
	if response == nil {
		return ""
	}

	if response.RawText != "" {
		return response.RawText
	}

	return formatCommitMessage(response)
}

// writeToFile writes the commit message to a file.
func (s *CommitService) writeToFile(filePath, content string) error {
	if err := writeFile(filePath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write to file %s: %w", filePath, err)
	}

	s.uiManager.ShowSuccess(fmt.Sprintf("Message written to %s", filePath))
	return nil
}
