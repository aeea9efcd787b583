// Package ai generates commit messages from staged diffs via the
// OpenAI chat completion API.
package ai

import (
	"context"

	"github.com/autocommit/autocommit/internal/pkg/git"
)

// GenerateRequest contains the data needed to generate a commit message.
// RequiresChunking mirrors the processor's decision: when set, the prompt
// carries per-file summaries instead of full diff content. Providers must
// not re-derive it from chunk sizes; the chunks may hold a single unified
// diff with no per-file metadata.
type GenerateRequest struct {
	DiffChunks       []git.DiffChunk
	DiffStats        *git.DiffStats
	CustomPrompt     string
	PreviousAttempt  string
	RequiresChunking bool
}

// GenerateResponse contains the generated commit message.
type GenerateResponse struct {
	Subject string
	Body    string
	Footer  string
	RawText string
}

// ProviderConfig contains configuration for the completion API client.
type ProviderConfig struct {
	APIKey      string
	Model       string
	Endpoint    string
	Temperature float32
	MaxTokens   int
}

// Provider defines the interface for commit message generation.
type Provider interface {
	GenerateCommitMessage(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
	Name() string
	ValidateConfig(config ProviderConfig) error
}
