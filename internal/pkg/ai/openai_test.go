package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/autocommit/autocommit/internal/pkg/errors"
	"github.com/autocommit/autocommit/internal/pkg/git"
)

const testAPIKey = "sk-test-key-that-is-long-enough-for-validation"

func TestNewOpenAIProvider_ValidConfig(t *testing.T) {
	provider, err := NewOpenAIProvider(ProviderConfig{APIKey: testAPIKey})
	require.NoError(t, err)
	require.NotNil(t, provider)
	assert.Equal(t, "openai", provider.Name())
}

func TestNewOpenAIProvider_MissingAPIKey(t *testing.T) {
	_, err := NewOpenAIProvider(ProviderConfig{})
	assert.Error(t, err)
}

func TestNewOpenAIProvider_ShortAPIKey(t *testing.T) {
	_, err := NewOpenAIProvider(ProviderConfig{APIKey: "short"})
	assert.Error(t, err)
}

func TestNewOpenAIProvider_Defaults(t *testing.T) {
	provider, err := NewOpenAIProvider(ProviderConfig{APIKey: testAPIKey})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, provider.config.Model)
	assert.Equal(t, float32(DefaultTemperature), provider.config.Temperature)
	assert.Equal(t, DefaultMaxTokens, provider.config.MaxTokens)
}

func TestNewOpenAIProvider_CustomValues(t *testing.T) {
	provider, err := NewOpenAIProvider(ProviderConfig{
		APIKey:      testAPIKey,
		Model:       "gpt-4o",
		Temperature: 0.5,
		MaxTokens:   1000,
		Endpoint:    "https://example.invalid/v1",
	})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", provider.config.Model)
	assert.Equal(t, float32(0.5), provider.config.Temperature)
	assert.Equal(t, 1000, provider.config.MaxTokens)
	assert.Equal(t, "https://example.invalid/v1", provider.config.Endpoint)
}

// newTestProvider wires the provider against a stub completion API server.
func newTestProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewOpenAIProvider(ProviderConfig{
		APIKey:   testAPIKey,
		Endpoint: server.URL + "/v1",
	})
	require.NoError(t, err)
	return provider
}

func singleChunkRequest() *GenerateRequest {
	return &GenerateRequest{
		DiffChunks: []git.DiffChunk{
			{FilePath: "parser.go", ChangeType: git.ChangeTypeModified, Content: "diff --git a/parser.go b/parser.go\n+fix"},
		},
		DiffStats: &git.DiffStats{TotalFiles: 1, TotalAdditions: 1},
	}
}

func TestGenerateCommitMessage_Success(t *testing.T) {
	var requestCount int
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "cmpl-test",
			"object": "chat.completion",
			"choices": []map[string]interface{}{
				{
					"index": 0,
					"message": map[string]string{
						"role":    "assistant",
						"content": "fix(parser): handle empty input\n",
					},
					"finish_reason": "stop",
				},
			},
		})
	})

	resp, err := provider.GenerateCommitMessage(context.Background(), singleChunkRequest())
	require.NoError(t, err)

	assert.Equal(t, "fix(parser): handle empty input", resp.Subject)
	assert.Empty(t, resp.Body)
	assert.Equal(t, 1, requestCount, "exactly one API call per generation")
}

func TestGenerateCommitMessage_RateLimited(t *testing.T) {
	var requestCount int
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"message": "Too Many Requests",
				"type":    "rate_limit_exceeded",
			},
		})
	})

	_, err := provider.GenerateCommitMessage(context.Background(), singleChunkRequest())
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrRateLimited, appErr.Code)
	assert.Contains(t, appErr.Error(), "429")
	assert.Contains(t, appErr.Error(), "Too Many Requests")
	assert.Equal(t, 1, requestCount, "failures are not retried")
}

func TestGenerateCommitMessage_Unauthorized(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"message": "Incorrect API key provided",
				"type":    "invalid_request_error",
			},
		})
	})

	_, err := provider.GenerateCommitMessage(context.Background(), singleChunkRequest())
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrAuthenticationFailed, appErr.Code)
	assert.Equal(t, 3, appErr.Code.ExitCode())
}

func TestGenerateCommitMessage_ServerError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"message": "The server had an error",
				"type":    "server_error",
			},
		})
	})

	_, err := provider.GenerateCommitMessage(context.Background(), singleChunkRequest())
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrAPIRequestFailed, appErr.Code)
	assert.Contains(t, appErr.Error(), "500")
}

// capturedUserPrompt returns a handler that records the user message of
// each chat completion request before answering with a fixed message.
func capturedUserPrompt(t *testing.T, captured *string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		for _, msg := range body.Messages {
			if msg.Role == "user" {
				*captured = msg.Content
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "cmpl-test",
			"object": "chat.completion",
			"choices": []map[string]interface{}{
				{
					"index": 0,
					"message": map[string]string{
						"role":    "assistant",
						"content": "fix(parser): handle empty input",
					},
					"finish_reason": "stop",
				},
			},
		})
	}
}

func TestGenerateCommitMessage_LargeUnifiedDiffSentVerbatim(t *testing.T) {
	// A unified diff carries no per-file metadata; even when it is large,
	// the prompt must embed its text rather than degrade into a summary
	// of anonymous zero-count chunks.
	marker := "+func handleEmptyInput(s string) error {"
	unified := "diff --git a/parser.go b/parser.go\n" + marker + "\n" +
		strings.Repeat("+\tcontext line padding for a large diff\n", 400)
	require.Greater(t, len(unified), 10*1024)

	var userPrompt string
	provider := newTestProvider(t, capturedUserPrompt(t, &userPrompt))

	resp, err := provider.GenerateCommitMessage(context.Background(), &GenerateRequest{
		DiffChunks: []git.DiffChunk{{Content: unified}},
		DiffStats:  &git.DiffStats{TotalFiles: 1, TotalAdditions: 401},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Contains(t, userPrompt, marker)
	assert.NotContains(t, userPrompt, "Summary of changes")
}

func TestGenerateCommitMessage_ChunkedRequestSendsSummaries(t *testing.T) {
	var userPrompt string
	provider := newTestProvider(t, capturedUserPrompt(t, &userPrompt))

	_, err := provider.GenerateCommitMessage(context.Background(), &GenerateRequest{
		DiffChunks: []git.DiffChunk{
			{FilePath: "parser.go", ChangeType: git.ChangeTypeModified, Additions: 3, Deletions: 1,
				Content: "diff --git a/parser.go b/parser.go\n+raw content"},
		},
		DiffStats:        &git.DiffStats{TotalFiles: 1, TotalAdditions: 3, TotalDeletions: 1},
		RequiresChunking: true,
	})
	require.NoError(t, err)

	assert.Contains(t, userPrompt, "Summary of changes")
	assert.Contains(t, userPrompt, "parser.go")
	assert.NotContains(t, userPrompt, "+raw content")
}

func TestGenerateCommitMessage_EmptyRequest(t *testing.T) {
	provider, err := NewOpenAIProvider(ProviderConfig{APIKey: testAPIKey})
	require.NoError(t, err)

	_, err = provider.GenerateCommitMessage(context.Background(), nil)
	assert.Error(t, err)

	_, err = provider.GenerateCommitMessage(context.Background(), &GenerateRequest{})
	assert.Error(t, err)
}

func TestWrapAPIError_ContextDeadline(t *testing.T) {
	err := wrapAPIError(context.DeadlineExceeded)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrTimeout, appErr.Code)
}
