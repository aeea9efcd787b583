package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	apperrors "github.com/autocommit/autocommit/internal/pkg/errors"
)

const (
	// DefaultModel is the default completion model.
	DefaultModel = "gpt-4o-mini"

	// DefaultTemperature is the default sampling temperature.
	DefaultTemperature = 0.2

	// DefaultMaxTokens is the default completion token limit.
	DefaultMaxTokens = 500

	// DefaultTimeout bounds a single completion API call.
	DefaultTimeout = 30 * time.Second
)

// OpenAIProvider implements Provider against the OpenAI chat completion API.
// Each process makes at most one generation call per user action; failed
// calls surface an error rather than retrying.
type OpenAIProvider struct {
	client         *openai.Client
	config         ProviderConfig
	promptTemplate *PromptTemplate
}

// NewOpenAIProvider creates a new completion API provider.
func NewOpenAIProvider(config ProviderConfig) (*OpenAIProvider, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Temperature == 0 {
		config.Temperature = DefaultTemperature
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultMaxTokens
	}

	clientConfig := openai.DefaultConfig(config.APIKey)

	// Support custom endpoints (OpenAI-compatible APIs).
	if config.Endpoint != "" {
		clientConfig.BaseURL = config.Endpoint
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}

	return &OpenAIProvider{
		client:         openai.NewClientWithConfig(clientConfig),
		config:         config,
		promptTemplate: NewPromptTemplate(),
	}, nil
}

// validateConfig validates the provider configuration.
func validateConfig(config ProviderConfig) error {
	if config.APIKey == "" {
		return errors.New("API key is required")
	}

	if len(config.APIKey) < 20 {
		return errors.New("API key appears to be invalid (too short)")
	}

	return nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// ValidateConfig validates the provider configuration.
func (p *OpenAIProvider) ValidateConfig(config ProviderConfig) error {
	return validateConfig(config)
}

// GenerateCommitMessage generates a commit message from the staged diff.
// The API is called exactly once; any failure is returned to the caller
// with the HTTP status code and the reason reported by the API.
func (p *OpenAIProvider) GenerateCommitMessage(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if len(req.DiffChunks) == 0 {
		return nil, errors.New("no diff chunks provided")
	}

	promptData := BuildPromptData(req, req.RequiresChunking)

	userPrompt, err := p.promptTemplate.RenderUserPrompt(promptData)
	if err != nil {
		return nil, fmt.Errorf("failed to render prompt: %w", err)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: p.promptTemplate.GetSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	}

	apperrors.LogAPIRequest(p.config.Endpoint, p.config.Model, len(userPrompt))
	startTime := time.Now()

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, wrapAPIError(err)
	}

	responseLen := 0
	if len(resp.Choices) > 0 {
		responseLen = len(resp.Choices[0].Message.Content)
	}
	apperrors.LogAPIResponse(http.StatusOK, responseLen, time.Since(startTime))

	if len(resp.Choices) == 0 {
		return nil, apperrors.New(apperrors.ErrAPIRequestFailed, "completion API returned no choices")
	}

	rawText := resp.Choices[0].Message.Content

	parsed := ParseCommitMessage(rawText)

	return parsed.ToGenerateResponse(rawText), nil
}

// wrapAPIError maps a transport or API error to an AppError carrying the
// HTTP status code and the reason reported by the API.
func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.NewAuthenticationError()
		case http.StatusTooManyRequests:
			return apperrors.NewRateLimitError(apiErr.HTTPStatusCode, apiErr.Message)
		default:
			return apperrors.NewAPIError(apiErr.HTTPStatusCode, apiErr.Message, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return apperrors.NewTimeoutError(err)
		}
		return apperrors.NewNetworkError(err)
	}

	return apperrors.Wrap(err, apperrors.ErrAPIRequestFailed, "completion API request failed")
}

// SetPromptTemplate sets a custom prompt template.
func (p *OpenAIProvider) SetPromptTemplate(pt *PromptTemplate) {
	if pt != nil {
		p.promptTemplate = pt
	}
}
