// Package cost estimates the monetary cost of sending a diff to the
// completion API before any network call is made.
package cost

import (
	"github.com/pkoukk/tiktoken-go"

	apperrors "github.com/autocommit/autocommit/internal/pkg/errors"
)

const (
	// InputPricePerKiloToken is the fixed input-only price in USD per
	// 1,000 prompt tokens.
	InputPricePerKiloToken = 0.000150

	// ConfirmThresholdUSD is the estimated cost above which the run must
	// pause for explicit user confirmation.
	ConfirmThresholdUSD = 0.01

	// fallbackEncoding is used when the model has no registered encoding.
	fallbackEncoding = "cl100k_base"

	// heuristicCharsPerToken approximates tokenization when no encoding
	// can be loaded (e.g. offline).
	heuristicCharsPerToken = 4
)

// TokenCounter counts the tokens of a text for a particular model family.
type TokenCounter interface {
	Count(text string) int
}

// tiktokenCounter counts tokens using a real BPE encoding.
type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// Count returns the number of tokens the encoding produces for text.
func (c *tiktokenCounter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// HeuristicCounter approximates token counts as ceil(len/4). It is used
// when the model's BPE tables cannot be loaded, and keeps the estimator's
// monotonicity guarantee: longer input never counts fewer tokens.
type HeuristicCounter struct{}

// Count returns the approximate token count for text.
func (HeuristicCounter) Count(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + heuristicCharsPerToken - 1) / heuristicCharsPerToken
}

// Estimate is the result of pricing a piece of input text.
type Estimate struct {
	Tokens int
	USD    float64
}

// RequiresConfirmation reports whether the estimate is expensive enough
// that the user must confirm before the API call is issued.
func (e Estimate) RequiresConfirmation() bool {
	return e.USD > ConfirmThresholdUSD
}

// Estimator computes token counts and input cost for a target model.
type Estimator struct {
	model   string
	counter TokenCounter
}

// NewEstimator creates an Estimator for the given model. It prefers the
// model's own tokenizer, falls back to the cl100k_base encoding for models
// without a registered mapping, and finally to the chars/4 heuristic when
// no encoding can be loaded at all.
func NewEstimator(model string) *Estimator {
	if enc, err := tiktoken.EncodingForModel(model); err == nil {
		return &Estimator{model: model, counter: &tiktokenCounter{encoding: enc}}
	}

	if enc, err := tiktoken.GetEncoding(fallbackEncoding); err == nil {
		apperrors.Debug("no tokenizer registered for model %s, using %s", model, fallbackEncoding)
		return &Estimator{model: model, counter: &tiktokenCounter{encoding: enc}}
	}

	apperrors.Warn("tokenizer unavailable for model %s, falling back to character heuristic", model)
	return &Estimator{model: model, counter: HeuristicCounter{}}
}

// NewEstimatorWithCounter creates an Estimator with an explicit counter.
func NewEstimatorWithCounter(model string, counter TokenCounter) *Estimator {
	return &Estimator{model: model, counter: counter}
}

// Model returns the model the estimator prices against.
func (e *Estimator) Model() string {
	return e.model
}

// Estimate tokenizes the text and converts the count to an input cost.
func (e *Estimator) Estimate(text string) Estimate {
	tokens := e.counter.Count(text)
	usd := float64(tokens) / 1000.0 * InputPricePerKiloToken

	apperrors.LogCostEstimate(e.model, tokens, usd)

	return Estimate{
		Tokens: tokens,
		USD:    usd,
	}
}
