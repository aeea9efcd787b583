package cost

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicCounter_Count(t *testing.T) {
	counter := HeuristicCounter{}

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty", "", 0},
		{"single char", "a", 1},
		{"exactly four chars", "abcd", 1},
		{"five chars", "abcde", 2},
		{"eight chars", "abcdefgh", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, counter.Count(tt.text))
		})
	}
}

func TestEstimator_Estimate(t *testing.T) {
	est := NewEstimatorWithCounter("gpt-4o-mini", HeuristicCounter{})

	// 4000 chars -> 1000 tokens -> exactly one kilotoken of input price.
	text := strings.Repeat("abcd", 1000)
	e := est.Estimate(text)

	assert.Equal(t, 1000, e.Tokens)
	assert.InDelta(t, InputPricePerKiloToken, e.USD, 1e-12)
}

func TestEstimate_RequiresConfirmation(t *testing.T) {
	tests := []struct {
		name     string
		usd      float64
		expected bool
	}{
		{"zero", 0, false},
		{"below threshold", 0.009, false},
		{"at threshold", ConfirmThresholdUSD, false},
		{"above threshold", 0.0101, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Estimate{USD: tt.usd}
			assert.Equal(t, tt.expected, e.RequiresConfirmation())
		})
	}
}

func TestEstimator_EmptyDiffCostsNothing(t *testing.T) {
	est := NewEstimatorWithCounter("gpt-4o-mini", HeuristicCounter{})
	e := est.Estimate("")

	assert.Equal(t, 0, e.Tokens)
	assert.Equal(t, 0.0, e.USD)
	assert.False(t, e.RequiresConfirmation())
}

func TestEstimator_ThresholdCrossing(t *testing.T) {
	est := NewEstimatorWithCounter("gpt-4o-mini", HeuristicCounter{})

	// 0.01 USD at 0.000150 USD/1K tokens is ~66,667 tokens, i.e. ~266,668
	// heuristic characters. A diff past that must require confirmation.
	small := est.Estimate(strings.Repeat("x", 1024))
	assert.False(t, small.RequiresConfirmation())

	large := est.Estimate(strings.Repeat("x", 300000))
	assert.True(t, large.RequiresConfirmation())
}
