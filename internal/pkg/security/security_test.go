package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{"empty", "", "****"},
		{"short", "sk-1", "****"},
		{"normal", "sk-abcdefgh1234", strings.Repeat("*", 10) + "1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskAPIKey(tt.key))
		})
	}
}

func TestValidateAPIKeyFormat(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"empty", "", true},
		{"too short", "sk-abc", true},
		{"no prefix", "abcdefghijklmnopqrstuvwxyz1234", true},
		{"valid", "sk-abcdefghijklmnopqrstuvwxyz1234", false},
		{"valid project key", "sk-proj-abcdefghijklmnopqrstuvwxyz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAPIKeyFormat(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeForLogging(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
		excludes string
	}{
		{
			name:     "openai key",
			input:    "using key sk-abcdefghijklmnopqrstuvwxyz",
			contains: "sk-****",
			excludes: "sk-abcdefghijklmnopqrstuvwxyz",
		},
		{
			name:     "bearer token",
			input:    "Authorization: Bearer abc.def.ghi",
			contains: "Bearer ****",
			excludes: "abc.def.ghi",
		},
		{
			name:     "password assignment",
			input:    "password=hunter2",
			contains: "password=****",
			excludes: "hunter2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeForLogging(tt.input)
			assert.Contains(t, got, tt.contains)
			assert.NotContains(t, got, tt.excludes)
		})
	}
}
