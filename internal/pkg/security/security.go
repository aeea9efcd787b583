// Package security provides secret-handling utilities for autocommit.
package security

import (
	"fmt"
	"regexp"
	"strings"
)

// apiKeyFormat is the expected shape of an OpenAI API key.
var apiKeyFormat = regexp.MustCompile(`^sk-[a-zA-Z0-9_-]{20,}$`)

// MaskAPIKey masks an API key, showing only the last 4 characters.
// This should be used when logging or displaying API keys.
func MaskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// ValidateAPIKeyFormat validates the format of an OpenAI API key.
// Returns nil if the key format is plausible, or an error describing the issue.
func ValidateAPIKeyFormat(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("API key is required")
	}

	if len(apiKey) < 20 {
		return fmt.Errorf("API key appears to be invalid (too short)")
	}

	if !apiKeyFormat.MatchString(apiKey) {
		return fmt.Errorf("API key format appears invalid (expected format: sk-...)")
	}

	return nil
}

// SanitizeForLogging sanitizes a string for safe logging by masking potential secrets.
// It looks for common patterns like API keys, passwords, and tokens.
func SanitizeForLogging(s string) string {
	patterns := []struct {
		regex       *regexp.Regexp
		replacement string
	}{
		// API keys (sk-...)
		{regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`), "sk-****"},
		// Bearer tokens
		{regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`), "Bearer ****"},
		// Generic API key patterns
		{regexp.MustCompile(`(?i)(api[_-]?key|apikey|api_secret|secret[_-]?key)\s*[:=]\s*["']?[a-zA-Z0-9._-]+["']?`), "$1=****"},
		// Password patterns
		{regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*["']?[^\s"']+["']?`), "$1=****"},
	}

	result := s
	for _, p := range patterns {
		result = p.regex.ReplaceAllString(result, p.replacement)
	}

	return result
}

// FirstUseWarning is displayed the first time autocommit is about to send
// repository contents to the remote completion API.
const FirstUseWarning = `
+----------------------------------------------------------------------+
|                          Privacy Notice                              |
+----------------------------------------------------------------------+

autocommit sends your staged diff to a remote completion API to
generate a commit message. Your code changes leave this machine.

Do not use autocommit in repositories containing secrets, credentials,
or code you are not permitted to share with a third-party service.
`

// FirstUseAcknowledgment is printed after the user accepts the warning.
const FirstUseAcknowledgment = "Privacy notice acknowledged. This warning will not be shown again."
