package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorCode_ExitCode(t *testing.T) {
	tests := []struct {
		name     string
		code     ErrorCode
		expected int
	}{
		{"NotARepository", ErrNotARepository, 1},
		{"NoStagedChanges", ErrNoStagedChanges, 1},
		{"MissingAPIKey", ErrMissingAPIKey, 1},
		{"InvalidConfig", ErrInvalidConfig, 1},
		{"GitCommandFailed", ErrGitCommandFailed, 2},
		{"FileSystemError", ErrFileSystemError, 2},
		{"APIRequestFailed", ErrAPIRequestFailed, 3},
		{"NetworkError", ErrNetworkError, 3},
		{"RateLimited", ErrRateLimited, 3},
		{"Timeout", ErrTimeout, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.code.ExitCode(); got != tt.expected {
				t.Errorf("ExitCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name: "without cause",
			err: &AppError{
				Code:    ErrNoStagedChanges,
				Message: "no staged changes",
			},
			expected: "no staged changes",
		},
		{
			name: "with cause",
			err: &AppError{
				Code:    ErrGitCommandFailed,
				Message: "git command failed",
				Cause:   errors.New("exit status 1"),
			},
			expected: "git command failed: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrGitCommandFailed, "wrapped")

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestNewAPIError_ContainsStatusAndReason(t *testing.T) {
	err := NewAPIError(429, "Too Many Requests", nil)

	if !strings.Contains(err.Message, "429") {
		t.Errorf("expected message to contain status code, got %q", err.Message)
	}
	if !strings.Contains(err.Message, "Too Many Requests") {
		t.Errorf("expected message to contain reason phrase, got %q", err.Message)
	}
	if err.Code.ExitCode() != 3 {
		t.Errorf("expected external error exit code 3, got %d", err.Code.ExitCode())
	}
}

func TestNewMissingAPIKeyError_HasRemediation(t *testing.T) {
	err := NewMissingAPIKeyError("~/.auto-commit-openai-api-key")

	if !strings.Contains(err.Suggestion, "OPENAI_API_KEY") {
		t.Errorf("expected suggestion to name the environment variable, got %q", err.Suggestion)
	}
	if !strings.Contains(err.Suggestion, ".auto-commit-openai-api-key") {
		t.Errorf("expected suggestion to name the credential file, got %q", err.Suggestion)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"app error user", NewNoStagedChangesError(), 1},
		{"app error external", NewAPIError(500, "Internal Server Error", nil), 3},
		{"plain error", errors.New("something"), 1},
		{"wrapped app error", Wrap(NewGitError(errors.New("boom"), ""), ErrGitCommandFailed, "outer"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	msg := "request failed for key sk-abcdefghijklmnopqrstuvwxyz123456"
	sanitized := SanitizeErrorMessage(msg)

	if strings.Contains(sanitized, "sk-abcdefghijklmnopqrstuvwxyz") {
		t.Errorf("expected API key to be masked, got %q", sanitized)
	}
	if !strings.HasSuffix(sanitized, "3456") {
		t.Errorf("expected last 4 characters to survive masking, got %q", sanitized)
	}
}

func TestFormatError_IncludesSuggestion(t *testing.T) {
	err := NewNotARepositoryError()
	formatted := FormatError(err)

	if !strings.Contains(formatted, "not a git repository") {
		t.Errorf("expected formatted error to include message, got %q", formatted)
	}
	if !strings.Contains(formatted, "Suggestion:") {
		t.Errorf("expected formatted error to include suggestion, got %q", formatted)
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{"short key", "abc", "****"},
		{"normal key", "sk-test1234", "*******1234"},
		{"empty key", "", "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskAPIKey(tt.key); got != tt.expected {
				t.Errorf("MaskAPIKey() = %q, want %q", got, tt.expected)
			}
		})
	}
}
