package config

import (
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/autocommit/autocommit/internal/pkg/errors"
)

const (
	// APIKeyEnvVar is the environment variable consulted first for the
	// completion API credential.
	APIKeyEnvVar = "OPENAI_API_KEY"

	// CredentialFileName is the well-known dotfile under the user's home
	// directory holding the API key when the environment variable is unset.
	CredentialFileName = ".auto-commit-openai-api-key"
)

// CredentialSource identifies where an API key was resolved from.
type CredentialSource int

const (
	SourceNone CredentialSource = iota
	SourceEnvironment
	SourceCredentialFile
	SourceConfigFile
)

// String returns a human-readable name for the credential source.
func (s CredentialSource) String() string {
	switch s {
	case SourceEnvironment:
		return "environment variable " + APIKeyEnvVar
	case SourceCredentialFile:
		return "credential file ~/" + CredentialFileName
	case SourceConfigFile:
		return "configuration file"
	default:
		return "none"
	}
}

// CredentialFilePath returns the absolute path of the credential dotfile.
func CredentialFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to resolve home directory")
	}
	return filepath.Join(homeDir, CredentialFileName), nil
}

// ResolveAPIKey resolves the completion API key. Precedence:
// environment variable, then the credential dotfile (trimmed of
// surrounding whitespace), then the api_key from the loaded config.
// The returned source is logged by callers as a diagnostic; the key
// value itself must never be logged.
func ResolveAPIKey(cfg *Config) (string, CredentialSource, error) {
	if key := strings.TrimSpace(os.Getenv(APIKeyEnvVar)); key != "" {
		return key, SourceEnvironment, nil
	}

	credPath, err := CredentialFilePath()
	if err != nil {
		return "", SourceNone, err
	}

	if data, err := os.ReadFile(credPath); err == nil {
		if key := strings.TrimSpace(string(data)); key != "" {
			return key, SourceCredentialFile, nil
		}
	}

	if cfg != nil {
		if key := strings.TrimSpace(cfg.Provider.APIKey); key != "" {
			return key, SourceConfigFile, nil
		}
	}

	return "", SourceNone, apperrors.NewMissingAPIKeyError("~/" + CredentialFileName)
}
