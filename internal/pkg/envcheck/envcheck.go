// Package envcheck verifies the runtime prerequisites for autocommit.
package envcheck

import (
	"context"
	"os/exec"
	"runtime"
	"strings"

	apperrors "github.com/autocommit/autocommit/internal/pkg/errors"
)

// GitBinary is the executable autocommit shells out to.
const GitBinary = "git"

// CheckResult contains the outcome of an environment check.
type CheckResult struct {
	GitFound   bool
	GitPath    string
	GitVersion string
}

// Checker verifies that the environment can run autocommit.
type Checker interface {
	Check(ctx context.Context) (*CheckResult, error)
}

// DefaultChecker implements Checker against the local PATH.
type DefaultChecker struct{}

// NewChecker creates a new environment checker.
func NewChecker() *DefaultChecker {
	return &DefaultChecker{}
}

// Check locates the git binary and reads its version. A missing binary
// is a user error carrying install instructions for the current OS.
func (c *DefaultChecker) Check(ctx context.Context) (*CheckResult, error) {
	gitPath, err := exec.LookPath(GitBinary)
	if err != nil {
		appErr := apperrors.New(apperrors.ErrGitCommandFailed, "git executable not found on PATH")
		appErr.Suggestion = InstallInstructions(runtime.GOOS)
		return &CheckResult{GitFound: false}, appErr
	}

	result := &CheckResult{
		GitFound: true,
		GitPath:  gitPath,
	}

	cmd := exec.CommandContext(ctx, GitBinary, "--version")
	output, err := cmd.Output()
	if err == nil {
		result.GitVersion = strings.TrimSpace(string(output))
	}

	return result, nil
}

// InstallInstructions returns git install guidance for the given OS.
func InstallInstructions(goos string) string {
	switch goos {
	case "darwin":
		return "Install git with 'xcode-select --install' or 'brew install git'"
	case "windows":
		return "Install git from https://git-scm.com/download/win or with 'winget install Git.Git'"
	default:
		return "Install git with your package manager, e.g. 'apt install git' or 'dnf install git'"
	}
}
