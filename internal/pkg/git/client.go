// Package git provides Git operations for autocommit.
package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/autocommit/autocommit/internal/pkg/errors"
	"github.com/google/uuid"
)

const (
	// GitCommandTimeout is the default timeout for git commands.
	GitCommandTimeout = 10 * time.Second

	// DefaultUnifiedContext is the context window used by the
	// unified-context diff variant.
	DefaultUnifiedContext = 10
)

// ChangeType represents the type of change in a diff.
type ChangeType int

const (
	ChangeTypeAdded ChangeType = iota
	ChangeTypeModified
	ChangeTypeDeleted
	ChangeTypeRenamed
)

// String returns the string representation of ChangeType.
func (c ChangeType) String() string {
	switch c {
	case ChangeTypeAdded:
		return "added"
	case ChangeTypeModified:
		return "modified"
	case ChangeTypeDeleted:
		return "deleted"
	case ChangeTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// DiffChunk represents a segment of git diff output.
type DiffChunk struct {
	FilePath   string
	ChangeType ChangeType
	Additions  int
	Deletions  int
	Content    string
	IsLockFile bool
	IsBinary   bool
	OldPath    string // For renames, the original file path
}

// DiffStats contains statistics about the diff.
type DiffStats struct {
	TotalFiles     int
	TotalAdditions int
	TotalDeletions int
	Chunks         []DiffChunk
}

// Client defines the interface for Git operations.
type Client interface {
	IsRepository(ctx context.Context) bool
	HasStagedChanges(ctx context.Context) (bool, error)
	HasUnstagedChanges(ctx context.Context) (bool, error)
	AddAll(ctx context.Context) error
	GetStagedDiff(ctx context.Context) ([]DiffChunk, error)
	GetStagedDiffUnified(ctx context.Context, contextLines int) (string, error)
	GetDiffStats(ctx context.Context) (*DiffStats, error)
	Commit(ctx context.Context, message string) error
}

// DefaultClient implements the Client interface using exec.CommandContext.
// All git invocations pass arguments as argv elements, never through a shell,
// so commit messages and paths cannot be reinterpreted as shell syntax.
type DefaultClient struct {
	// workDir is the working directory for git commands.
	// If empty, uses the current directory.
	workDir string
}

// NewClient creates a new DefaultClient.
func NewClient() *DefaultClient {
	return &DefaultClient{}
}

// NewClientWithWorkDir creates a new DefaultClient with a specific working directory.
func NewClientWithWorkDir(workDir string) *DefaultClient {
	return &DefaultClient{workDir: workDir}
}

// lockFilePatterns contains patterns for lock files that should be excluded.
var lockFilePatterns = []string{
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"go.sum",
	"Cargo.lock",
	"Gemfile.lock",
	"composer.lock",
	"poetry.lock",
	"Pipfile.lock",
}

// isLockFile checks if a file path matches any lock file pattern.
func isLockFile(filePath string) bool {
	baseName := filepath.Base(filePath)
	for _, pattern := range lockFilePatterns {
		if baseName == pattern {
			return true
		}
	}
	if strings.HasSuffix(baseName, ".lock") {
		return true
	}
	return false
}

// IsRepository reports whether the working directory is inside a git working
// tree. The probe's own error output is intentionally discarded; any failure
// is treated as "not a repository".
func (c *DefaultClient) IsRepository(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}
	cmd.Stderr = nil

	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(output)) == "true"
}

// HasStagedChanges checks if there are any staged changes in the repository.
func (c *DefaultClient) HasStagedChanges(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "diff", "--cached", "--quiet")
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return false, apperrors.NewTimeoutError(ctx.Err())
		}
		// Exit code 1 means there are differences (staged changes exist)
		if exitErr, ok := err.(*exec.ExitError); ok {
			if exitErr.ExitCode() == 1 {
				return true, nil
			}
		}
		return false, apperrors.NewGitError(err, "")
	}
	// Exit code 0 means no differences (no staged changes)
	return false, nil
}

// HasUnstagedChanges checks if there are any unstaged changes (modified/untracked files).
func (c *DefaultClient) HasUnstagedChanges(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "status", "--porcelain")
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return false, apperrors.NewTimeoutError(ctx.Err())
		}
		return false, apperrors.NewGitError(err, "")
	}

	return len(strings.TrimSpace(string(output))) > 0, nil
}

// AddAll stages all changes (git add .).
func (c *DefaultClient) AddAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "add", ".")
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return apperrors.NewTimeoutError(ctx.Err())
		}
		return apperrors.NewGitError(err, string(output))
	}
	return nil
}

// GetStagedDiff retrieves all staged changes as DiffChunks.
func (c *DefaultClient) GetStagedDiff(ctx context.Context) ([]DiffChunk, error) {
	hasChanges, err := c.HasStagedChanges(ctx)
	if err != nil {
		return nil, err
	}
	if !hasChanges {
		return nil, apperrors.NewNoStagedChangesError()
	}

	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	diffCmd := exec.CommandContext(ctx, "git", "diff", "--cached")
	if c.workDir != "" {
		diffCmd.Dir = c.workDir
	}

	diffOutput, err := diffCmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewTimeoutError(ctx.Err())
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, apperrors.NewDiffRetrievalError(err, string(exitErr.Stderr))
		}
		return nil, apperrors.NewDiffRetrievalError(err, "")
	}

	// Get numstat for additions/deletions count
	numstatCmd := exec.CommandContext(ctx, "git", "diff", "--cached", "--numstat")
	if c.workDir != "" {
		numstatCmd.Dir = c.workDir
	}

	numstatOutput, err := numstatCmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewTimeoutError(ctx.Err())
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, apperrors.NewDiffRetrievalError(err, string(exitErr.Stderr))
		}
		return nil, apperrors.NewDiffRetrievalError(err, "")
	}

	fileStats := parseNumstat(numstatOutput)
	chunks := parseDiff(diffOutput, fileStats)

	return chunks, nil
}

// GetStagedDiffUnified retrieves the staged diff with an extended context
// window, routed through a uniquely named temporary file to sidestep pipe
// buffer limits on very large diffs. The file is removed on every exit path.
func (c *DefaultClient) GetStagedDiffUnified(ctx context.Context, contextLines int) (string, error) {
	if contextLines <= 0 {
		contextLines = DefaultUnifiedContext
	}

	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("autocommit-diff-%s.patch", uuid.New().String()))
	defer os.Remove(tmpPath)

	cmd := exec.CommandContext(ctx, "git", "diff", "--cached",
		fmt.Sprintf("-U%d", contextLines),
		fmt.Sprintf("--output=%s", tmpPath))
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", apperrors.NewTimeoutError(ctx.Err())
		}
		return "", apperrors.NewDiffRetrievalError(err, string(output))
	}

	content, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to read diff file")
	}

	return string(content), nil
}

// GetDiffStats retrieves statistics about staged changes.
func (c *DefaultClient) GetDiffStats(ctx context.Context) (*DiffStats, error) {
	chunks, err := c.GetStagedDiff(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DiffStats{
		TotalFiles: len(chunks),
		Chunks:     chunks,
	}

	for _, chunk := range chunks {
		stats.TotalAdditions += chunk.Additions
		stats.TotalDeletions += chunk.Deletions
	}

	return stats, nil
}

// Commit executes a git commit with the given message.
// The message is passed as a single argument; no quoting or escaping is
// needed because the command never goes through a shell.
func (c *DefaultClient) Commit(ctx context.Context, message string) error {
	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "commit", "-m", message)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return apperrors.NewTimeoutError(ctx.Err())
		}
		return apperrors.NewGitError(err, string(output))
	}
	return nil
}

// fileStat holds statistics for a single file from numstat.
type fileStat struct {
	additions int
	deletions int
	isBinary  bool
}

// parseNumstat parses the output of git diff --numstat.
// Format: additions<TAB>deletions<TAB>filepath
// Binary files show as: -<TAB>-<TAB>filepath
func parseNumstat(output []byte) map[string]fileStat {
	stats := make(map[string]fileStat)
	scanner := bufio.NewScanner(bytes.NewReader(output))

	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.Split(line, "\t")
		if len(parts) < 3 {
			continue
		}

		addStr, delStr, filePath := parts[0], parts[1], parts[2]

		// Handle renamed files: old path => new path
		if strings.Contains(filePath, " => ") {
			filePath = extractNewPath(filePath)
		}

		stat := fileStat{}
		if addStr == "-" && delStr == "-" {
			stat.isBinary = true
		} else {
			stat.additions, _ = strconv.Atoi(addStr)
			stat.deletions, _ = strconv.Atoi(delStr)
		}

		stats[filePath] = stat
	}

	return stats
}

// extractNewPath extracts the new file path from git rename notation.
// Examples:
//   - "old.txt => new.txt" -> "new.txt"
//   - "{old => new}/file.txt" -> "new/file.txt"
//   - "dir/{old.txt => new.txt}" -> "dir/new.txt"
func extractNewPath(renamePath string) string {
	if strings.Contains(renamePath, " => ") && !strings.Contains(renamePath, "{") {
		parts := strings.Split(renamePath, " => ")
		if len(parts) == 2 {
			return strings.TrimSpace(parts[1])
		}
	}

	re := regexp.MustCompile(`\{([^}]*) => ([^}]*)\}`)
	result := re.ReplaceAllString(renamePath, "$2")
	return result
}

// parseDiff parses the full diff output into DiffChunks.
func parseDiff(diffOutput []byte, fileStats map[string]fileStat) []DiffChunk {
	var chunks []DiffChunk

	diffStr := string(diffOutput)
	fileDiffs := splitByFileDiff(diffStr)

	for _, fileDiff := range fileDiffs {
		if fileDiff == "" {
			continue
		}

		chunk := parseFileDiff(fileDiff, fileStats)
		if chunk != nil {
			chunks = append(chunks, *chunk)
		}
	}

	return chunks
}

// splitByFileDiff splits the diff output by file boundaries.
func splitByFileDiff(diffStr string) []string {
	// Split on "diff --git" but keep the delimiter
	parts := strings.Split(diffStr, "diff --git ")
	var result []string
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i > 0 {
			part = "diff --git " + part
		}
		result = append(result, part)
	}
	return result
}

// parseFileDiff parses a single file's diff into a DiffChunk.
func parseFileDiff(fileDiff string, fileStats map[string]fileStat) *DiffChunk {
	lines := strings.Split(fileDiff, "\n")
	if len(lines) == 0 {
		return nil
	}

	chunk := &DiffChunk{
		Content: fileDiff,
	}

	for _, line := range lines {
		if strings.HasPrefix(line, "diff --git ") {
			chunk.FilePath = extractFilePath(line)
			chunk.ChangeType = ChangeTypeModified // Default
		}

		if strings.HasPrefix(line, "new file mode") {
			chunk.ChangeType = ChangeTypeAdded
		}

		if strings.HasPrefix(line, "deleted file mode") {
			chunk.ChangeType = ChangeTypeDeleted
		}

		if strings.HasPrefix(line, "rename from ") {
			chunk.OldPath = strings.TrimPrefix(line, "rename from ")
			chunk.ChangeType = ChangeTypeRenamed
		}
		if strings.HasPrefix(line, "rename to ") {
			chunk.FilePath = strings.TrimPrefix(line, "rename to ")
		}

		if strings.HasPrefix(line, "Binary files") {
			chunk.IsBinary = true
		}
	}

	if stat, ok := fileStats[chunk.FilePath]; ok {
		chunk.Additions = stat.additions
		chunk.Deletions = stat.deletions
		chunk.IsBinary = stat.isBinary
	}

	chunk.IsLockFile = isLockFile(chunk.FilePath)

	return chunk
}

// extractFilePath extracts the file path from a diff header line.
// Format: "diff --git a/path/to/file b/path/to/file"
func extractFilePath(line string) string {
	line = strings.TrimPrefix(line, "diff --git ")

	parts := strings.Split(line, " b/")
	if len(parts) >= 2 {
		return parts[1]
	}

	if strings.HasPrefix(line, "a/") {
		parts = strings.SplitN(line, " ", 2)
		if len(parts) > 0 {
			return strings.TrimPrefix(parts[0], "a/")
		}
	}

	return line
}
