package processor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autocommit/autocommit/internal/pkg/git"
)

func TestProcess_FiltersLockFiles(t *testing.T) {
	p := NewProcessor()

	chunks := []git.DiffChunk{
		{FilePath: "main.go", Content: "diff content"},
		{FilePath: "package-lock.json", Content: strings.Repeat("x", 5000), IsLockFile: true},
		{FilePath: "go.sum", Content: "sums", IsLockFile: true},
	}

	result, err := p.Process(context.Background(), chunks)
	require.NoError(t, err)

	require.Len(t, result.Chunks, 1)
	assert.Equal(t, "main.go", result.Chunks[0].FilePath)
	assert.Equal(t, len("diff content"), result.TotalSize, "lock file content excluded from size")
}

func TestProcess_SmallDiffPassedThrough(t *testing.T) {
	p := NewProcessor()

	chunks := []git.DiffChunk{{FilePath: "a.go", Content: "small diff"}}

	result, err := p.Process(context.Background(), chunks)
	require.NoError(t, err)

	assert.False(t, result.RequiresChunking)
	assert.Empty(t, result.Summary)
	assert.Equal(t, "small diff", result.Chunks[0].Content)
}

func TestProcess_LargeDiffRequiresChunking(t *testing.T) {
	p := NewProcessorWithConfig(ProcessorConfig{DiffSizeThreshold: 100, MaxFileSize: 1000})

	chunks := []git.DiffChunk{
		{FilePath: "a.go", ChangeType: git.ChangeTypeModified, Additions: 10, Content: strings.Repeat("x", 200)},
	}

	result, err := p.Process(context.Background(), chunks)
	require.NoError(t, err)

	assert.True(t, result.RequiresChunking)
	assert.Contains(t, result.Summary, "a.go")
	assert.Contains(t, result.Summary, "Total: 1 files")
}

func TestProcess_OversizedFileContentReplaced(t *testing.T) {
	p := NewProcessorWithConfig(ProcessorConfig{DiffSizeThreshold: 100, MaxFileSize: 150})

	chunks := []git.DiffChunk{
		{FilePath: "big.go", ChangeType: git.ChangeTypeAdded, Additions: 999, Content: strings.Repeat("x", 500)},
	}

	result, err := p.Process(context.Background(), chunks)
	require.NoError(t, err)

	require.Len(t, result.Chunks, 1)
	assert.Contains(t, result.Chunks[0].Content, "File: big.go")
	assert.Contains(t, result.Chunks[0].Content, "showing statistics only")
	assert.NotContains(t, result.Chunks[0].Content, strings.Repeat("x", 50))
}

func TestProcess_EmptyInput(t *testing.T) {
	p := NewProcessor()

	result, err := p.Process(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, result.Chunks)
	assert.Zero(t, result.TotalSize)
	assert.False(t, result.RequiresChunking)
}

func TestNewProcessorWithConfig_ZeroValuesGetDefaults(t *testing.T) {
	p := NewProcessorWithConfig(ProcessorConfig{})

	assert.Equal(t, DefaultDiffSizeThreshold, p.config.DiffSizeThreshold)
	assert.Equal(t, DefaultMaxFileSize, p.config.MaxFileSize)
}

func TestGenerateSummary_RenamedFile(t *testing.T) {
	p := NewProcessor()

	summary := p.generateSummary([]git.DiffChunk{
		{FilePath: "new.go", OldPath: "old.go", ChangeType: git.ChangeTypeRenamed, Additions: 1, Deletions: 1},
	})

	assert.Contains(t, summary, "[R] new.go")
	assert.Contains(t, summary, "renamed from old.go")
}
