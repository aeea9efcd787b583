// Package processor prepares staged diff chunks for prompt construction.
package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/autocommit/autocommit/internal/pkg/git"
)

// Default thresholds for diff processing.
const (
	DefaultDiffSizeThreshold = 10 * 1024  // 10KB - triggers summarization
	DefaultMaxFileSize       = 100 * 1024 // 100KB - per-file content cap
)

// ProcessedDiff contains the result of diff processing.
type ProcessedDiff struct {
	Chunks           []git.DiffChunk
	Summary          string
	TotalSize        int
	RequiresChunking bool
}

// DiffProcessor defines the interface for diff processing.
type DiffProcessor interface {
	Process(ctx context.Context, chunks []git.DiffChunk) (*ProcessedDiff, error)
}

// ProcessorConfig holds configuration for the diff processor.
type ProcessorConfig struct {
	DiffSizeThreshold int // Size in bytes that triggers summarization
	MaxFileSize       int // Per-file content size cap in bytes
}

// DefaultProcessor implements the DiffProcessor interface.
type DefaultProcessor struct {
	config ProcessorConfig
}

// NewProcessor creates a new DefaultProcessor with default configuration.
func NewProcessor() *DefaultProcessor {
	return &DefaultProcessor{
		config: ProcessorConfig{
			DiffSizeThreshold: DefaultDiffSizeThreshold,
			MaxFileSize:       DefaultMaxFileSize,
		},
	}
}

// NewProcessorWithConfig creates a new DefaultProcessor with custom configuration.
func NewProcessorWithConfig(config ProcessorConfig) *DefaultProcessor {
	if config.DiffSizeThreshold <= 0 {
		config.DiffSizeThreshold = DefaultDiffSizeThreshold
	}
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = DefaultMaxFileSize
	}
	return &DefaultProcessor{config: config}
}

// Process filters lock files out of the staged diff, measures the
// remainder, and when the diff exceeds the size threshold replaces
// oversized file contents with per-file statistics.
func (p *DefaultProcessor) Process(ctx context.Context, chunks []git.DiffChunk) (*ProcessedDiff, error) {
	filteredChunks := p.filterLockFiles(chunks)

	totalSize := p.calculateTotalSize(filteredChunks)

	requiresChunking := totalSize > p.config.DiffSizeThreshold

	result := &ProcessedDiff{
		Chunks:           filteredChunks,
		TotalSize:        totalSize,
		RequiresChunking: requiresChunking,
	}

	if requiresChunking {
		result.Chunks = p.processLargeFiles(filteredChunks)
		result.Summary = p.generateSummary(result.Chunks)
	}

	return result, nil
}

// filterLockFiles removes lock files from the chunks.
func (p *DefaultProcessor) filterLockFiles(chunks []git.DiffChunk) []git.DiffChunk {
	filtered := make([]git.DiffChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if !chunk.IsLockFile {
			filtered = append(filtered, chunk)
		}
	}
	return filtered
}

// calculateTotalSize calculates the total size of all chunk contents in bytes.
func (p *DefaultProcessor) calculateTotalSize(chunks []git.DiffChunk) int {
	total := 0
	for _, chunk := range chunks {
		total += len(chunk.Content)
	}
	return total
}

// processLargeFiles replaces content with statistics for files exceeding
// the per-file size cap.
func (p *DefaultProcessor) processLargeFiles(chunks []git.DiffChunk) []git.DiffChunk {
	processed := make([]git.DiffChunk, len(chunks))
	for i, chunk := range chunks {
		processed[i] = chunk
		if len(chunk.Content) > p.config.MaxFileSize {
			processed[i].Content = p.generateFileSummary(&chunk)
		}
	}
	return processed
}

// generateFileSummary creates a summary for a single file when it's too large.
func (p *DefaultProcessor) generateFileSummary(chunk *git.DiffChunk) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File: %s\n", chunk.FilePath))
	sb.WriteString(fmt.Sprintf("Change Type: %s\n", chunk.ChangeType.String()))
	sb.WriteString(fmt.Sprintf("Additions: +%d\n", chunk.Additions))
	sb.WriteString(fmt.Sprintf("Deletions: -%d\n", chunk.Deletions))

	if chunk.IsBinary {
		sb.WriteString("Note: Binary file (content not shown)\n")
	} else {
		sb.WriteString(fmt.Sprintf("Note: Large file (%d bytes) - showing statistics only\n", len(chunk.Content)))
	}

	if chunk.OldPath != "" {
		sb.WriteString(fmt.Sprintf("Renamed from: %s\n", chunk.OldPath))
	}

	return sb.String()
}

// generateSummary creates an overall summary of all changes.
func (p *DefaultProcessor) generateSummary(chunks []git.DiffChunk) string {
	if len(chunks) == 0 {
		return "No changes"
	}

	var sb strings.Builder
	sb.WriteString("Summary of changes:\n")

	totalAdditions := 0
	totalDeletions := 0

	for _, chunk := range chunks {
		changeSymbol := "M"
		switch chunk.ChangeType {
		case git.ChangeTypeAdded:
			changeSymbol = "A"
		case git.ChangeTypeDeleted:
			changeSymbol = "D"
		case git.ChangeTypeRenamed:
			changeSymbol = "R"
		}

		sb.WriteString(fmt.Sprintf("  [%s] %s (+%d/-%d)\n",
			changeSymbol, chunk.FilePath, chunk.Additions, chunk.Deletions))

		if chunk.OldPath != "" {
			sb.WriteString(fmt.Sprintf("      (renamed from %s)\n", chunk.OldPath))
		}

		totalAdditions += chunk.Additions
		totalDeletions += chunk.Deletions
	}

	sb.WriteString(fmt.Sprintf("\nTotal: %d files, +%d additions, -%d deletions\n",
		len(chunks), totalAdditions, totalDeletions))

	return sb.String()
}
