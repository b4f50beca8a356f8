package blocksys

import (
	"context"
)

// ImportService handles bulk markdown import
type ImportService interface {
	// ImportFiles imports markdown files (with optional YAML frontmatter)
	// into a workspace as documents. Returns per-file results; one bad
	// file never aborts the batch.
	ImportFiles(ctx context.Context, workspaceID string, files []ImportFile) (*ImportResult, error)
}

// ImportFile is one uploaded markdown file.
type ImportFile struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// ImportResult represents the result of a bulk import operation
type ImportResult struct {
	Summary   ImportSummary    `json:"summary"`
	Errors    []ImportError    `json:"errors"`
	Documents []ImportDocument `json:"documents"`
}

// ImportSummary contains aggregate statistics for an import operation
type ImportSummary struct {
	Created    int `json:"created"`
	Failed     int `json:"failed"`
	TotalFiles int `json:"total_files"`
}

// ImportError represents an error that occurred during import
type ImportError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// ImportDocument represents a created document
type ImportDocument struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
