package blocksys

import (
	"context"

	models "inkwell/internal/domain/models/blocksys"
	"inkwell/internal/httputil"
)

// DocumentService handles document business logic
type DocumentService interface {
	// CreateDocument creates a new document with one default text block
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*models.Document, error)

	// GetDocument retrieves a document including its block list
	GetDocument(ctx context.Context, documentID string) (*models.Document, error)

	// ListDocuments returns the workspace's flat document collection
	ListDocuments(ctx context.Context, workspaceID string) ([]models.Document, error)

	// UpdateDocument applies a partial update. Reparenting goes through
	// the tree move gateway and is rejected when it would create a cycle.
	UpdateDocument(ctx context.Context, documentID string, req *UpdateDocumentRequest) (*models.Document, error)

	// MoveDocument reparents a document. A nil parent moves it to root.
	MoveDocument(ctx context.Context, documentID string, newParentID *string) (*models.Document, error)

	// DeleteDocument deletes a document and cascades to all descendants.
	// Returns the IDs of every deleted document, the target first.
	DeleteDocument(ctx context.Context, documentID string) ([]string, error)

	// DuplicateDocument copies a document with fresh IDs throughout
	DuplicateDocument(ctx context.Context, documentID string) (*models.Document, error)

	// ReplaceBlocks swaps in a new block list (the converter round-trip
	// path). An empty list is replaced with a single default text block.
	ReplaceBlocks(ctx context.Context, documentID string, blocks []models.Block) (*models.Document, error)
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	WorkspaceID string  `json:"workspace_id"`
	ParentID    *string `json:"parent_id,omitempty"`
	Title       string  `json:"title"` // defaults to "Untitled"
	Icon        string  `json:"icon,omitempty"`
	IsTemplate  bool    `json:"is_template,omitempty"`
	CreatedBy   string  `json:"created_by,omitempty"`
}

// UpdateDocumentRequest represents a partial document update.
// ParentID uses tri-state semantics: absent = keep, null = move to root,
// value = move under that document (cycle-checked).
type UpdateDocumentRequest struct {
	Title      *string                 `json:"title,omitempty"`
	Icon       httputil.OptionalString `json:"icon"`
	CoverImage httputil.OptionalString `json:"cover_image"`
	ParentID   httputil.OptionalString `json:"parent_id"`
	IsTemplate *bool                   `json:"is_template,omitempty"`
}

// WorkspaceService handles workspace business logic
type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, name string) (*models.Workspace, error)
	GetWorkspace(ctx context.Context, id string) (*models.Workspace, error)
	ListWorkspaces(ctx context.Context) ([]models.Workspace, error)
	RenameWorkspace(ctx context.Context, id, name string) (*models.Workspace, error)
	DeleteWorkspace(ctx context.Context, id string) error
}
