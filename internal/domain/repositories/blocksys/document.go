package blocksys

import (
	"context"

	models "inkwell/internal/domain/models/blocksys"
)

// DocumentRepository is the persistence contract for documents. The core
// consumes only load/list/save semantics, so the backing store (Postgres,
// in-memory) is swappable without touching tree or editor logic.
type DocumentRepository interface {
	// Create persists a new document including its block list.
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves one document with its blocks.
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// ListByWorkspace returns the workspace's flat document collection in
	// creation order. Tree building, the sidebar and the mention menu all
	// operate over this list.
	ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Document, error)

	// Update persists the document's current state (partial-update
	// semantics live in the service; the repository writes what it gets).
	Update(ctx context.Context, doc *models.Document) error

	// Delete removes a single document. Cascade to descendants is the
	// service's responsibility since the hierarchy is derived, not stored.
	Delete(ctx context.Context, id string) error
}

// WorkspaceRepository is the persistence contract for workspaces.
type WorkspaceRepository interface {
	Create(ctx context.Context, ws *models.Workspace) error
	GetByID(ctx context.Context, id string) (*models.Workspace, error)
	List(ctx context.Context) ([]models.Workspace, error)
	Update(ctx context.Context, ws *models.Workspace) error
	Delete(ctx context.Context, id string) error
}
