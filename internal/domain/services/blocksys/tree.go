package blocksys

import (
	"context"

	models "inkwell/internal/domain/models/blocksys"
)

// TreeService defines operations over a workspace's document hierarchy
type TreeService interface {
	// GetWorkspaceTree builds the nested document tree for a workspace
	GetWorkspaceTree(ctx context.Context, workspaceID string) ([]*models.TreeNode, error)

	// GetExpandedIDs computes the IDs the sidebar must hold open: the
	// ancestors of every document matching the search query, plus the
	// ancestors of the active document when one is given.
	GetExpandedIDs(ctx context.Context, workspaceID, query, activeDocumentID string) (map[string]bool, error)

	// GetFilteredTree prunes the workspace tree to documents matching the
	// query or having a matching descendant.
	GetFilteredTree(ctx context.Context, workspaceID, query string) ([]*models.TreeNode, error)
}
