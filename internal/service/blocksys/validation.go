package blocksys

import (
	"context"
	"fmt"

	"inkwell/internal/domain"
	blocksysRepo "inkwell/internal/domain/repositories/blocksys"
)

// ResourceValidator validates that referenced parent resources exist
// before a mutation proceeds, so callers get a clean not-found or
// validation error instead of a dangling reference.
type ResourceValidator struct {
	workspaceRepo blocksysRepo.WorkspaceRepository
	docRepo       blocksysRepo.DocumentRepository
}

// NewResourceValidator creates a resource validator
func NewResourceValidator(workspaceRepo blocksysRepo.WorkspaceRepository, docRepo blocksysRepo.DocumentRepository) *ResourceValidator {
	return &ResourceValidator{
		workspaceRepo: workspaceRepo,
		docRepo:       docRepo,
	}
}

// ValidateWorkspace checks that the workspace exists.
func (v *ResourceValidator) ValidateWorkspace(ctx context.Context, workspaceID string) error {
	if workspaceID == "" {
		return fmt.Errorf("%w: workspace_id is required", domain.ErrValidation)
	}
	if _, err := v.workspaceRepo.GetByID(ctx, workspaceID); err != nil {
		return err
	}
	return nil
}

// ValidateParent checks that a prospective parent document exists and
// belongs to the same workspace.
func (v *ResourceValidator) ValidateParent(ctx context.Context, parentID, workspaceID string) error {
	parent, err := v.docRepo.GetByID(ctx, parentID)
	if err != nil {
		return err
	}
	if parent.WorkspaceID != workspaceID {
		return fmt.Errorf("%w: parent document belongs to a different workspace", domain.ErrValidation)
	}
	return nil
}
