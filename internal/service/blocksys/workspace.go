package blocksys

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/blocksys"
	blocksysRepo "inkwell/internal/domain/repositories/blocksys"
	blocksysSvc "inkwell/internal/domain/services/blocksys"
)

// workspaceService implements the WorkspaceService interface
type workspaceService struct {
	workspaceRepo blocksysRepo.WorkspaceRepository
	logger        *slog.Logger
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(workspaceRepo blocksysRepo.WorkspaceRepository, logger *slog.Logger) blocksysSvc.WorkspaceService {
	return &workspaceService{workspaceRepo: workspaceRepo, logger: logger}
}

func (s *workspaceService) CreateWorkspace(ctx context.Context, name string) (*models.Workspace, error) {
	name, err := validWorkspaceName(name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ws := &models.Workspace{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.workspaceRepo.Create(ctx, ws); err != nil {
		return nil, err
	}

	s.logger.Info("workspace created", "id", ws.ID, "name", ws.Name)
	return ws, nil
}

func (s *workspaceService) GetWorkspace(ctx context.Context, id string) (*models.Workspace, error) {
	return s.workspaceRepo.GetByID(ctx, id)
}

func (s *workspaceService) ListWorkspaces(ctx context.Context) ([]models.Workspace, error) {
	return s.workspaceRepo.List(ctx)
}

func (s *workspaceService) RenameWorkspace(ctx context.Context, id, name string) (*models.Workspace, error) {
	name, err := validWorkspaceName(name)
	if err != nil {
		return nil, err
	}

	ws, err := s.workspaceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ws.Name = name
	ws.UpdatedAt = time.Now()
	if err := s.workspaceRepo.Update(ctx, ws); err != nil {
		return nil, err
	}

	s.logger.Info("workspace renamed", "id", ws.ID, "name", ws.Name)
	return ws, nil
}

func (s *workspaceService) DeleteWorkspace(ctx context.Context, id string) error {
	if err := s.workspaceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("workspace deleted", "id", id)
	return nil
}

func validWorkspaceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: workspace name is required", domain.ErrValidation)
	}
	if len(name) > config.MaxWorkspaceNameLength {
		return "", fmt.Errorf("%w: workspace name must be at most %d characters", domain.ErrValidation, config.MaxWorkspaceNameLength)
	}
	return name, nil
}
