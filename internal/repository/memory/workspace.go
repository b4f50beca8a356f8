package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/blocksys"
	blocksysRepo "inkwell/internal/domain/repositories/blocksys"
)

// WorkspaceRepository is a thread-safe in-memory workspace store.
type WorkspaceRepository struct {
	mu         sync.RWMutex
	workspaces map[string]models.Workspace
	seq        map[string]int
	next       int
}

// NewWorkspaceRepository creates an empty in-memory workspace repository.
func NewWorkspaceRepository() *WorkspaceRepository {
	return &WorkspaceRepository{
		workspaces: make(map[string]models.Workspace),
		seq:        make(map[string]int),
	}
}

var _ blocksysRepo.WorkspaceRepository = (*WorkspaceRepository)(nil)

func (r *WorkspaceRepository) Create(ctx context.Context, ws *models.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.workspaces[ws.ID]; exists {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("workspace '%s' already exists", ws.Name),
			ResourceType: "workspace",
			ResourceID:   ws.ID,
		}
	}
	r.workspaces[ws.ID] = *ws
	r.seq[ws.ID] = r.next
	r.next++
	return nil
}

func (r *WorkspaceRepository) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ws, ok := r.workspaces[id]
	if !ok {
		return nil, fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}
	return &ws, nil
}

func (r *WorkspaceRepository) List(ctx context.Context) ([]models.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Workspace{}
	for _, ws := range r.workspaces {
		out = append(out, ws)
	}
	sort.Slice(out, func(i, j int) bool { return r.seq[out[i].ID] < r.seq[out[j].ID] })
	return out, nil
}

func (r *WorkspaceRepository) Update(ctx context.Context, ws *models.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workspaces[ws.ID]; !ok {
		return fmt.Errorf("workspace %s: %w", ws.ID, domain.ErrNotFound)
	}
	r.workspaces[ws.ID] = *ws
	return nil
}

func (r *WorkspaceRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workspaces[id]; !ok {
		return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}
	delete(r.workspaces, id)
	return nil
}
