// Package memory provides in-memory repository implementations used by
// tests and by the server when no database is configured.
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

// DocumentRepository is a thread-safe in-memory document store.
type DocumentRepository struct {
	mu   sync.RWMutex
	docs map[string]models.Document
	seq  map[string]int // insertion order for stable listing
	next int
}

// NewDocumentRepository creates an empty in-memory document repository.
func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		docs: make(map[string]models.Document),
		seq:  make(map[string]int),
	}
}

var _ blocksysRepo.DocumentRepository = (*DocumentRepository)(nil)

func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.docs[doc.ID]; exists {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("document %s already exists", doc.ID),
			ResourceType: "document",
			ResourceID:   doc.ID,
		}
	}
	r.docs[doc.ID] = cloneDocument(*doc)
	r.seq[doc.ID] = r.next
	r.next++
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	out := cloneDocument(doc)
	return &out, nil
}

func (r *DocumentRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Document{}
	for _, doc := range r.docs {
		if doc.WorkspaceID == workspaceID {
			out = append(out, cloneDocument(doc))
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.seq[out[i].ID] < r.seq[out[j].ID] })
	return out, nil
}

func (r *DocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[doc.ID]; !ok {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}
	r.docs[doc.ID] = cloneDocument(*doc)
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(r.docs, id)
	delete(r.seq, id)
	return nil
}

// cloneDocument copies a document so callers share nothing mutable with
// the store. The block copy must be deep: a shared inline table pointer
// would let editor mutations reach stored state without an Update.
func cloneDocument(doc models.Document) models.Document {
	out := doc
	if doc.ParentID != nil {
		parent := *doc.ParentID
		out.ParentID = &parent
	}
	out.Blocks = models.CopyBlocks(doc.Blocks)
	return out
}
