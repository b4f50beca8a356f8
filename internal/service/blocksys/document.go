package blocksys

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/domain"
	models "inkwell/internal/domain/models/blocksys"
	"inkwell/internal/domain/repositories"
	blocksysRepo "inkwell/internal/domain/repositories/blocksys"
	blocksysSvc "inkwell/internal/domain/services/blocksys"
)

// documentService implements the DocumentService interface
type documentService struct {
	docRepo   blocksysRepo.DocumentRepository
	txManager repositories.TransactionManager
	docCache  cache.DocumentCache
	validator *ResourceValidator
	logger    *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo blocksysRepo.DocumentRepository,
	txManager repositories.TransactionManager,
	docCache cache.DocumentCache,
	validator *ResourceValidator,
	logger *slog.Logger,
) blocksysSvc.DocumentService {
	return &documentService{
		docRepo:   docRepo,
		txManager: txManager,
		docCache:  docCache,
		validator: validator,
		logger:    logger,
	}
}

// CreateDocument creates a new document with a single default text block
func (s *documentService) CreateDocument(ctx context.Context, req *blocksysSvc.CreateDocumentRequest) (*models.Document, error) {
	// Normalize empty string parent_id to nil for root-level documents
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.validator.ValidateWorkspace(ctx, req.WorkspaceID); err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		if err := s.validator.ValidateParent(ctx, *req.ParentID, req.WorkspaceID); err != nil {
			return nil, err
		}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = models.DefaultTitle
	}

	doc := models.NewDocument(req.WorkspaceID, title, req.CreatedBy)
	doc.ParentID = req.ParentID
	doc.Icon = req.Icon
	doc.IsTemplate = req.IsTemplate
	doc.WordCount = CountWords(doc.Blocks)

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, doc)

	s.logger.Info("document created",
		"id", doc.ID,
		"title", doc.Title,
		"workspace_id", req.WorkspaceID,
		"parent_id", req.ParentID,
	)
	return doc, nil
}

// GetDocument retrieves a document, preferring the cache
func (s *documentService) GetDocument(ctx context.Context, documentID string) (*models.Document, error) {
	cached, err := s.docCache.GetDocument(ctx, documentID)
	if err != nil {
		s.logger.Warn("document cache read failed", "document_id", documentID, "error", err)
	} else if cached != nil {
		return cached, nil
	}

	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, doc)
	return doc, nil
}

// ListDocuments returns the workspace's flat document collection
func (s *documentService) ListDocuments(ctx context.Context, workspaceID string) ([]models.Document, error) {
	return s.docRepo.ListByWorkspace(ctx, workspaceID)
}

// UpdateDocument applies a partial update. Reparenting goes through the
// tree move gateway so a cyclic move is rejected before anything is
// written.
func (s *documentService) UpdateDocument(ctx context.Context, documentID string, req *blocksysSvc.UpdateDocumentRequest) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if len(title) > config.MaxDocumentTitleLength {
			return nil, fmt.Errorf("%w: title must be at most %d characters", domain.ErrValidation, config.MaxDocumentTitleLength)
		}
		if title == "" {
			title = models.DefaultTitle
		}
		doc.Title = title
	}

	if req.Icon.Present {
		doc.Icon = optionalValue(req.Icon.Value)
	}
	if req.CoverImage.Present {
		doc.CoverImage = optionalValue(req.CoverImage.Value)
	}
	if req.IsTemplate != nil {
		doc.IsTemplate = *req.IsTemplate
	}

	// Reparenting: tri-state parent_id. Null moves to root, a value moves
	// under that document (cycle-checked via the move gateway).
	if req.ParentID.Present {
		newParentID := req.ParentID.Value
		if newParentID != nil && *newParentID == "" {
			newParentID = nil
		}
		moved, err := s.moveInList(ctx, doc, newParentID)
		if err != nil {
			return nil, err
		}
		doc.ParentID = moved.ParentID
	}

	doc.UpdatedAt = time.Now()

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, doc)

	s.logger.Info("document updated", "id", doc.ID, "title", doc.Title)
	return doc, nil
}

// MoveDocument reparents a document. A nil parent moves it to root.
func (s *documentService) MoveDocument(ctx context.Context, documentID string, newParentID *string) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	moved, err := s.moveInList(ctx, doc, newParentID)
	if err != nil {
		return nil, err
	}

	doc.ParentID = moved.ParentID
	doc.UpdatedAt = moved.UpdatedAt

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, doc)

	s.logger.Info("document moved", "id", doc.ID, "parent_id", newParentID)
	return doc, nil
}

// moveInList validates the target parent and runs the pure move over the
// workspace's document list. Returns the moved document's new state
// without persisting it.
func (s *documentService) moveInList(ctx context.Context, doc *models.Document, newParentID *string) (*models.Document, error) {
	if newParentID != nil {
		if err := s.validator.ValidateParent(ctx, *newParentID, doc.WorkspaceID); err != nil {
			return nil, err
		}
	}

	documents, err := s.docRepo.ListByWorkspace(ctx, doc.WorkspaceID)
	if err != nil {
		return nil, err
	}

	moved := Move(documents, doc.ID, newParentID)
	if moved == nil {
		return nil, fmt.Errorf("%w: document %s cannot become a child of its own subtree", domain.ErrCyclicMove, doc.ID)
	}
	for i := range moved {
		if moved[i].ID == doc.ID {
			return &moved[i], nil
		}
	}
	return nil, &domain.NotFoundError{Message: fmt.Sprintf("document %s not found in workspace", doc.ID)}
}

// DeleteDocument deletes a document and all of its descendants in one
// transaction. Returns the deleted IDs, the target first.
func (s *documentService) DeleteDocument(ctx context.Context, documentID string) ([]string, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	documents, err := s.docRepo.ListByWorkspace(ctx, doc.WorkspaceID)
	if err != nil {
		return nil, err
	}

	deletedIDs := []string{doc.ID}
	for _, desc := range Descendants(documents, doc.ID) {
		deletedIDs = append(deletedIDs, desc.ID)
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		for _, id := range deletedIDs {
			if err := s.docRepo.Delete(txCtx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, id := range deletedIDs {
		if err := s.docCache.DeleteDocument(ctx, id); err != nil {
			s.logger.Warn("document cache evict failed", "document_id", id, "error", err)
		}
	}

	s.logger.Info("document deleted",
		"id", documentID,
		"cascade_count", len(deletedIDs)-1,
	)
	return deletedIDs, nil
}

// DuplicateDocument copies a document under the same parent with fresh
// IDs throughout its block list.
func (s *documentService) DuplicateDocument(ctx context.Context, documentID string) (*models.Document, error) {
	src, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dup := &models.Document{
		ID:          uuid.New().String(),
		WorkspaceID: src.WorkspaceID,
		ParentID:    src.ParentID,
		Title:       src.Title + " (copy)",
		Icon:        src.Icon,
		CoverImage:  src.CoverImage,
		Blocks:      models.CloneBlocks(src.Blocks),
		IsTemplate:  src.IsTemplate,
		WordCount:   src.WordCount,
		CreatedBy:   src.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.docRepo.Create(ctx, dup); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, dup)

	s.logger.Info("document duplicated", "source_id", src.ID, "id", dup.ID)
	return dup, nil
}

// ReplaceBlocks swaps in a new block list and recounts words
func (s *documentService) ReplaceBlocks(ctx context.Context, documentID string, blocks []models.Block) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if len(blocks) > config.MaxBlocksPerDocument {
		return nil, fmt.Errorf("%w: document exceeds %d blocks", domain.ErrValidation, config.MaxBlocksPerDocument)
	}
	if len(blocks) == 0 {
		blocks = []models.Block{models.NewBlock(models.BlockTypeText)}
	}

	doc.Blocks = blocks
	doc.WordCount = CountWords(blocks)
	doc.UpdatedAt = time.Now()

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, doc)
	return doc, nil
}

// cacheSet writes through to the cache; failures are logged, never fatal.
func (s *documentService) cacheSet(ctx context.Context, doc *models.Document) {
	if err := s.docCache.SetDocument(ctx, doc); err != nil {
		s.logger.Warn("document cache write failed", "document_id", doc.ID, "error", err)
	}
}

// validateCreateRequest validates a document creation request
func (s *documentService) validateCreateRequest(req *blocksysSvc.CreateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.WorkspaceID, validation.Required),
		validation.Field(&req.Title,
			validation.Length(0, config.MaxDocumentTitleLength), // empty falls back to the default title
		),
	)
}

func optionalValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
