package cache

import (
	"context"

	models "inkwell/internal/domain/models/blocksys"
)

// DocumentCache is a read-through cache in front of the document store.
// A miss returns (nil, nil); cache failures are soft - callers log and
// fall back to the repository.
type DocumentCache interface {
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	SetDocument(ctx context.Context, doc *models.Document) error
	DeleteDocument(ctx context.Context, id string) error
}
