package cache

import (
	"context"

	models "inkwell/internal/domain/models/blocksys"
)

// noopCache is used when no Redis address is configured; every lookup
// is a miss and writes are discarded.
type noopCache struct{}

// NewNoopCache creates a cache that stores nothing.
func NewNoopCache() DocumentCache {
	return &noopCache{}
}

func (noopCache) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return nil, nil
}

func (noopCache) SetDocument(ctx context.Context, doc *models.Document) error {
	return nil
}

func (noopCache) DeleteDocument(ctx context.Context, id string) error {
	return nil
}
