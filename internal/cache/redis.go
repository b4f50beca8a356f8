package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	models "inkwell/internal/domain/models/blocksys"
)

// documentTTL bounds staleness if an invalidation is ever lost.
const documentTTL = 15 * time.Minute

type redisCache struct {
	client *redis.Client
}

// NewRedisCache creates a document cache backed by Redis.
func NewRedisCache(addr string) (DocumentCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &redisCache{client: client}, nil
}

func documentKey(id string) string {
	return "inkwell:document:" + id
}

func (c *redisCache) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	data, err := c.client.Get(ctx, documentKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached document: %w", err)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode cached document: %w", err)
	}
	return &doc, nil
}

func (c *redisCache) SetDocument(ctx context.Context, doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document for cache: %w", err)
	}
	if err := c.client.Set(ctx, documentKey(doc.ID), data, documentTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache document: %w", err)
	}
	return nil
}

func (c *redisCache) DeleteDocument(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, documentKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to evict cached document: %w", err)
	}
	return nil
}
