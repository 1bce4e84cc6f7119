// Package cache holds a Redis-backed snapshot of the product catalog. The
// register polls the product list on every screen, so the hot read path is
// served from Redis and invalidated whenever stock moves.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deskastudio/kasir-umkm-api/internal/domain/entity"
)

const (
	productKeyPrefix = "catalog:products:"
	categoryKey      = "catalog:categories"
)

// CatalogCache caches product listings keyed by their filter. A nil client
// disables caching entirely; every method becomes a no-op miss.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a catalog cache with the given TTL.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

// NewRedisClient connects to Redis and verifies the connection. Returns an
// error rather than a lazy client so startup fails fast on a bad address.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

type cachedProductPage struct {
	Products []entity.Product `json:"products"`
	Total    int64            `json:"total"`
}

// ProductKey builds the cache key for one product listing.
func ProductKey(search, category string, activeOnly bool, page, perPage int) string {
	return fmt.Sprintf("%ss=%s:c=%s:a=%t:p=%d:n=%d", productKeyPrefix, search, category, activeOnly, page, perPage)
}

// GetProducts returns a cached listing, or (nil, 0, false) on a miss. Cache
// errors are logged and treated as misses; the database stays the source of
// truth.
func (c *CatalogCache) GetProducts(ctx context.Context, key string) ([]entity.Product, int64, bool) {
	if c == nil || c.client == nil {
		return nil, 0, false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("catalog cache read failed: %v", err)
		}
		return nil, 0, false
	}

	var page cachedProductPage
	if err := json.Unmarshal(raw, &page); err != nil {
		log.Printf("catalog cache entry corrupt, dropping: %v", err)
		_ = c.client.Del(ctx, key).Err()
		return nil, 0, false
	}
	return page.Products, page.Total, true
}

// SetProducts stores a listing under the given key.
func (c *CatalogCache) SetProducts(ctx context.Context, key string, products []entity.Product, total int64) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(cachedProductPage{Products: products, Total: total})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Printf("catalog cache write failed: %v", err)
	}
}

// GetCategories returns the cached category list, or (nil, false) on a miss.
func (c *CatalogCache) GetCategories(ctx context.Context) ([]entity.Category, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, categoryKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("catalog cache read failed: %v", err)
		}
		return nil, false
	}

	var categories []entity.Category
	if err := json.Unmarshal(raw, &categories); err != nil {
		_ = c.client.Del(ctx, categoryKey).Err()
		return nil, false
	}
	return categories, true
}

// SetCategories stores the category list.
func (c *CatalogCache) SetCategories(ctx context.Context, categories []entity.Category) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(categories)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, categoryKey, raw, c.ttl).Err(); err != nil {
		log.Printf("catalog cache write failed: %v", err)
	}
}

// Invalidate drops every cached product listing and the category list.
// Called after any write that changes products, categories or stock.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, productKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("catalog cache scan failed: %v", err)
		return
	}
	keys = append(keys, categoryKey)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("catalog cache invalidate failed: %v", err)
	}
}
