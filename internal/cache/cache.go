package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"bazaar_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

const ProductCacheTTL = 10 * time.Minute

// ProductCache keeps product rows in Redis under product:<id>.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client, ttl: ProductCacheTTL}
}

func productKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

// Get returns the cached product, or nil on a miss.
func (c *ProductCache) Get(ctx context.Context, id uint) (*models.Product, error) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p models.Product
	if err := json.Unmarshal(data, &p); err != nil {
		c.client.Del(ctx, productKey(id))
		return nil, nil
	}
	return &p, nil
}

func (c *ProductCache) Set(ctx context.Context, p *models.Product) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productKey(p.ID), data, c.ttl).Err(); err != nil {
		log.Printf("⚠️ Failed to cache product %d: %v", p.ID, err)
	}
}

// Invalidate drops the given products from the cache.
func (c *ProductCache) Invalidate(ctx context.Context, ids ...uint) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("⚠️ Failed to invalidate product cache: %v", err)
	}
}
