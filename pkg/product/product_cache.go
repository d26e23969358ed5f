package product

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Grocery-Tracker/entities"
	"Grocery-Tracker/internal/utils/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const productCacheTTL = 10 * time.Minute

// ProductCache is a read-through cache for single catalog entries. Failures
// are logged and treated as misses.
type ProductCache interface {
	Get(ctx context.Context, id string) (*entities.Product, bool)
	Set(ctx context.Context, product *entities.Product)
	Invalidate(ctx context.Context, id string)
}

type redisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisProductCache(client *redis.Client, logger *zap.Logger) ProductCache {
	return &redisProductCache{client: client, ttl: productCacheTTL, logger: logger}
}

func cacheKey(id string) string {
	return "product:" + id
}

func (c *redisProductCache) Get(ctx context.Context, id string) (*entities.Product, bool) {
	val, err := c.client.Get(ctx, cacheKey(id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("product cache read failed", zap.String("product_id", id), zap.Error(err))
		}
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return nil, false
	}

	var product entities.Product
	if err := json.Unmarshal([]byte(val), &product); err != nil {
		c.logger.Warn("product cache entry corrupt", zap.String("product_id", id), zap.Error(err))
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("redis").Inc()
	return &product, true
}

func (c *redisProductCache) Set(ctx context.Context, product *entities.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(product.ID.String()), data, c.ttl).Err(); err != nil {
		c.logger.Warn("product cache write failed", zap.String("product_id", product.ID.String()), zap.Error(err))
	}
}

func (c *redisProductCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.logger.Warn("product cache invalidate failed", zap.String("product_id", id), zap.Error(err))
	}
}

type noopProductCache struct{}

// NewNoopProductCache is used when no redis address is configured.
func NewNoopProductCache() ProductCache { return noopProductCache{} }

func (noopProductCache) Get(context.Context, string) (*entities.Product, bool) { return nil, false }
func (noopProductCache) Set(context.Context, *entities.Product)                {}
func (noopProductCache) Invalidate(context.Context, string)                     {}
