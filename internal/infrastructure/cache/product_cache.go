package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/karma-shop/backend/internal/domain/catalog"
)

// defaultProductTTL bounds how stale a cached product can get
const defaultProductTTL = 5 * time.Minute

// ProductCache caches product aggregates by ID. A nil product with a nil
// error means a cache miss.
type ProductCache interface {
	Get(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
	Set(ctx context.Context, product *catalog.Product) error
	Invalidate(ctx context.Context, id uuid.UUID) error
	Close() error
}

// RedisProductCache implements ProductCache on top of Redis
type RedisProductCache struct {
	client     *redis.Client
	ownsClient bool
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisProductCacheOption is a functional option for configuring the cache
type RedisProductCacheOption func(*RedisProductCache)

// WithProductTTL sets the expiration applied on Set
func WithProductTTL(ttl time.Duration) RedisProductCacheOption {
	return func(c *RedisProductCache) {
		c.ttl = ttl
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisProductCacheOption {
	return func(c *RedisProductCache) {
		c.logger = logger
	}
}

// NewRedisProductCache creates a product cache with its own Redis client
func NewRedisProductCache(addr, password string, db int, opts ...RedisProductCacheOption) (*RedisProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisProductCache{
		client:     client,
		ownsClient: true,
		ttl:        defaultProductTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache, nil
}

// NewRedisProductCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisProductCacheWithClient(client *redis.Client, opts ...RedisProductCacheOption) *RedisProductCache {
	cache := &RedisProductCache{
		client:     client,
		ownsClient: false,
		ttl:        defaultProductTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

func productCacheKey(id uuid.UUID) string {
	return "product:" + id.String()
}

// Get retrieves a product from cache
func (c *RedisProductCache) Get(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	key := productCacheKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for product", zap.String("product_id", id.String()))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get product from cache",
			zap.String("product_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get product from cache: %w", err)
	}

	var product catalog.Product
	if err := json.Unmarshal(data, &product); err != nil {
		c.logger.Error("Failed to unmarshal cached product",
			zap.String("product_id", id.String()),
			zap.Error(err))
		// Corrupted entry, drop it and treat as a miss
		_ = c.client.Del(ctx, key)
		return nil, nil
	}

	c.logger.Debug("Cache hit for product", zap.String("product_id", id.String()))
	return &product, nil
}

// Set stores a product in cache
func (c *RedisProductCache) Set(ctx context.Context, product *catalog.Product) error {
	if product == nil {
		return nil
	}

	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	if err := c.client.Set(ctx, productCacheKey(product.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache product: %w", err)
	}
	return nil
}

// Invalidate removes a product from cache
func (c *RedisProductCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, productCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate product: %w", err)
	}
	return nil
}

// Close closes the Redis client if this cache owns it
func (c *RedisProductCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}
