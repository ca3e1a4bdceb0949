package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/karma-shop/backend/internal/domain/catalog"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryProductCache implements ProductCache with process-local storage.
// It serves deployments that run without Redis.
type InMemoryProductCache struct {
	products sync.Map // map[uuid.UUID]*productEntry
	ttl      time.Duration
	stopCh   chan struct{}
	stopped  int32

	hits   int64
	misses int64
}

type productEntry struct {
	product   *catalog.Product
	expiresAt time.Time
}

func (e *productEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryProductCacheOption is a functional option for configuring the cache
type InMemoryProductCacheOption func(*InMemoryProductCache)

// WithInMemoryTTL sets the expiration applied on Set
func WithInMemoryTTL(ttl time.Duration) InMemoryProductCacheOption {
	return func(c *InMemoryProductCache) {
		c.ttl = ttl
	}
}

// NewInMemoryProductCache creates a new in-memory product cache
func NewInMemoryProductCache(opts ...InMemoryProductCacheOption) *InMemoryProductCache {
	cache := &InMemoryProductCache{
		ttl:    defaultProductTTL,
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get retrieves a product from cache
func (c *InMemoryProductCache) Get(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if value, ok := c.products.Load(id); ok {
		entry := value.(*productEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.product, nil
		}
		c.products.Delete(id)
	}

	atomic.AddInt64(&c.misses, 1)
	return nil, nil
}

// Set stores a product in cache
func (c *InMemoryProductCache) Set(ctx context.Context, product *catalog.Product) error {
	if product == nil {
		return nil
	}
	c.products.Store(product.ID, &productEntry{
		product:   product,
		expiresAt: time.Now().Add(c.ttl),
	})
	return nil
}

// Invalidate removes a product from cache
func (c *InMemoryProductCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	c.products.Delete(id)
	return nil
}

// Close stops the background cleanup goroutine
func (c *InMemoryProductCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns hit and miss counters
func (c *InMemoryProductCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

func (c *InMemoryProductCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.products.Range(func(key, value any) bool {
				if value.(*productEntry).isExpired() {
					c.products.Delete(key)
				}
				return true
			})
		}
	}
}
