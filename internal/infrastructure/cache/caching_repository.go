package cache

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/karma-shop/backend/internal/domain/catalog"
	"github.com/karma-shop/backend/internal/domain/shared"
)

// CachingProductRepository decorates a ProductRepository with a read-through
// cache on FindByID. Writes invalidate the cached entry so later reads see
// the persisted state.
type CachingProductRepository struct {
	inner  catalog.ProductRepository
	cache  ProductCache
	logger *zap.Logger
}

// CachingProductRepositoryOption is a functional option for the decorator
type CachingProductRepositoryOption func(*CachingProductRepository)

// WithRepositoryLogger sets the logger for the decorator
func WithRepositoryLogger(logger *zap.Logger) CachingProductRepositoryOption {
	return func(r *CachingProductRepository) {
		r.logger = logger
	}
}

// NewCachingProductRepository wraps inner with the given cache
func NewCachingProductRepository(inner catalog.ProductRepository, cache ProductCache, opts ...CachingProductRepositoryOption) *CachingProductRepository {
	repo := &CachingProductRepository{
		inner:  inner,
		cache:  cache,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// FindByID serves from cache when possible. Cache failures degrade to the
// underlying repository, never to an error.
func (r *CachingProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	cached, err := r.cache.Get(ctx, id)
	if err != nil {
		r.logger.Warn("Product cache read failed",
			zap.String("product_id", id.String()),
			zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	product, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, product); err != nil {
		r.logger.Warn("Product cache write failed",
			zap.String("product_id", id.String()),
			zap.Error(err))
	}
	return product, nil
}

// FindBySKU delegates to the underlying repository
func (r *CachingProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	return r.inner.FindBySKU(ctx, sku)
}

// FindAll delegates to the underlying repository
func (r *CachingProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	return r.inner.FindAll(ctx, filter)
}

// Save persists the product and invalidates its cached entry
func (r *CachingProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	if err := r.inner.Save(ctx, product); err != nil {
		return err
	}
	if err := r.cache.Invalidate(ctx, product.ID); err != nil {
		r.logger.Warn("Product cache invalidation failed",
			zap.String("product_id", product.ID.String()),
			zap.Error(err))
	}
	return nil
}

// Delete removes the product and invalidates its cached entry
func (r *CachingProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	if err := r.cache.Invalidate(ctx, id); err != nil {
		r.logger.Warn("Product cache invalidation failed",
			zap.String("product_id", id.String()),
			zap.Error(err))
	}
	return nil
}

// Count delegates to the underlying repository
func (r *CachingProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return r.inner.Count(ctx, filter)
}

// ExistsBySKU delegates to the underlying repository
func (r *CachingProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	return r.inner.ExistsBySKU(ctx, sku)
}
