package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karma-shop/backend/internal/domain/catalog"
	"github.com/karma-shop/backend/internal/domain/shared"
)

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func TestCachingProductRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("second FindByID is served from cache", func(t *testing.T) {
		inner := new(mockProductRepository)
		c := NewInMemoryProductCache()
		defer c.Close()
		repo := NewCachingProductRepository(inner, c)

		product := newCacheTestProduct(t)
		inner.On("FindByID", ctx, product.ID).Return(product, nil).Once()

		first, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		inner.AssertNumberOfCalls(t, "FindByID", 1)
	})

	t.Run("repository errors pass through uncached", func(t *testing.T) {
		inner := new(mockProductRepository)
		c := NewInMemoryProductCache()
		defer c.Close()
		repo := NewCachingProductRepository(inner, c)

		id := uuid.New()
		inner.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound).Twice()

		_, err := repo.FindByID(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = repo.FindByID(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		inner.AssertNumberOfCalls(t, "FindByID", 2)
	})

	t.Run("Save invalidates the cached entry", func(t *testing.T) {
		inner := new(mockProductRepository)
		c := NewInMemoryProductCache()
		defer c.Close()
		repo := NewCachingProductRepository(inner, c)

		product := newCacheTestProduct(t)
		inner.On("FindByID", ctx, product.ID).Return(product, nil).Twice()
		inner.On("Save", ctx, product).Return(nil).Once()

		_, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, product))

		_, err = repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		inner.AssertNumberOfCalls(t, "FindByID", 2)
	})

	t.Run("Delete invalidates the cached entry", func(t *testing.T) {
		inner := new(mockProductRepository)
		c := NewInMemoryProductCache()
		defer c.Close()
		repo := NewCachingProductRepository(inner, c)

		product := newCacheTestProduct(t)
		inner.On("FindByID", ctx, product.ID).Return(product, nil).Once()
		inner.On("Delete", ctx, product.ID).Return(nil).Once()

		_, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, product.ID))

		cached, err := c.Get(ctx, product.ID)
		require.NoError(t, err)
		assert.Nil(t, cached)
	})

	t.Run("list and lookup helpers delegate", func(t *testing.T) {
		inner := new(mockProductRepository)
		c := NewInMemoryProductCache()
		defer c.Close()
		repo := NewCachingProductRepository(inner, c)

		filter := shared.DefaultFilter()
		inner.On("FindAll", ctx, filter).Return([]catalog.Product{}, nil).Once()
		inner.On("Count", ctx, filter).Return(int64(0), nil).Once()
		inner.On("ExistsBySKU", ctx, "KS-SHIRT-01").Return(true, nil).Once()

		_, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		_, err = repo.Count(ctx, filter)
		require.NoError(t, err)
		exists, err := repo.ExistsBySKU(ctx, "KS-SHIRT-01")
		require.NoError(t, err)
		assert.True(t, exists)

		inner.AssertExpectations(t)
	})
}
