// Package catalog provides application services for managing the product
// catalog: admin CRUD and the public storefront views.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/karma-shop/backend/internal/domain/catalog"
	"github.com/karma-shop/backend/internal/domain/shared"
	"github.com/karma-shop/backend/internal/infrastructure/logger"
)

// ProductService handles product catalog use cases
type ProductService struct {
	products catalog.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(products catalog.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// Get returns a single product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, err
	}

	dto := toProductDTO(product)
	return &dto, nil
}

// List returns products matching the filter
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductDTO], error) {
	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductDTO, 0, len(products))
	for i := range products {
		items = append(items, toProductDTO(&products[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListPublished returns storefront products matching the filter. Unpublished
// products are never included regardless of the caller's filters.
func (s *ProductService) ListPublished(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductDTO], error) {
	if filter.Filters == nil {
		filter.Filters = make(map[string]interface{})
	}
	filter.Filters["is_published"] = true
	return s.List(ctx, filter)
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	exists, err := s.products.ExistsBySKU(ctx, input.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this SKU already exists")
	}

	product, err := catalog.NewProduct(input.Name, input.SKU, input.Price)
	if err != nil {
		return nil, err
	}

	product.Description = input.Description
	product.Brand = strings.TrimSpace(input.Brand)
	product.Category = strings.TrimSpace(input.Category)
	product.CreatedBy = input.CreatedBy

	if err := product.SetDiscountPrice(input.DiscountPrice); err != nil {
		return nil, err
	}
	if err := product.SetStock(input.CountInStock); err != nil {
		return nil, err
	}
	product.SetVariants(input.Sizes, input.Colors)
	if len(input.Images) > 0 {
		product.SetImages(toDomainImages(input.Images))
	}
	if input.IsPublished {
		product.Publish()
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU))

	dto := toProductDTO(product)
	return &dto, nil
}

// Update applies a partial update to a product. Only non-nil fields change;
// the SKU is immutable after creation.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, err
	}

	name := product.Name
	if input.Name != nil {
		name = *input.Name
	}
	description := product.Description
	if input.Description != nil {
		description = *input.Description
	}
	if err := product.Update(name, description); err != nil {
		return nil, err
	}

	if input.Brand != nil {
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Price != nil {
		if err := product.SetPrice(*input.Price); err != nil {
			return nil, err
		}
	}
	if input.DiscountPrice != nil {
		if err := product.SetDiscountPrice(*input.DiscountPrice); err != nil {
			return nil, err
		}
	}
	if input.CountInStock != nil {
		if err := product.SetStock(*input.CountInStock); err != nil {
			return nil, err
		}
	}
	if input.Sizes != nil || input.Colors != nil {
		sizes := product.Sizes
		if input.Sizes != nil {
			sizes = input.Sizes
		}
		colors := product.Colors
		if input.Colors != nil {
			colors = input.Colors
		}
		product.SetVariants(sizes, colors)
	}
	if input.Images != nil {
		product.SetImages(toDomainImages(input.Images))
	}
	if input.IsPublished != nil {
		if *input.IsPublished {
			product.Publish()
		} else {
			product.Unpublish()
		}
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Product updated", zap.String("product_id", product.ID.String()))

	dto := toProductDTO(product)
	return &dto, nil
}

// Delete removes a product and its images
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return err
	}

	logger.L(ctx).Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}
