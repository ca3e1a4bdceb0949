package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/karma-shop/backend/internal/domain/catalog"
)

// ImageDTO is one product image in API responses
type ImageDTO struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
}

// ProductDTO is the product representation returned by the API
type ProductDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	SKU           string          `json:"sku"`
	Brand         string          `json:"brand,omitempty"`
	Category      string          `json:"category,omitempty"`
	Price         decimal.Decimal `json:"price"`
	DiscountPrice decimal.Decimal `json:"discount_price"`
	CountInStock  int             `json:"count_in_stock"`
	Sizes         []string        `json:"sizes"`
	Colors        []string        `json:"colors"`
	Images        []ImageDTO      `json:"images"`
	IsPublished   bool            `json:"is_published"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateProductInput carries an admin product-creation request
type CreateProductInput struct {
	Name          string
	Description   string
	SKU           string
	Brand         string
	Category      string
	Price         decimal.Decimal
	DiscountPrice decimal.Decimal
	CountInStock  int
	Sizes         []string
	Colors        []string
	Images        []ImageDTO
	IsPublished   bool
	CreatedBy     *uuid.UUID
}

// UpdateProductInput carries an admin partial update; nil fields keep their
// current value.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Brand         *string
	Category      *string
	Price         *decimal.Decimal
	DiscountPrice *decimal.Decimal
	CountInStock  *int
	Sizes         []string
	Colors        []string
	Images        []ImageDTO
	IsPublished   *bool
}

// toProductDTO maps a product aggregate to its API representation
func toProductDTO(p *catalog.Product) ProductDTO {
	images := make([]ImageDTO, 0, len(p.Images))
	for i := range p.Images {
		images = append(images, ImageDTO{
			URL:     p.Images[i].URL,
			AltText: p.Images[i].AltText,
		})
	}

	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	colors := p.Colors
	if colors == nil {
		colors = []string{}
	}

	return ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		SKU:           p.SKU,
		Brand:         p.Brand,
		Category:      p.Category,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		CountInStock:  p.CountInStock,
		Sizes:         sizes,
		Colors:        colors,
		Images:        images,
		IsPublished:   p.IsPublished,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// toDomainImages maps image DTOs to domain images
func toDomainImages(images []ImageDTO) []catalog.ProductImage {
	result := make([]catalog.ProductImage, 0, len(images))
	for _, img := range images {
		result = append(result, catalog.ProductImage{URL: img.URL, AltText: img.AltText})
	}
	return result
}
