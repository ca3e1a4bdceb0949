package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/karma-shop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductImage is one image attached to a product, ordered by position.
// The first image is the one snapshotted into cart lines.
type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position  int       `gorm:"not null" json:"-"`
	URL       string    `gorm:"type:varchar(500);not null" json:"url"`
	AltText   string    `gorm:"type:varchar(200)" json:"alt_text,omitempty"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// Product represents a catalog product. Cart lines snapshot its name,
// first image URL, and price at add-time.
type Product struct {
	shared.BaseAggregateRoot
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	SKU           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Brand         string          `gorm:"type:varchar(100)"`
	Category      string          `gorm:"type:varchar(100);index"`
	Price         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CountInStock  int             `gorm:"not null;default:0"`
	Sizes         []string        `gorm:"type:jsonb;serializer:json"`
	Colors        []string        `gorm:"type:jsonb;serializer:json"`
	Images        []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	IsPublished   bool            `gorm:"not null;default:false"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, sku string, price decimal.Decimal) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               strings.ToUpper(strings.TrimSpace(sku)),
		Price:             price,
		DiscountPrice:     decimal.Zero,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.touch()
	return nil
}

// SetPrice sets the selling price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Price = price
	p.touch()
	return nil
}

// SetDiscountPrice sets the discount price
func (p *Product) SetDiscountPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Discount price cannot be negative")
	}

	p.DiscountPrice = price
	p.touch()
	return nil
}

// SetStock sets the available stock count
func (p *Product) SetStock(count int) error {
	if count < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock count cannot be negative")
	}

	p.CountInStock = count
	p.touch()
	return nil
}

// SetVariants sets the available sizes and colors
func (p *Product) SetVariants(sizes, colors []string) {
	p.Sizes = sizes
	p.Colors = colors
	p.touch()
}

// SetImages replaces the product's image list, preserving the given order
func (p *Product) SetImages(urls []ProductImage) {
	images := make([]ProductImage, 0, len(urls))
	for i, img := range urls {
		images = append(images, ProductImage{
			ID:        uuid.New(),
			ProductID: p.ID,
			Position:  i,
			URL:       img.URL,
			AltText:   img.AltText,
		})
	}
	p.Images = images
	p.touch()
}

// Publish makes the product visible in the storefront
func (p *Product) Publish() {
	p.IsPublished = true
	p.touch()
}

// Unpublish hides the product from the storefront
func (p *Product) Unpublish() {
	p.IsPublished = false
	p.touch()
}

// EffectivePrice returns the price charged at add-to-cart time: the
// discount price when one is set, the regular price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice.IsPositive() {
		return p.DiscountPrice
	}
	return p.Price
}

// FirstImageURL returns the URL of the first image, or "" when there are none
func (p *Product) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	return nil
}
