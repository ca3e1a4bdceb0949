package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/karma-shop/backend/internal/domain/cart"
)

// ItemDTO is one cart line in API responses
type ItemDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartDTO is the cart representation returned by the API
type CartDTO struct {
	ID         *uuid.UUID      `json:"id,omitempty"`
	UserID     *uuid.UUID      `json:"user_id,omitempty"`
	GuestID    string          `json:"guest_id,omitempty"`
	Items      []ItemDTO       `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

// AddItemInput carries an add-to-cart request
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Size      string
	Color     string
}

// SetQuantityInput carries an absolute quantity update
type SetQuantityInput struct {
	ProductID uuid.UUID
	Quantity  int
	Size      string
	Color     string
}

// RemoveItemInput identifies the line to remove. Nil size or color matches
// any value for that attribute.
type RemoveItemInput struct {
	ProductID uuid.UUID
	Size      *string
	Color     *string
}

// toCartDTO maps a cart aggregate to its API representation
func toCartDTO(c *cart.Cart) *CartDTO {
	items := make([]ItemDTO, 0, len(c.Lines))
	for i := range c.Lines {
		l := &c.Lines[i]
		items = append(items, ItemDTO{
			ProductID: l.ProductID,
			Name:      l.Name,
			ImageURL:  l.ImageURL,
			UnitPrice: l.UnitPrice,
			Size:      l.Size,
			Color:     l.Color,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal(),
		})
	}

	id := c.ID
	updatedAt := c.UpdatedAt
	return &CartDTO{
		ID:         &id,
		UserID:     c.UserID,
		GuestID:    c.GuestID,
		Items:      items,
		TotalPrice: c.TotalPrice,
		UpdatedAt:  &updatedAt,
	}
}
