package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/karma-shop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Owner identifies who a cart belongs to: an authenticated user or an
// anonymous guest session, never both. Construct it once at the boundary
// and pass it down; the user identity wins when both are supplied.
type Owner struct {
	userID  *uuid.UUID
	guestID string
}

// UserOwner creates an owner key for an authenticated user
func UserOwner(userID uuid.UUID) Owner {
	return Owner{userID: &userID}
}

// GuestOwner creates an owner key for a guest session
func GuestOwner(guestID string) Owner {
	return Owner{guestID: guestID}
}

// IsUser reports whether the owner is an authenticated user
func (o Owner) IsUser() bool {
	return o.userID != nil
}

// UserID returns the user ID when the owner is an authenticated user
func (o Owner) UserID() (uuid.UUID, bool) {
	if o.userID == nil {
		return uuid.Nil, false
	}
	return *o.userID, true
}

// GuestID returns the guest session ID when the owner is a guest
func (o Owner) GuestID() (string, bool) {
	if o.userID != nil || o.guestID == "" {
		return "", false
	}
	return o.guestID, true
}

// IsZero reports whether no identity was supplied at all
func (o Owner) IsZero() bool {
	return o.userID == nil && o.guestID == ""
}

// NewGuestID generates a fresh guest session ID for callers that supplied
// no identity on their first add-to-cart
func NewGuestID() string {
	return "guest_" + uuid.NewString()
}

// Snapshot carries the product data frozen into a cart line at add-time.
// Later changes to the product do not rewrite stored lines.
type Snapshot struct {
	ProductID uuid.UUID
	Name      string
	ImageURL  string
	UnitPrice decimal.Decimal
}

// Line is one entry in a cart. Two lines with the same product but a
// different size or color are distinct lines.
type Line struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Position  int             `gorm:"not null" json:"-"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string          `gorm:"type:varchar(200);not null" json:"name"`
	ImageURL  string          `gorm:"type:varchar(500)" json:"image_url"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Size      string          `gorm:"type:varchar(50)" json:"size,omitempty"`
	Color     string          `gorm:"type:varchar(50)" json:"color,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "cart_lines"
}

// matches reports whether the line has the given identity key
func (l *Line) matches(productID uuid.UUID, size, color string) bool {
	return l.ProductID == productID && l.Size == size && l.Color == color
}

// Subtotal returns unit price times quantity
func (l *Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the aggregate root for shopping-cart operations. It owns line
// reconciliation and the total-price invariant: TotalPrice always equals
// the sum of line subtotals after every mutation.
type Cart struct {
	shared.BaseAggregateRoot
	UserID     *uuid.UUID      `gorm:"type:uuid;index"`
	GuestID    string          `gorm:"type:varchar(100);index"`
	Lines      []Line          `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// NewCart creates an empty cart for the given owner
func NewCart(owner Owner) (*Cart, error) {
	if owner.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Cart owner is required")
	}

	c := &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            owner.userID,
		GuestID:           owner.guestID,
		TotalPrice:        decimal.Zero,
	}
	return c, nil
}

// Owner returns the cart's owner key
func (c *Cart) Owner() Owner {
	if c.UserID != nil {
		return UserOwner(*c.UserID)
	}
	return GuestOwner(c.GuestID)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// AddLine adds quantity of a product to the cart. A line with the same
// (product, size, color) identity is incremented; otherwise a new line is
// appended with the given catalog snapshot. Add is additive, never set.
func (c *Cart) AddLine(snap Snapshot, quantity int, size, color string) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Quantity must be a positive integer")
	}

	if idx := c.findLine(snap.ProductID, size, color); idx >= 0 {
		c.Lines[idx].Quantity += quantity
	} else {
		c.Lines = append(c.Lines, Line{
			ID:        uuid.New(),
			CartID:    c.ID,
			Position:  c.nextPosition(),
			ProductID: snap.ProductID,
			Name:      snap.Name,
			ImageURL:  snap.ImageURL,
			UnitPrice: snap.UnitPrice,
			Size:      size,
			Color:     color,
			Quantity:  quantity,
		})
	}

	c.recomputeTotal()
	c.touch()
	return nil
}

// SetLineQuantity overwrites the quantity of an existing line. A quantity
// of zero or less removes the line entirely; this is the deletion path via
// quantity update and is deliberate, not an error.
func (c *Cart) SetLineQuantity(productID uuid.UUID, size, color string, quantity int) error {
	idx := c.findLine(productID, size, color)
	if idx < 0 {
		return shared.NewDomainError("NOT_FOUND", "Cart item not found")
	}

	if quantity > 0 {
		c.Lines[idx].Quantity = quantity
	} else {
		c.removeAt(idx)
	}

	c.recomputeTotal()
	c.touch()
	return nil
}

// RemoveLine removes the first line matching the product. Size and color
// filters apply only when non-nil; a nil filter matches any value.
func (c *Cart) RemoveLine(productID uuid.UUID, size, color *string) error {
	for i := range c.Lines {
		l := &c.Lines[i]
		if l.ProductID != productID {
			continue
		}
		if size != nil && l.Size != *size {
			continue
		}
		if color != nil && l.Color != *color {
			continue
		}

		c.removeAt(i)
		c.recomputeTotal()
		c.touch()
		return nil
	}
	return shared.NewDomainError("NOT_FOUND", "Cart item not found")
}

// MergeFrom absorbs every line of a guest cart: quantities are summed for
// matching (product, size, color) identities and unmatched guest lines are
// appended unchanged, preserving their snapshots.
func (c *Cart) MergeFrom(guest *Cart) {
	for _, gl := range guest.Lines {
		if idx := c.findLine(gl.ProductID, gl.Size, gl.Color); idx >= 0 {
			c.Lines[idx].Quantity += gl.Quantity
		} else {
			c.Lines = append(c.Lines, Line{
				ID:        uuid.New(),
				CartID:    c.ID,
				Position:  c.nextPosition(),
				ProductID: gl.ProductID,
				Name:      gl.Name,
				ImageURL:  gl.ImageURL,
				UnitPrice: gl.UnitPrice,
				Size:      gl.Size,
				Color:     gl.Color,
				Quantity:  gl.Quantity,
			})
		}
	}

	c.recomputeTotal()
	c.touch()
}

// AssignToUser reassigns a guest cart to an authenticated user. This is a
// rename of the owner key, not a copy; the guest identity is cleared.
func (c *Cart) AssignToUser(userID uuid.UUID) {
	c.UserID = &userID
	c.GuestID = ""
	c.touch()
}

// findLine returns the index of the line with the given identity, or -1
func (c *Cart) findLine(productID uuid.UUID, size, color string) int {
	for i := range c.Lines {
		if c.Lines[i].matches(productID, size, color) {
			return i
		}
	}
	return -1
}

// removeAt deletes the line at index i preserving insertion order
func (c *Cart) removeAt(i int) {
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

// nextPosition returns the insertion-order position for a new line
func (c *Cart) nextPosition() int {
	max := -1
	for i := range c.Lines {
		if c.Lines[i].Position > max {
			max = c.Lines[i].Position
		}
	}
	return max + 1
}

// recomputeTotal rebuilds TotalPrice from the remaining lines. The total is
// never trusted as input.
func (c *Cart) recomputeTotal() {
	total := decimal.Zero
	for i := range c.Lines {
		total = total.Add(c.Lines[i].Subtotal())
	}
	c.TotalPrice = total
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}
