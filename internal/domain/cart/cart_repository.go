package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for cart persistence.
//
// At most one cart exists per user ID and per guest ID; absence is a valid
// state reported as shared.ErrNotFound, distinct from a store failure.
type Repository interface {
	// FindByUserID finds the cart owned by an authenticated user
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// FindByGuestID finds the cart owned by a guest session
	FindByGuestID(ctx context.Context, guestID string) (*Cart, error)

	// FindByOwner finds the cart for an owner key
	FindByOwner(ctx context.Context, owner Owner) (*Cart, error)

	// Save creates or updates a cart together with its lines. Updates are
	// guarded by the aggregate version; a stale version surfaces
	// shared.ErrConcurrencyConflict.
	Save(ctx context.Context, cart *Cart) error

	// Delete permanently removes a cart and its lines
	Delete(ctx context.Context, id uuid.UUID) error
}
