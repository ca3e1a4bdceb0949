// Package cart contains the application service for shopping-cart operations:
// line reconciliation, total recomputation, and guest-to-user cart merging.
package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/karma-shop/backend/internal/domain/cart"
	"github.com/karma-shop/backend/internal/domain/catalog"
	"github.com/karma-shop/backend/internal/domain/shared"
	"github.com/karma-shop/backend/internal/infrastructure/logger"
)

// Service implements cart use cases on top of the cart aggregate
type Service struct {
	carts    cart.Repository
	products catalog.ProductRepository
}

// NewService creates a new cart service
func NewService(carts cart.Repository, products catalog.ProductRepository) *Service {
	return &Service{carts: carts, products: products}
}

// Resolve returns the cart for the given owner. Carts are created lazily on
// the first add, so an owner without one gets a domain NOT_FOUND, distinct
// from a persistence failure.
func (s *Service) Resolve(ctx context.Context, owner cart.Owner) (*CartDTO, error) {
	c, err := s.findOwnedCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	return toCartDTO(c), nil
}

// AddItem adds quantity of a product to the owner's cart, creating the cart
// on first use. An owner with no identity at all is given a fresh guest ID.
// The returned flag reports whether a new cart was created.
func (s *Service) AddItem(ctx context.Context, owner cart.Owner, input AddItemInput) (*CartDTO, bool, error) {
	if input.Quantity <= 0 {
		return nil, false, shared.NewDomainError("INVALID_INPUT", "Quantity must be a positive integer")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, false, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, false, err
	}

	if owner.IsZero() {
		owner = cart.GuestOwner(cart.NewGuestID())
	}

	c, err := s.carts.FindByOwner(ctx, owner)
	created := false
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, false, err
		}
		c, err = cart.NewCart(owner)
		if err != nil {
			return nil, false, err
		}
		created = true
	}

	snap := cart.Snapshot{
		ProductID: product.ID,
		Name:      product.Name,
		ImageURL:  product.FirstImageURL(),
		UnitPrice: product.EffectivePrice(),
	}
	if err := c.AddLine(snap, input.Quantity, input.Size, input.Color); err != nil {
		return nil, false, err
	}

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, false, err
	}

	logger.L(ctx).Info("cart item added",
		zap.String("cart_id", c.ID.String()),
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", input.Quantity),
		zap.Bool("created", created),
	)
	return toCartDTO(c), created, nil
}

// SetItemQuantity overwrites the quantity of an existing line. Zero or a
// negative value removes the line.
func (s *Service) SetItemQuantity(ctx context.Context, owner cart.Owner, input SetQuantityInput) (*CartDTO, error) {
	c, err := s.findOwnedCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	if err := c.SetLineQuantity(input.ProductID, input.Size, input.Color, input.Quantity); err != nil {
		return nil, err
	}

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return toCartDTO(c), nil
}

// RemoveItem removes the first line matching the product and the given
// attribute filters from the owner's cart.
func (s *Service) RemoveItem(ctx context.Context, owner cart.Owner, input RemoveItemInput) (*CartDTO, error) {
	c, err := s.findOwnedCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	if err := c.RemoveLine(input.ProductID, input.Size, input.Color); err != nil {
		return nil, err
	}

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return toCartDTO(c), nil
}

// MergeGuestIntoUser folds a guest cart into the authenticated user's cart
// at login. Matching lines have their quantities summed, unmatched guest
// lines are appended with their snapshots intact, and the guest cart is
// removed. When the user has no cart yet the guest cart is simply renamed.
//
// The operation is idempotent under retry: once the guest cart is gone, a
// repeat call returns the user's cart unchanged.
func (s *Service) MergeGuestIntoUser(ctx context.Context, userID uuid.UUID, guestID string) (*CartDTO, error) {
	if guestID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Guest ID is required")
	}

	guestCart, err := s.carts.FindByGuestID(ctx, guestID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Retried merge: the guest cart was already absorbed
			if userCart, uerr := s.carts.FindByUserID(ctx, userID); uerr == nil {
				return toCartDTO(userCart), nil
			}
			return nil, shared.NewDomainError("NOT_FOUND", "Guest cart not found")
		}
		return nil, err
	}

	if guestCart.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Guest cart is empty")
	}

	userCart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		// No user cart yet: rename the guest cart instead of copying it
		guestCart.AssignToUser(userID)
		if err := s.carts.Save(ctx, guestCart); err != nil {
			return nil, err
		}
		logger.L(ctx).Info("guest cart assigned to user",
			zap.String("cart_id", guestCart.ID.String()),
			zap.String("user_id", userID.String()),
		)
		return toCartDTO(guestCart), nil
	}

	userCart.MergeFrom(guestCart)
	if err := s.carts.Save(ctx, userCart); err != nil {
		return nil, err
	}
	if err := s.carts.Delete(ctx, guestCart.ID); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	logger.L(ctx).Info("guest cart merged into user cart",
		zap.String("user_cart_id", userCart.ID.String()),
		zap.String("guest_cart_id", guestCart.ID.String()),
		zap.Int("lines", len(userCart.Lines)),
	)
	return toCartDTO(userCart), nil
}

// findOwnedCart loads the cart for mutation; a missing cart is an error here
func (s *Service) findOwnedCart(ctx context.Context, owner cart.Owner) (*cart.Cart, error) {
	if owner.IsZero() {
		return nil, shared.NewDomainError("NOT_FOUND", "Cart not found")
	}
	c, err := s.carts.FindByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Cart not found")
		}
		return nil, err
	}
	return c, nil
}
