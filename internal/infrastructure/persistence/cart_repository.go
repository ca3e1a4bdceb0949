package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karma-shop/backend/internal/domain/cart"
	"github.com/karma-shop/backend/internal/domain/shared"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// preloadLines loads cart lines in insertion order
func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Order("cart_lines.position ASC")
}

// FindByUserID finds the cart owned by an authenticated user
func (r *GormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		First(&c, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByGuestID finds the cart owned by a guest session
func (r *GormCartRepository) FindByGuestID(ctx context.Context, guestID string) (*cart.Cart, error) {
	if guestID == "" {
		return nil, shared.ErrNotFound
	}
	var c cart.Cart
	if err := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		First(&c, "guest_id = ?", guestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByOwner finds the cart for an owner key
func (r *GormCartRepository) FindByOwner(ctx context.Context, owner cart.Owner) (*cart.Cart, error) {
	if userID, ok := owner.UserID(); ok {
		return r.FindByUserID(ctx, userID)
	}
	if guestID, ok := owner.GuestID(); ok {
		return r.FindByGuestID(ctx, guestID)
	}
	return nil, shared.ErrNotFound
}

// Save creates or updates a cart together with its lines. Updates are guarded
// by the aggregate version: the row is only touched when the stored version
// still matches the loaded one, and a mismatch surfaces as a concurrency
// conflict for the caller to retry.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&cart.Cart{}).
			Where("id = ? AND version = ?", c.ID, c.Version).
			Updates(map[string]interface{}{
				"user_id":     c.UserID,
				"guest_id":    c.GuestID,
				"total_price": c.TotalPrice,
				"version":     c.Version + 1,
				"updated_at":  c.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&cart.Cart{}).Where("id = ?", c.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return shared.ErrConcurrencyConflict
			}
			if err := tx.Omit("Lines").Create(c).Error; err != nil {
				return err
			}
		} else {
			c.IncrementVersion()
		}

		// Lines are replaced wholesale; the aggregate is the source of truth
		if err := tx.Where("cart_id = ?", c.ID).Delete(&cart.Line{}).Error; err != nil {
			return err
		}
		for i := range c.Lines {
			c.Lines[i].CartID = c.ID
		}
		if len(c.Lines) > 0 {
			if err := tx.Create(&c.Lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete permanently removes a cart and its lines
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&cart.Line{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&cart.Cart{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ cart.Repository = (*GormCartRepository)(nil)
