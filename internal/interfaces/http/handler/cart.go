package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcart "github.com/karma-shop/backend/internal/application/cart"
	"github.com/karma-shop/backend/internal/domain/cart"
	"github.com/karma-shop/backend/internal/interfaces/http/middleware"
)

// CartHandler handles shopping cart endpoints
type CartHandler struct {
	BaseHandler
	cartService *appcart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *appcart.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddItemRequest is the payload for adding a product to a cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
	Size      string    `json:"size" binding:"omitempty,max=50"`
	Color     string    `json:"color" binding:"omitempty,max=50"`
	GuestID   string    `json:"guest_id" binding:"omitempty,max=100"`
}

// SetQuantityRequest is the payload for setting a line's absolute quantity.
// Quantity is a pointer so zero binds: a quantity of 0 or less removes the
// line instead of updating it.
type SetQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  *int      `json:"quantity" binding:"required"`
	Size      string    `json:"size" binding:"omitempty,max=50"`
	Color     string    `json:"color" binding:"omitempty,max=50"`
	GuestID   string    `json:"guest_id" binding:"omitempty,max=100"`
}

// RemoveItemRequest identifies the line to remove. Omitting size or color
// matches any value for that attribute.
type RemoveItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      *string   `json:"size" binding:"omitempty"`
	Color     *string   `json:"color" binding:"omitempty"`
	GuestID   string    `json:"guest_id" binding:"omitempty,max=100"`
}

// MergeCartRequest carries the guest cart to absorb at login
type MergeCartRequest struct {
	GuestID string `json:"guest_id" binding:"required,max=100"`
}

// resolveOwner determines who the cart belongs to. An authenticated identity
// always wins over a guest ID so a logged-in user cannot act on another
// visitor's cart by replaying a guest token.
func resolveOwner(c *gin.Context, guestID string) (cart.Owner, error) {
	if claims := middleware.GetJWTClaims(c); claims != nil {
		userID, err := claims.GetUserUUID()
		if err != nil {
			return cart.Owner{}, err
		}
		return cart.UserOwner(userID), nil
	}
	if guestID != "" {
		return cart.GuestOwner(guestID), nil
	}
	return cart.Owner{}, nil
}

// GetCart returns the caller's cart
// @Summary Get cart
// @Description Returns the cart for the authenticated user or the given guest ID
// @Tags cart
// @Produce json
// @Param guest_id query string false "Guest cart identifier"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	owner, err := resolveOwner(c, c.Query("guest_id"))
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	result, err := h.cartService.Resolve(c.Request.Context(), owner)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AddItem adds a product to the cart, creating the cart on first use
// @Summary Add item to cart
// @Description Adds quantity of a product to the cart. Creates the cart if none exists.
// @Tags cart
// @Accept json
// @Produce json
// @Param request body AddItemRequest true "Item to add"
// @Success 200 {object} dto.Response
// @Success 201 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /cart [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	owner, err := resolveOwner(c, req.GuestID)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	result, created, err := h.cartService.AddItem(c.Request.Context(), owner, appcart.AddItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if created {
		h.Created(c, result)
		return
	}
	h.Success(c, result)
}

// SetItemQuantity replaces a line's quantity with an absolute value
// @Summary Set item quantity
// @Description Sets the quantity of an existing cart line. A quantity of 0 or less removes the line.
// @Tags cart
// @Accept json
// @Produce json
// @Param request body SetQuantityRequest true "Line and new quantity"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /cart [put]
func (h *CartHandler) SetItemQuantity(c *gin.Context) {
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	owner, err := resolveOwner(c, req.GuestID)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	result, err := h.cartService.SetItemQuantity(c.Request.Context(), owner, appcart.SetQuantityInput{
		ProductID: req.ProductID,
		Quantity:  *req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RemoveItem removes a line from the cart
// @Summary Remove item from cart
// @Description Removes the identified line from the cart
// @Tags cart
// @Accept json
// @Produce json
// @Param request body RemoveItemRequest true "Line to remove"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /cart [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req RemoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	owner, err := resolveOwner(c, req.GuestID)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	result, err := h.cartService.RemoveItem(c.Request.Context(), owner, appcart.RemoveItemInput{
		ProductID: req.ProductID,
		Size:      req.Size,
		Color:     req.Color,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MergeCart absorbs a guest cart into the authenticated user's cart
// @Summary Merge guest cart
// @Description Merges the guest cart into the authenticated user's cart after login
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MergeCartRequest true "Guest cart to merge"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /cart/merge [post]
func (h *CartHandler) MergeCart(c *gin.Context) {
	var req MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.cartService.MergeGuestIntoUser(c.Request.Context(), userID, req.GuestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
