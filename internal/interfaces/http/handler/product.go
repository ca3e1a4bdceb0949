package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/karma-shop/backend/internal/application/catalog"
	"github.com/karma-shop/backend/internal/interfaces/http/dto"
	"github.com/karma-shop/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles catalog endpoints. Public reads only see
// published products; admin routes see everything.
type ProductHandler struct {
	BaseHandler
	productService *catalog.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *catalog.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ProductImageRequest describes one product image
type ProductImageRequest struct {
	URL     string `json:"url" binding:"required,url,max=2048"`
	AltText string `json:"alt_text" binding:"omitempty,max=200"`
}

// CreateProductRequest is the payload for creating a product
type CreateProductRequest struct {
	Name          string                `json:"name" binding:"required,min=1,max=200"`
	Description   string                `json:"description" binding:"omitempty,max=5000"`
	SKU           string                `json:"sku" binding:"required,min=1,max=50"`
	Brand         string                `json:"brand" binding:"omitempty,max=100"`
	Category      string                `json:"category" binding:"omitempty,max=100"`
	Price         decimal.Decimal       `json:"price" binding:"required"`
	DiscountPrice decimal.Decimal       `json:"discount_price"`
	CountInStock  int                   `json:"count_in_stock" binding:"omitempty,gte=0"`
	Sizes         []string              `json:"sizes" binding:"omitempty,dive,max=50"`
	Colors        []string              `json:"colors" binding:"omitempty,dive,max=50"`
	Images        []ProductImageRequest `json:"images" binding:"omitempty,dive"`
	IsPublished   bool                  `json:"is_published"`
}

// UpdateProductRequest is the payload for a partial product update
type UpdateProductRequest struct {
	Name          *string               `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string               `json:"description" binding:"omitempty,max=5000"`
	Brand         *string               `json:"brand" binding:"omitempty,max=100"`
	Category      *string               `json:"category" binding:"omitempty,max=100"`
	Price         *decimal.Decimal      `json:"price" binding:"omitempty"`
	DiscountPrice *decimal.Decimal      `json:"discount_price" binding:"omitempty"`
	CountInStock  *int                  `json:"count_in_stock" binding:"omitempty,gte=0"`
	Sizes         []string              `json:"sizes" binding:"omitempty,dive,max=50"`
	Colors        []string              `json:"colors" binding:"omitempty,dive,max=50"`
	Images        []ProductImageRequest `json:"images" binding:"omitempty,dive"`
	IsPublished   *bool                 `json:"is_published"`
}

func toImageInputs(images []ProductImageRequest) []catalog.ImageDTO {
	if images == nil {
		return nil
	}
	out := make([]catalog.ImageDTO, 0, len(images))
	for _, img := range images {
		out = append(out, catalog.ImageDTO{URL: img.URL, AltText: img.AltText})
	}
	return out
}

// List returns published products for the storefront
// @Summary List products
// @Description Returns published products with pagination and search
// @Tags products
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Search term"
// @Success 200 {object} dto.Response
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.productService.ListPublished(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListAll returns every product, drafts included
// @Summary List all products
// @Description Returns all products regardless of publication state
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.Response
// @Failure 403 {object} dto.Response
// @Router /admin/products [get]
func (h *ProductHandler) ListAll(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.productService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get returns a single product by ID
// @Summary Get product
// @Description Returns a product with its images and variants
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	result, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Create adds a new product to the catalog
// @Summary Create product
// @Description Creates a product. SKU must be unique.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProductRequest true "Product details"
// @Success 201 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 409 {object} dto.Response
// @Router /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	input := catalog.CreateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		SKU:           req.SKU,
		Brand:         req.Brand,
		Category:      req.Category,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		CountInStock:  req.CountInStock,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		Images:        toImageInputs(req.Images),
		IsPublished:   req.IsPublished,
	}
	if userID, err := getUserID(c); err == nil {
		input.CreatedBy = &userID
	}

	result, err := h.productService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Update applies a partial update to a product
// @Summary Update product
// @Description Updates the provided fields. SKU is immutable.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body UpdateProductRequest true "Fields to update"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /admin/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	id, err := uuid.Parse(uriReq.ID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.productService.Update(c.Request.Context(), id, catalog.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Brand:         req.Brand,
		Category:      req.Category,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		CountInStock:  req.CountInStock,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		Images:        toImageInputs(req.Images),
		IsPublished:   req.IsPublished,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes a product from the catalog
// @Summary Delete product
// @Description Deletes a product and its images
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} dto.Response
// @Router /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
