package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/karma-shop/backend/internal/application/upload"
)

// UploadHandler handles image upload endpoints
type UploadHandler struct {
	BaseHandler
	uploadService *upload.Service
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *upload.Service) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadImage stores a product image and returns its public URL
// @Summary Upload image
// @Description Accepts a multipart image file and returns its public URL
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 201 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 413 {object} dto.Response
// @Failure 415 {object} dto.Response
// @Router /admin/upload [post]
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.BadRequest(c, "An image file is required in the 'image' form field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Uploaded file could not be read")
		return
	}
	defer file.Close()

	result, err := h.uploadService.UploadImage(c.Request.Context(), upload.UploadInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
