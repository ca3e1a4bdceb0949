// Package upload contains the application service for image uploads.
package upload

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/karma-shop/backend/internal/domain/shared"
	"github.com/karma-shop/backend/internal/infrastructure/logger"
)

// ObjectStorage is the port to an object store holding uploaded files
type ObjectStorage interface {
	// Upload streams an object and returns its public URL
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)

	// Delete removes an object
	Delete(ctx context.Context, key string) error

	// Exists checks if an object is present
	Exists(ctx context.Context, key string) (bool, error)
}

// allowedImageTypes maps accepted content types to their file extension
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Service handles image uploads to object storage
type Service struct {
	storage   ObjectStorage
	maxSize   int64
	keyPrefix string
}

// NewService creates a new upload service. maxSize bounds the accepted
// file size in bytes; zero falls back to 5MB.
func NewService(storage ObjectStorage, maxSize int64) *Service {
	if maxSize <= 0 {
		maxSize = 5 << 20
	}
	return &Service{
		storage:   storage,
		maxSize:   maxSize,
		keyPrefix: "uploads/",
	}
}

// UploadInput carries an uploaded file into the service
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult is returned after a successful upload
type UploadResult struct {
	URL string `json:"image_url"`
	Key string `json:"key"`
}

// UploadImage validates and stores an uploaded image, returning its public URL
func (s *Service) UploadImage(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if input.Body == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "No file provided")
	}
	if input.Size <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Uploaded file is empty")
	}
	if input.Size > s.maxSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "Uploaded file exceeds the size limit")
	}

	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Only image uploads are supported")
	}

	// Never trust the client filename beyond its extension
	if fromName := strings.ToLower(path.Ext(input.Filename)); fromName == ".jpeg" {
		ext = ".jpg"
	}

	key := s.keyPrefix + uuid.NewString() + ext

	url, err := s.storage.Upload(ctx, key, io.LimitReader(input.Body, s.maxSize), contentType)
	if err != nil {
		logger.L(ctx).Error("image upload failed", zap.String("key", key), zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to store uploaded file")
	}

	logger.L(ctx).Info("image uploaded", zap.String("key", key), zap.Int64("size", input.Size))
	return &UploadResult{URL: url, Key: key}, nil
}

// MaxSize returns the configured upload size limit in bytes
func (s *Service) MaxSize() int64 {
	return s.maxSize
}
