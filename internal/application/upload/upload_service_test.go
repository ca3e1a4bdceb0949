package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karma-shop/backend/internal/domain/shared"
)

// MockObjectStorage is a mock implementation of ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, body, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads valid jpeg and returns url", func(t *testing.T) {
		storage := new(MockObjectStorage)
		storage.On("Upload", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "uploads/") && strings.HasSuffix(key, ".jpg")
		}), mock.Anything, "image/jpeg").Return("https://cdn/img.jpg", nil)

		svc := NewService(storage, 0)

		result, err := svc.UploadImage(ctx, UploadInput{
			Filename:    "photo.jpeg",
			ContentType: "image/jpeg",
			Size:        1024,
			Body:        strings.NewReader("jpeg-bytes"),
		})

		require.NoError(t, err)
		assert.Equal(t, "https://cdn/img.jpg", result.URL)
		assert.True(t, strings.HasPrefix(result.Key, "uploads/"))
		storage.AssertExpectations(t)
	})

	t.Run("rejects missing body", func(t *testing.T) {
		svc := NewService(new(MockObjectStorage), 0)

		_, err := svc.UploadImage(ctx, UploadInput{ContentType: "image/png", Size: 10})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("rejects empty file", func(t *testing.T) {
		svc := NewService(new(MockObjectStorage), 0)

		_, err := svc.UploadImage(ctx, UploadInput{
			ContentType: "image/png",
			Size:        0,
			Body:        strings.NewReader(""),
		})
		assert.Error(t, err)
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		svc := NewService(new(MockObjectStorage), 100)

		_, err := svc.UploadImage(ctx, UploadInput{
			ContentType: "image/png",
			Size:        101,
			Body:        strings.NewReader("x"),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FILE_TOO_LARGE", domainErr.Code)
	})

	t.Run("rejects non-image content type", func(t *testing.T) {
		svc := NewService(new(MockObjectStorage), 0)

		_, err := svc.UploadImage(ctx, UploadInput{
			ContentType: "application/pdf",
			Size:        10,
			Body:        strings.NewReader("pdf"),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", domainErr.Code)
	})

	t.Run("wraps storage failure", func(t *testing.T) {
		storage := new(MockObjectStorage)
		storage.On("Upload", ctx, mock.Anything, mock.Anything, "image/png").
			Return("", errors.New("connection refused"))

		svc := NewService(storage, 0)

		_, err := svc.UploadImage(ctx, UploadInput{
			ContentType: "image/png",
			Size:        10,
			Body:        strings.NewReader("png"),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UPLOAD_FAILED", domainErr.Code)
		storage.AssertExpectations(t)
	})
}

func TestNewServiceDefaults(t *testing.T) {
	svc := NewService(new(MockObjectStorage), 0)
	assert.Equal(t, int64(5<<20), svc.MaxSize())
}
