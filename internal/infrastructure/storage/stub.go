// Package storage provides object storage implementations for file operations.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/karma-shop/backend/internal/application/upload"
)

// StubObjectStorage is an in-memory implementation of upload.ObjectStorage.
// Use this for development and tests when no S3-compatible backend is
// configured; uploaded objects live only for the process lifetime.
type StubObjectStorage struct {
	// BaseURL is the base URL for generated object links.
	// Defaults to "https://storage.example.com" if not set.
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Ensure StubObjectStorage implements upload.ObjectStorage
var _ upload.ObjectStorage = (*StubObjectStorage)(nil)

// Upload stores the object in memory and returns its public URL
func (s *StubObjectStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return s.PublicURL(key), nil
}

// Delete removes an object from the in-memory store
func (s *StubObjectStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Exists checks if an object is in the in-memory store
func (s *StubObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	return ok, nil
}

// PublicURL returns the public URL for a stored object
func (s *StubObjectStorage) PublicURL(key string) string {
	return strings.TrimSuffix(s.BaseURL, "/") + "/" + strings.TrimPrefix(key, "/")
}
