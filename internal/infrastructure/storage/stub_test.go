package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("upload returns public url and stores object", func(t *testing.T) {
		s := NewStubObjectStorage()

		url, err := s.Upload(ctx, "images/test.png", strings.NewReader("png-bytes"), "image/png")
		require.NoError(t, err)
		assert.Equal(t, "https://storage.example.com/images/test.png", url)

		exists, err := s.Exists(ctx, "images/test.png")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		s := NewStubObjectStorage()

		_, err := s.Upload(ctx, "", strings.NewReader("x"), "image/png")
		assert.Error(t, err)

		_, err = s.Exists(ctx, "")
		assert.Error(t, err)

		assert.Error(t, s.Delete(ctx, ""))
	})

	t.Run("delete removes object", func(t *testing.T) {
		s := NewStubObjectStorage()

		_, err := s.Upload(ctx, "images/gone.png", strings.NewReader("x"), "image/png")
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, "images/gone.png"))

		exists, err := s.Exists(ctx, "images/gone.png")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("custom base url is honored", func(t *testing.T) {
		s := NewStubObjectStorage()
		s.BaseURL = "http://cdn.local/"

		assert.Equal(t, "http://cdn.local/a/b.jpg", s.PublicURL("/a/b.jpg"))
	})
}
