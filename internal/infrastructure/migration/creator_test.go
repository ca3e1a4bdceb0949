package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	t.Run("writes an up and down file pair", func(t *testing.T) {
		dir := t.TempDir()

		pair, err := Create(dir, "add carts table")
		require.NoError(t, err)

		assert.FileExists(t, pair.UpPath)
		assert.FileExists(t, pair.DownPath)
		assert.True(t, strings.HasSuffix(pair.UpPath, "_add_carts_table.up.sql"))
		assert.True(t, strings.HasSuffix(pair.DownPath, "_add_carts_table.down.sql"))
		assert.Len(t, pair.Version, 14)

		content, err := os.ReadFile(pair.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), "add carts table")
	})

	t.Run("creates the directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "migrations")

		_, err := Create(dir, "init")
		require.NoError(t, err)
		assert.DirExists(t, dir)
	})
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"add carts table":    "add_carts_table",
		"Add-Product  Index": "add_product_index",
		"add__carts__table":  "add_carts_table",
		"   spaces   ":       "spaces",
		"_leading":           "leading",
		"trailing_":          "trailing",
		"UPPER case 123":     "upper_case_123",
		"weird!@#chars":      "weirdchars",
		"":                   "",
	}
	for input, want := range cases {
		assert.Equal(t, want, sanitizeName(input), input)
	}
}

func TestList(t *testing.T) {
	t.Run("returns base names of up migrations", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"20250101000000_init.up.sql",
			"20250101000000_init.down.sql",
			"20250102000000_add_carts.up.sql",
			"20250102000000_add_carts.down.sql",
			"notes.txt",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}

		names, err := List(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"20250101000000_init", "20250102000000_add_carts"}, names)
	})

	t.Run("missing directory is empty, not an error", func(t *testing.T) {
		names, err := List(filepath.Join(t.TempDir(), "missing"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
