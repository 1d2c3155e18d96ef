package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*LocalStorage, string) {
	t.Helper()

	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/uploads/")
	require.NoError(t, err)

	return s, dir
}

func TestSave(t *testing.T) {
	s, dir := newTestStorage(t)
	ctx := context.Background()

	t.Run("With Prefix", func(t *testing.T) {
		url, err := s.Save(ctx, "salon-3", "photo.jpg", []byte("jpeg bytes"))
		require.NoError(t, err)
		assert.Equal(t, "/uploads/salon-3/photo.jpg", url)

		data, err := os.ReadFile(filepath.Join(dir, "salon-3", "photo.jpg"))
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg bytes"), data)
	})

	t.Run("Without Prefix", func(t *testing.T) {
		url, err := s.Save(ctx, "", "banner.png", []byte("png bytes"))
		require.NoError(t, err)
		assert.Equal(t, "/uploads/banner.png", url)
	})

	t.Run("Sanitizes Traversal Attempts", func(t *testing.T) {
		url, err := s.Save(ctx, "../etc", "pass wd.jpg", []byte("x"))
		require.NoError(t, err)
		assert.Equal(t, "/uploads/___etc/pass_wd.jpg", url)

		_, err = os.Stat(filepath.Join(dir, "___etc", "pass_wd.jpg"))
		assert.NoError(t, err)
	})
}

func TestDelete(t *testing.T) {
	s, dir := newTestStorage(t)
	ctx := context.Background()

	t.Run("Removes Saved Object", func(t *testing.T) {
		url, err := s.Save(ctx, "salon-3", "photo.jpg", []byte("jpeg bytes"))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, url))

		_, err = os.Stat(filepath.Join(dir, "salon-3", "photo.jpg"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Ignores Missing Object", func(t *testing.T) {
		assert.NoError(t, s.Delete(ctx, "/uploads/salon-3/gone.jpg"))
	})

	t.Run("Ignores Foreign URL", func(t *testing.T) {
		assert.NoError(t, s.Delete(ctx, "https://cdn.example.com/photo.jpg"))
	})
}

func TestSanitizePathSegment(t *testing.T) {
	assert.Equal(t, "salon-3", SanitizePathSegment(" salon-3 "))
	assert.Equal(t, "______etc", SanitizePathSegment("../.. etc"))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "photo.jpg", SanitizeFileName("photo.jpg"))
	assert.Equal(t, "my_photo.jpg", SanitizeFileName("my photo.jpg"))
	assert.Equal(t, "noext", SanitizeFileName("noext"))
	assert.Equal(t, "___etc_passwd", SanitizeFileName("../etc/passwd"))
}
