package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*LocalStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "http://example.com/")
	require.NoError(t, err)
	return s, dir
}

// fileFor maps a URL returned by Store back to its path on disk.
func fileFor(dir, url string) string {
	name := url[strings.LastIndex(url, "/")+1:]
	return filepath.Join(dir, imagesSubdir, name)
}

func TestLocalStoreRoundTrip(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	url, err := s.Store(ctx, 7, strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://example.com/uploads/todo_images/todo_7_"), "got %s", url)
	assert.True(t, strings.HasSuffix(url, ".png"), "got %s", url)

	data, err := os.ReadFile(fileFor(dir, url))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Delete(ctx, url))
	_, err = os.Stat(fileFor(dir, url))
	assert.True(t, os.IsNotExist(err), "file should be gone after delete")
}

func TestLocalStoreRejectsContentType(t *testing.T) {
	s, dir := newTestStore(t)

	_, err := s.Store(context.Background(), 1, strings.NewReader("plain"), "text/plain")
	assert.ErrorIs(t, err, ErrInvalidContentType)

	// Nothing may be written for a rejected upload.
	entries, err := os.ReadDir(filepath.Join(dir, imagesSubdir))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStoreDeleteIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	url, err := s.Store(ctx, 2, strings.NewReader("x"), "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, url))
	require.NoError(t, s.Delete(ctx, url), "second delete must not error")

	// URLs that never belonged to the store are ignored.
	require.NoError(t, s.Delete(ctx, "http://elsewhere.example.com/image.png"))
}

func TestLocalStoreKeysDoNotCollide(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		url, err := s.Store(ctx, 3, strings.NewReader("x"), "image/webp")
		require.NoError(t, err)
		assert.False(t, seen[url], "duplicate key %s", url)
		seen[url] = true
	}
}
