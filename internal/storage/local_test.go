package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
)

func newStore(t *testing.T, maxBytes int64) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), "/uploads/", maxBytes)
	require.NoError(t, err)
	return store
}

func TestLocalStore_PutPDF(t *testing.T) {
	store := newStore(t, 1<<20)

	url, err := store.Put(context.Background(), bytes.NewReader(pdfBytes), DocumentTypes)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))

	stored, err := os.ReadFile(filepath.Join(store.Dir(), strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, stored)
}

func TestLocalStore_RejectsPDFAsAvatar(t *testing.T) {
	store := newStore(t, 1<<20)

	_, err := store.Put(context.Background(), bytes.NewReader(pdfBytes), ImageTypes)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLocalStore_AcceptsPNGAvatar(t *testing.T) {
	store := newStore(t, 1<<20)

	url, err := store.Put(context.Background(), bytes.NewReader(pngBytes), ImageTypes)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".png"))
}

func TestLocalStore_RejectsText(t *testing.T) {
	store := newStore(t, 1<<20)

	_, err := store.Put(context.Background(), strings.NewReader("just some notes"), DocumentTypes)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLocalStore_TooLarge(t *testing.T) {
	store := newStore(t, 16)

	_, err := store.Put(context.Background(), bytes.NewReader(pdfBytes), DocumentTypes)
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "partial uploads must not be left behind")
}

func TestLocalStore_Empty(t *testing.T) {
	store := newStore(t, 16)

	_, err := store.Put(context.Background(), bytes.NewReader(nil), DocumentTypes)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestLocalStore_Delete(t *testing.T) {
	store := newStore(t, 1<<20)
	url, err := store.Put(context.Background(), bytes.NewReader(pdfBytes), DocumentTypes)
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), url))
	_, statErr := os.Stat(filepath.Join(store.Dir(), strings.TrimPrefix(url, "/uploads/")))
	assert.True(t, os.IsNotExist(statErr))

	// deleting twice or deleting foreign urls is harmless
	assert.NoError(t, store.Delete(context.Background(), url))
	assert.NoError(t, store.Delete(context.Background(), "https://elsewhere.example/file.pdf"))
	assert.NoError(t, store.Delete(context.Background(), "/uploads/../../etc/passwd"))
}
