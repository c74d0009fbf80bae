package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	ErrEmptyFile       = errors.New("empty file")
)

var (
	// DocumentTypes are accepted for submission files.
	DocumentTypes = []string{"application/pdf", "image/jpeg", "image/png", "image/webp"}
	// ImageTypes are accepted for avatars.
	ImageTypes = []string{"image/jpeg", "image/png", "image/webp"}
)

// BlobStore keeps uploaded files and hands back the public URL they are served from.
type BlobStore interface {
	// Put stores r after checking its sniffed content type against allowed.
	Put(ctx context.Context, r io.Reader, allowed []string) (string, error)
	// Delete removes the blob behind url. Unknown urls are not an error.
	Delete(ctx context.Context, url string) error
}
