package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// sniffLen is how many leading bytes are read to detect the content type.
const sniffLen = 3072

// LocalStore writes blobs into a directory that the HTTP server exposes under urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
	maxBytes  int64
}

func NewLocalStore(dir, urlPrefix string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		maxBytes:  maxBytes,
	}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Put(ctx context.Context, r io.Reader, allowed []string) (string, error) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if n == 0 {
		return "", ErrEmptyFile
	}
	header = header[:n]

	mtype := mimetype.Detect(header)
	if !mimetype.EqualsAny(mtype.String(), allowed...) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
	}

	name := uuid.New().String() + mtype.Extension()
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	body := io.MultiReader(bytes.NewReader(header), r)
	written, err := io.Copy(tmp, io.LimitReader(body, s.maxBytes+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if written > s.maxBytes {
		return "", ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return s.urlPrefix + "/" + name, nil
}

func (s *LocalStore) Delete(_ context.Context, url string) error {
	if !strings.HasPrefix(url, s.urlPrefix+"/") {
		return nil
	}
	// Base drops any path components smuggled into the name
	name := filepath.Base(strings.TrimPrefix(url, s.urlPrefix+"/"))
	if name == "." || name == "/" || strings.HasPrefix(name, ".") {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
