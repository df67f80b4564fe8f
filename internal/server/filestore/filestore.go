// Package filestore keeps uploaded audio blobs in a single flat namespace.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound indicates that no blob is stored under the requested name
	ErrNotFound = errors.New("file not found")

	// ErrInvalidName indicates a name that cannot be stored in a flat namespace
	ErrInvalidName = errors.New("invalid file name")
)

// Store persists and serves uploaded blobs by name
type Store interface {
	// Save writes the blob and returns its location inside the store
	Save(ctx context.Context, name string, r io.Reader, size int64) (string, error)

	// Open returns a reader for the blob. Returns ErrNotFound if it doesn't exist.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// CleanName reduces a client supplied file name to its base element
func CleanName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	if base == "" || base == "." || base == ".." || base == "/" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return base, nil
}
