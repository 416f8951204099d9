package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidPath  = errors.New("invalid file path")
	ErrFileNotFound = errors.New("file not found")
)

// FileStorage stores uploaded photos under stable refs.
type FileStorage interface {
	// Upload stores file at path and returns its ref.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	Download(ctx context.Context, ref string) (io.ReadCloser, error)

	// Delete is a no-op for a missing ref.
	Delete(ctx context.Context, ref string) error

	// GetURL returns the public URL of ref.
	GetURL(ref string) string
}
