// Package fs provides a filesystem squirreldex.BlobStore. Blobs live under a
// base directory and are served by an external static file server reachable
// at the configured URL prefix.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Config options for the filesystem backend
type Config struct {
	BaseDir   string // Base directory for storing files
	URLPrefix string // URL prefix under which the base directory is served
}

// Backend is a filesystem implementation of the squirreldex.BlobStore interface
type Backend struct {
	baseDir   string
	urlPrefix string
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if config.URLPrefix == "" {
		return nil, errors.New("url prefix is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: config.URLPrefix,
	}, nil
}

// Upload writes the blob to the filesystem under the object key
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader, contentType string) error {
	filePath := filepath.Join(b.baseDir, objectKey)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// GetURL returns the public URL for an object key
func (b *Backend) GetURL(ctx context.Context, objectKey string) (string, error) {
	return fmt.Sprintf("%s/%s", b.urlPrefix, objectKey), nil
}

// Exists reports whether a file is present under the key
func (b *Backend) Exists(ctx context.Context, objectKey string) (bool, error) {
	_, err := os.Stat(filepath.Join(b.baseDir, objectKey))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return true, nil
}

// Delete removes the file under the key
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	filePath := filepath.Join(b.baseDir, objectKey)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return errors.New("object not found")
	}

	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
