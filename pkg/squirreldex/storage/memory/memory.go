// Package memory provides an in-memory squirreldex.BlobStore for tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

const defaultURLPrefix = "memory://blobs"

// Backend is an in-memory implementation of the squirreldex.BlobStore interface
type Backend struct {
	mu        sync.RWMutex
	objects   map[string][]byte
	mimeTypes map[string]string
	urlPrefix string
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects:   make(map[string][]byte),
		mimeTypes: make(map[string]string),
		urlPrefix: defaultURLPrefix,
	}
}

// Upload stores the blob under the given key
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[objectKey] = data
	b.mimeTypes[objectKey] = contentType
	return nil
}

// GetURL returns a synthetic URL whose trailing segment is the key's filename
func (b *Backend) GetURL(ctx context.Context, objectKey string) (string, error) {
	return fmt.Sprintf("%s/%s", b.urlPrefix, objectKey), nil
}

// Exists reports whether a blob is stored under the key
func (b *Backend) Exists(ctx context.Context, objectKey string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.objects[objectKey]
	return exists, nil
}

// Delete removes the blob under the key
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return errors.New("object not found")
	}

	delete(b.objects, objectKey)
	delete(b.mimeTypes, objectKey)
	return nil
}

// Get returns the stored bytes and content type for a key. Test helper.
func (b *Backend) Get(objectKey string) ([]byte, string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, "", false
	}
	return data, b.mimeTypes[objectKey], true
}
