package squirreldex

import (
	"context"
	"io"
)

// BlobStore defines the interface for blob storage backends.
//
// Calls are independent network operations with no transactional coupling to
// the repository; callers decide ordering and compensation.
type BlobStore interface {
	// Upload stores the blob under the given object key
	Upload(ctx context.Context, objectKey string, reader io.Reader, contentType string) error

	// GetURL returns the public URL for an object key. The trailing path
	// segment of the returned URL is always the key's filename, so the key
	// can later be reconstructed from a stored URL.
	GetURL(ctx context.Context, objectKey string) (string, error)

	// Exists reports whether an object is present under the key
	Exists(ctx context.Context, objectKey string) (bool, error)

	// Delete removes the object under the key
	Delete(ctx context.Context, objectKey string) error
}

// Repository defines the interface for squirrel and asset persistence.
type Repository interface {
	// Squirrel operations
	ListSquirrels(ctx context.Context, offset, limit int) ([]*Squirrel, int, error)
	GetSquirrel(ctx context.Context, id int64) (*Squirrel, error)
	CreateSquirrel(ctx context.Context, params CreateSquirrelParams) (*Squirrel, error)
	UpdateSquirrel(ctx context.Context, id int64, params UpdateSquirrelParams) (*Squirrel, error)
	DeleteSquirrel(ctx context.Context, id int64) error

	// Asset operations. CreateAsset assigns the asset's order inside a
	// single transaction: it reads the current maximum order for the
	// squirrel (0 if none) and inserts with max+1. Concurrent creations for
	// the same squirrel must never assign the same order value.
	GetAsset(ctx context.Context, assetID int64) (*Asset, error)
	CreateAsset(ctx context.Context, squirrelID int64, url string) (*Asset, error)
	DeleteAsset(ctx context.Context, squirrelID, assetID int64) error
}
