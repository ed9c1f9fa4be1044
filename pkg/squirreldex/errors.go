package squirreldex

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrSquirrelNotFound indicates a squirrel was not found
	ErrSquirrelNotFound = errors.New("squirrel not found")

	// ErrAssetNotFound indicates an asset was not found or is not owned by
	// the given squirrel
	ErrAssetNotFound = errors.New("asset not found")

	// ErrUnknownMediaType indicates the uploaded file's type could not be
	// determined from its contents
	ErrUnknownMediaType = errors.New("unable to determine file type")

	// ErrUnsupportedMediaType indicates the uploaded file is not one of the
	// allowed image types
	ErrUnsupportedMediaType = errors.New("unsupported file type")

	// ErrValidationFailed indicates malformed input
	ErrValidationFailed = errors.New("validation failed")
)

// SquirrelError represents an error related to squirrel operations
type SquirrelError struct {
	SquirrelID int64
	Op         string
	Err        error
}

func (e *SquirrelError) Error() string {
	return fmt.Sprintf("squirrel operation %s failed for squirrel %d: %v", e.Op, e.SquirrelID, e.Err)
}

func (e *SquirrelError) Unwrap() error {
	return e.Err
}

// AssetError represents an error related to asset operations
type AssetError struct {
	AssetID    int64
	SquirrelID int64
	Op         string
	Err        error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset operation %s failed for asset %d (squirrel %d): %v", e.Op, e.AssetID, e.SquirrelID, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
