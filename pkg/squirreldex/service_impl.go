package squirreldex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob storage backend
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithLogger sets the logger used for actor attribution and blob cleanup
// failures
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// Squirrel operations

func (s *service) ListSquirrels(ctx context.Context, page Page) ([]*Squirrel, PageInfo, error) {
	squirrels, total, err := s.repository.ListSquirrels(ctx, page.Offset(), page.PageSize)
	if err != nil {
		return nil, PageInfo{}, fmt.Errorf("list squirrels: %w", err)
	}

	return squirrels, ComputePageInfo(page, total), nil
}

func (s *service) GetSquirrel(ctx context.Context, id int64) (*Squirrel, error) {
	squirrel, err := s.repository.GetSquirrel(ctx, id)
	if err != nil {
		return nil, err
	}
	return squirrel, nil
}

func (s *service) CreateSquirrel(ctx context.Context, actorID string, params CreateSquirrelParams) (*Squirrel, error) {
	squirrel, err := s.repository.CreateSquirrel(ctx, params)
	if err != nil {
		return nil, &SquirrelError{Op: "create", Err: err}
	}

	s.logger.Info("squirrel created", "squirrel_id", squirrel.ID, "actor_id", actorID)
	return squirrel, nil
}

func (s *service) UpdateSquirrel(ctx context.Context, actorID string, id int64, params UpdateSquirrelParams) (*Squirrel, error) {
	squirrel, err := s.repository.UpdateSquirrel(ctx, id, params)
	if err != nil {
		if errors.Is(err, ErrSquirrelNotFound) {
			return nil, err
		}
		return nil, &SquirrelError{SquirrelID: id, Op: "update", Err: err}
	}

	s.logger.Info("squirrel updated", "squirrel_id", id, "actor_id", actorID)
	return squirrel, nil
}

// DeleteSquirrel removes the squirrel row, which cascades to its asset rows,
// and then tries to remove each asset's blob. The relational delete is
// authoritative: a blob that cannot be cleaned up is logged and left behind,
// and one failed cleanup does not stop the others.
func (s *service) DeleteSquirrel(ctx context.Context, actorID string, id int64) error {
	squirrel, err := s.repository.GetSquirrel(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repository.DeleteSquirrel(ctx, id); err != nil {
		if errors.Is(err, ErrSquirrelNotFound) {
			return err
		}
		return &SquirrelError{SquirrelID: id, Op: "delete", Err: err}
	}

	s.logger.Info("squirrel deleted", "squirrel_id", id, "actor_id", actorID)

	for _, asset := range squirrel.Assets {
		if err := s.cleanupBlob(ctx, asset.URL); err != nil {
			s.logger.Warn("failed to delete asset blob",
				"squirrel_id", id, "asset_id", asset.ID, "url", asset.URL, "error", err)
		}
	}

	return nil
}

// Asset operations

func (s *service) UploadAsset(ctx context.Context, actorID string, squirrelID int64, file io.Reader) (*Asset, error) {
	if s.blobStore == nil {
		return nil, fmt.Errorf("no blob store configured")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return nil, ErrUnknownMediaType
	}

	mimeType, ext, ok := DetectImageType(head[:n])
	if !ok {
		if mimeType == "application/octet-stream" {
			return nil, ErrUnknownMediaType
		}
		return nil, ErrUnsupportedMediaType
	}

	name, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate filename: %w", err)
	}

	objectKey := BlobPath(AssetBucket, fmt.Sprintf("%s.%s", name, ext))
	body := io.MultiReader(bytes.NewReader(head[:n]), file)

	// The blob write goes first so the asset row never points at a missing
	// blob. If the row insert below fails the blob is orphaned; that is
	// tolerated, not compensated.
	if err := s.blobStore.Upload(ctx, objectKey, body, mimeType); err != nil {
		return nil, &StorageError{Key: objectKey, Op: "upload", Err: err}
	}

	url, err := s.blobStore.GetURL(ctx, objectKey)
	if err != nil {
		return nil, &StorageError{Key: objectKey, Op: "get_url", Err: err}
	}

	asset, err := s.repository.CreateAsset(ctx, squirrelID, url)
	if err != nil {
		if errors.Is(err, ErrSquirrelNotFound) {
			return nil, err
		}
		return nil, &AssetError{SquirrelID: squirrelID, Op: "create", Err: err}
	}

	s.logger.Info("asset uploaded",
		"squirrel_id", squirrelID, "asset_id", asset.ID, "order", asset.Order, "actor_id", actorID)
	return asset, nil
}

// DeleteAsset removes the asset row and then the backing blob. As with
// DeleteSquirrel, the relational delete is final; a failed blob cleanup is
// logged only.
func (s *service) DeleteAsset(ctx context.Context, actorID string, squirrelID, assetID int64) error {
	asset, err := s.repository.GetAsset(ctx, assetID)
	if err != nil {
		return err
	}
	if asset.SquirrelID != squirrelID {
		return ErrAssetNotFound
	}

	if err := s.repository.DeleteAsset(ctx, squirrelID, assetID); err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return err
		}
		return &AssetError{AssetID: assetID, SquirrelID: squirrelID, Op: "delete", Err: err}
	}

	s.logger.Info("asset deleted",
		"squirrel_id", squirrelID, "asset_id", assetID, "actor_id", actorID)

	if err := s.cleanupBlob(ctx, asset.URL); err != nil {
		s.logger.Warn("failed to delete asset blob",
			"squirrel_id", squirrelID, "asset_id", assetID, "url", asset.URL, "error", err)
	}

	return nil
}

// cleanupBlob reconstructs the object key from a stored URL and removes the
// blob if it is still present.
func (s *service) cleanupBlob(ctx context.Context, url string) error {
	if s.blobStore == nil {
		return nil
	}

	objectKey := BlobPath(AssetBucket, FilenameFromURL(url))

	exists, err := s.blobStore.Exists(ctx, objectKey)
	if err != nil {
		return &StorageError{Key: objectKey, Op: "exists", Err: err}
	}
	if !exists {
		return nil
	}

	if err := s.blobStore.Delete(ctx, objectKey); err != nil {
		return &StorageError{Key: objectKey, Op: "delete", Err: err}
	}

	return nil
}
