package squirreldex

import (
	"context"
	"io"
)

// Service defines the main interface for the squirreldex library.
//
// Mutating operations take the acting user's opaque ID for attribution; the
// caller (normally the HTTP layer) is responsible for authenticating it.
type Service interface {
	// Squirrel operations
	ListSquirrels(ctx context.Context, page Page) ([]*Squirrel, PageInfo, error)
	GetSquirrel(ctx context.Context, id int64) (*Squirrel, error)
	CreateSquirrel(ctx context.Context, actorID string, params CreateSquirrelParams) (*Squirrel, error)
	UpdateSquirrel(ctx context.Context, actorID string, id int64, params UpdateSquirrelParams) (*Squirrel, error)
	DeleteSquirrel(ctx context.Context, actorID string, id int64) error

	// Asset operations
	UploadAsset(ctx context.Context, actorID string, squirrelID int64, file io.Reader) (*Asset, error)
	DeleteAsset(ctx context.Context, actorID string, squirrelID, assetID int64) error
}
