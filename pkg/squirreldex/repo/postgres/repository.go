// Package postgres implements squirreldex.Repository on PostgreSQL using
// pgx. Asset order assignment runs inside a transaction that locks the
// owning squirrel row, so concurrent creations for the same squirrel are
// serialized by the database.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acornlabs/squirreldex/pkg/squirreldex"
)

// DB is the subset of pgxpool.Pool the repository needs. Both *pgxpool.Pool
// and *pgx.Conn satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository implements squirreldex.Repository using PostgreSQL
type Repository struct {
	db DB
}

// New creates a new PostgreSQL repository
func New(db DB) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with a connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Error handling helper
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return squirreldex.ErrSquirrelNotFound
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

const squirrelColumns = `id, scientific_name, common_name, description, female_size, male_size,
	distribution, variations, conservation, population_trend, habitat, general,
	created_at, updated_at`

const assetColumns = `id, squirrel_id, url, description, "order", created_at, updated_at`

func scanSquirrel(row pgx.Row) (*squirreldex.Squirrel, error) {
	var sq squirreldex.Squirrel
	err := row.Scan(
		&sq.ID, &sq.ScientificName, &sq.CommonName, &sq.Description,
		&sq.FemaleSize, &sq.MaleSize, &sq.Distribution, &sq.Variations,
		&sq.Conservation, &sq.PopulationTrend, &sq.Habitat, &sq.General,
		&sq.CreatedAt, &sq.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if sq.Variations == nil {
		sq.Variations = []string{}
	}
	sq.Assets = []squirreldex.Asset{}
	return &sq, nil
}

func scanAsset(row pgx.Row) (*squirreldex.Asset, error) {
	var a squirreldex.Asset
	err := row.Scan(&a.ID, &a.SquirrelID, &a.URL, &a.Description, &a.Order, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Squirrel operations

func (r *Repository) ListSquirrels(ctx context.Context, offset, limit int) ([]*squirreldex.Squirrel, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM squirrels`).Scan(&total); err != nil {
		return nil, 0, handlePostgresError("count squirrels", err)
	}

	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
		SELECT %s FROM squirrels
		ORDER BY scientific_name ASC, id ASC
		LIMIT $1 OFFSET $2`, squirrelColumns)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, handlePostgresError("list squirrels", err)
	}
	defer rows.Close()

	var squirrels []*squirreldex.Squirrel
	byID := make(map[int64]*squirreldex.Squirrel)
	var ids []int64
	for rows.Next() {
		sq, err := scanSquirrel(rows)
		if err != nil {
			return nil, 0, handlePostgresError("scan squirrel", err)
		}
		squirrels = append(squirrels, sq)
		byID[sq.ID] = sq
		ids = append(ids, sq.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, handlePostgresError("list squirrels", err)
	}

	if len(ids) > 0 {
		query := fmt.Sprintf(`
			SELECT %s FROM assets
			WHERE squirrel_id = ANY($1)
			ORDER BY squirrel_id ASC, "order" ASC`, assetColumns)

		assetRows, err := r.db.Query(ctx, query, ids)
		if err != nil {
			return nil, 0, handlePostgresError("list assets", err)
		}
		defer assetRows.Close()

		for assetRows.Next() {
			asset, err := scanAsset(assetRows)
			if err != nil {
				return nil, 0, handlePostgresError("scan asset", err)
			}
			if sq, ok := byID[asset.SquirrelID]; ok {
				sq.Assets = append(sq.Assets, *asset)
			}
		}
		if err := assetRows.Err(); err != nil {
			return nil, 0, handlePostgresError("list assets", err)
		}
	}

	if squirrels == nil {
		squirrels = []*squirreldex.Squirrel{}
	}

	return squirrels, total, nil
}

func (r *Repository) GetSquirrel(ctx context.Context, id int64) (*squirreldex.Squirrel, error) {
	query := fmt.Sprintf(`SELECT %s FROM squirrels WHERE id = $1`, squirrelColumns)

	sq, err := scanSquirrel(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, squirreldex.ErrSquirrelNotFound
		}
		return nil, handlePostgresError("get squirrel", err)
	}

	assets, err := r.assetsForSquirrel(ctx, id)
	if err != nil {
		return nil, err
	}
	sq.Assets = assets

	return sq, nil
}

func (r *Repository) assetsForSquirrel(ctx context.Context, squirrelID int64) ([]squirreldex.Asset, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM assets
		WHERE squirrel_id = $1
		ORDER BY "order" ASC`, assetColumns)

	rows, err := r.db.Query(ctx, query, squirrelID)
	if err != nil {
		return nil, handlePostgresError("list assets", err)
	}
	defer rows.Close()

	assets := []squirreldex.Asset{}
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, handlePostgresError("scan asset", err)
		}
		assets = append(assets, *asset)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list assets", err)
	}

	return assets, nil
}

func (r *Repository) CreateSquirrel(ctx context.Context, params squirreldex.CreateSquirrelParams) (*squirreldex.Squirrel, error) {
	variations := params.Variations
	if variations == nil {
		variations = []string{}
	}

	query := `
		INSERT INTO squirrels (
			scientific_name, common_name, description, female_size, male_size,
			distribution, variations, conservation, population_trend, habitat, general
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		params.ScientificName, params.CommonName, params.Description,
		params.FemaleSize, params.MaleSize, params.Distribution, variations,
		params.Conservation, params.PopulationTrend, params.Habitat, params.General).Scan(&id)
	if err != nil {
		return nil, handlePostgresError("create squirrel", err)
	}

	return r.GetSquirrel(ctx, id)
}

func (r *Repository) UpdateSquirrel(ctx context.Context, id int64, params squirreldex.UpdateSquirrelParams) (*squirreldex.Squirrel, error) {
	var sets []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.ScientificName != nil {
		add("scientific_name", *params.ScientificName)
	}
	if params.CommonName != nil {
		add("common_name", *params.CommonName)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.FemaleSize != nil {
		add("female_size", *params.FemaleSize)
	}
	if params.MaleSize != nil {
		add("male_size", *params.MaleSize)
	}
	if params.Distribution != nil {
		add("distribution", *params.Distribution)
	}
	if params.Variations != nil {
		add("variations", *params.Variations)
	}
	if params.Conservation != nil {
		add("conservation", *params.Conservation)
	}
	if params.PopulationTrend != nil {
		add("population_trend", *params.PopulationTrend)
	}
	if params.Habitat != nil {
		add("habitat", *params.Habitat)
	}
	if params.General != nil {
		add("general", *params.General)
	}

	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE squirrels SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, handlePostgresError("update squirrel", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, squirreldex.ErrSquirrelNotFound
	}

	return r.GetSquirrel(ctx, id)
}

func (r *Repository) DeleteSquirrel(ctx context.Context, id int64) error {
	// asset rows go with the squirrel via ON DELETE CASCADE
	tag, err := r.db.Exec(ctx, `DELETE FROM squirrels WHERE id = $1`, id)
	if err != nil {
		return handlePostgresError("delete squirrel", err)
	}
	if tag.RowsAffected() == 0 {
		return squirreldex.ErrSquirrelNotFound
	}

	return nil
}

// Asset operations

func (r *Repository) GetAsset(ctx context.Context, assetID int64) (*squirreldex.Asset, error) {
	query := fmt.Sprintf(`SELECT %s FROM assets WHERE id = $1`, assetColumns)

	asset, err := scanAsset(r.db.QueryRow(ctx, query, assetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, squirreldex.ErrAssetNotFound
		}
		return nil, handlePostgresError("get asset", err)
	}

	return asset, nil
}

func (r *Repository) CreateAsset(ctx context.Context, squirrelID int64, url string) (*squirreldex.Asset, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handlePostgresError("begin create asset", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the owning squirrel row. This serializes order assignment per
	// squirrel and verifies the squirrel exists before the insert.
	var ownerID int64
	err = tx.QueryRow(ctx, `SELECT id FROM squirrels WHERE id = $1 FOR UPDATE`, squirrelID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, squirreldex.ErrSquirrelNotFound
		}
		return nil, handlePostgresError("lock squirrel", err)
	}

	var maxOrder int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX("order"), 0) FROM assets WHERE squirrel_id = $1`,
		squirrelID).Scan(&maxOrder)
	if err != nil {
		return nil, handlePostgresError("read max order", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO assets (squirrel_id, url, "order")
		VALUES ($1, $2, $3)
		RETURNING %s`, assetColumns)

	asset, err := scanAsset(tx.QueryRow(ctx, query, squirrelID, url, maxOrder+1))
	if err != nil {
		return nil, handlePostgresError("create asset", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, handlePostgresError("commit create asset", err)
	}

	return asset, nil
}

func (r *Repository) DeleteAsset(ctx context.Context, squirrelID, assetID int64) error {
	// ownership check lives in the delete predicate itself, so there is no
	// window between a read and the delete
	tag, err := r.db.Exec(ctx,
		`DELETE FROM assets WHERE id = $1 AND squirrel_id = $2`, assetID, squirrelID)
	if err != nil {
		return handlePostgresError("delete asset", err)
	}
	if tag.RowsAffected() == 0 {
		return squirreldex.ErrAssetNotFound
	}

	return nil
}
