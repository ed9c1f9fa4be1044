package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acornlabs/squirreldex/pkg/squirreldex"
	"github.com/acornlabs/squirreldex/pkg/squirreldex/repo/postgres"
)

// newTestRepository connects to the database named by TEST_DATABASE_URL and
// prepares empty tables. Tests are skipped when the variable is unset.
func newTestRepository(t *testing.T) *postgres.Repository {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres integration tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(ctx), "Failed to ping test database")

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS squirrels (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			scientific_name TEXT NOT NULL,
			common_name TEXT NOT NULL,
			description TEXT NOT NULL,
			female_size TEXT NOT NULL,
			male_size TEXT NOT NULL,
			distribution TEXT NOT NULL,
			variations JSONB NOT NULL DEFAULT '[]',
			conservation TEXT NOT NULL,
			population_trend TEXT NOT NULL,
			habitat TEXT NOT NULL,
			general TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	require.NoError(t, err, "Failed to create squirrels table")

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS assets (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			squirrel_id BIGINT NOT NULL REFERENCES squirrels(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			description TEXT,
			"order" INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	require.NoError(t, err, "Failed to create assets table")

	_, err = pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS assets_squirrel_id_idx ON assets (squirrel_id)`)
	require.NoError(t, err, "Failed to create assets index")

	_, err = pool.Exec(ctx, `TRUNCATE assets, squirrels RESTART IDENTITY`)
	require.NoError(t, err, "Failed to truncate tables")

	return postgres.NewWithPool(pool)
}

func createTestSquirrel(t *testing.T, repo *postgres.Repository, scientificName string) *squirreldex.Squirrel {
	t.Helper()

	sq, err := repo.CreateSquirrel(context.Background(), squirreldex.CreateSquirrelParams{
		ScientificName:  scientificName,
		CommonName:      "Test squirrel",
		Description:     "A squirrel used in tests.",
		FemaleSize:      "200mm",
		MaleSize:        "210mm",
		Distribution:    "Everywhere",
		Variations:      []string{"T. t. testus"},
		Conservation:    "Least Concern",
		PopulationTrend: "Stable",
		Habitat:         "Forests",
	})
	require.NoError(t, err)
	return sq
}

func TestPostgresSquirrelCRUD(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	sq := createTestSquirrel(t, repo, "Sciurus vulgaris")
	assert.NotZero(t, sq.ID)
	assert.Equal(t, []string{"T. t. testus"}, sq.Variations)
	assert.Empty(t, sq.Assets)
	assert.WithinDuration(t, time.Now(), sq.CreatedAt, time.Minute)

	got, err := repo.GetSquirrel(ctx, sq.ID)
	require.NoError(t, err)
	assert.Equal(t, sq.ID, got.ID)
	assert.Equal(t, sq.ScientificName, got.ScientificName)

	habitat := "Taiga"
	updated, err := repo.UpdateSquirrel(ctx, sq.ID, squirreldex.UpdateSquirrelParams{
		Habitat: &habitat,
	})
	require.NoError(t, err)
	assert.Equal(t, "Taiga", updated.Habitat)
	assert.Equal(t, sq.ScientificName, updated.ScientificName)

	require.NoError(t, repo.DeleteSquirrel(ctx, sq.ID))
	_, err = repo.GetSquirrel(ctx, sq.ID)
	assert.ErrorIs(t, err, squirreldex.ErrSquirrelNotFound)
}

func TestPostgresNotFound(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.GetSquirrel(ctx, 999999)
	assert.ErrorIs(t, err, squirreldex.ErrSquirrelNotFound)

	_, err = repo.UpdateSquirrel(ctx, 999999, squirreldex.UpdateSquirrelParams{})
	assert.ErrorIs(t, err, squirreldex.ErrSquirrelNotFound)

	assert.ErrorIs(t, repo.DeleteSquirrel(ctx, 999999), squirreldex.ErrSquirrelNotFound)

	_, err = repo.GetAsset(ctx, 999999)
	assert.ErrorIs(t, err, squirreldex.ErrAssetNotFound)

	_, err = repo.CreateAsset(ctx, 999999, "http://blobs/assets/a.png")
	assert.ErrorIs(t, err, squirreldex.ErrSquirrelNotFound)
}

func TestPostgresListSquirrels(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	names := []string{"Tamias striatus", "Sciurus vulgaris", "Marmota marmota"}
	for _, name := range names {
		createTestSquirrel(t, repo, name)
	}

	squirrels, total, err := repo.ListSquirrels(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, squirrels, 3)

	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	for i, sq := range squirrels {
		assert.Equal(t, sorted[i], sq.ScientificName)
	}

	slice, total, err := repo.ListSquirrels(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, slice, 1)
	assert.Equal(t, sorted[1], slice[0].ScientificName)
}

func TestPostgresAssetLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	sq := createTestSquirrel(t, repo, "Sciurus niger")

	first, err := repo.CreateAsset(ctx, sq.ID, "http://blobs/assets/a.png")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Order)

	second, err := repo.CreateAsset(ctx, sq.ID, "http://blobs/assets/b.png")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Order)

	hydrated, err := repo.GetSquirrel(ctx, sq.ID)
	require.NoError(t, err)
	require.Len(t, hydrated.Assets, 2)
	assert.Equal(t, "http://blobs/assets/a.png", hydrated.Assets[0].URL)

	// wrong owner deletes nothing
	err = repo.DeleteAsset(ctx, sq.ID+1, first.ID)
	assert.ErrorIs(t, err, squirreldex.ErrAssetNotFound)

	require.NoError(t, repo.DeleteAsset(ctx, sq.ID, first.ID))
	_, err = repo.GetAsset(ctx, first.ID)
	assert.ErrorIs(t, err, squirreldex.ErrAssetNotFound)

	// cascade
	require.NoError(t, repo.DeleteSquirrel(ctx, sq.ID))
	_, err = repo.GetAsset(ctx, second.ID)
	assert.ErrorIs(t, err, squirreldex.ErrAssetNotFound)
}

func TestPostgresConcurrentCreateAsset(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	sq := createTestSquirrel(t, repo, "Sciurus aberti")

	const n = 20
	var wg sync.WaitGroup
	orders := make([]int, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			asset, err := repo.CreateAsset(ctx, sq.ID, fmt.Sprintf("http://blobs/assets/%d.png", i))
			if err != nil {
				errs[i] = err
				return
			}
			orders[i] = asset.Order
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	sort.Ints(orders)
	for i, order := range orders {
		assert.Equal(t, i+1, order)
	}
}
