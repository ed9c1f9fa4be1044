// Package memory provides an in-memory implementation of
// squirreldex.Repository. It mirrors the Postgres repository's semantics,
// including per-squirrel serialization of asset order assignment, and is
// intended for tests and development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/acornlabs/squirreldex/pkg/squirreldex"
)

// Repository implements squirreldex.Repository using in-memory storage
type Repository struct {
	mu             sync.RWMutex
	squirrels      map[int64]*squirreldex.Squirrel
	assets         map[int64]*squirreldex.Asset
	nextSquirrelID int64
	nextAssetID    int64
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		squirrels: make(map[int64]*squirreldex.Squirrel),
		assets:    make(map[int64]*squirreldex.Asset),
	}
}

// Squirrel operations

func (r *Repository) ListSquirrels(ctx context.Context, offset, limit int) ([]*squirreldex.Squirrel, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*squirreldex.Squirrel, 0, len(r.squirrels))
	for _, sq := range r.squirrels {
		all = append(all, sq)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].ScientificName != all[j].ScientificName {
			return all[i].ScientificName < all[j].ScientificName
		}
		return all[i].ID < all[j].ID
	})

	total := len(all)

	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit >= 0 && offset+limit < total {
		end = offset + limit
	}

	page := make([]*squirreldex.Squirrel, 0, end-offset)
	for _, sq := range all[offset:end] {
		page = append(page, r.hydrate(sq))
	}

	return page, total, nil
}

func (r *Repository) GetSquirrel(ctx context.Context, id int64) (*squirreldex.Squirrel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sq, exists := r.squirrels[id]
	if !exists {
		return nil, squirreldex.ErrSquirrelNotFound
	}

	return r.hydrate(sq), nil
}

func (r *Repository) CreateSquirrel(ctx context.Context, params squirreldex.CreateSquirrelParams) (*squirreldex.Squirrel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSquirrelID++
	now := time.Now().UTC()

	sq := &squirreldex.Squirrel{
		ID:              r.nextSquirrelID,
		ScientificName:  params.ScientificName,
		CommonName:      params.CommonName,
		Description:     params.Description,
		FemaleSize:      params.FemaleSize,
		MaleSize:        params.MaleSize,
		Distribution:    params.Distribution,
		Variations:      append([]string(nil), params.Variations...),
		Conservation:    params.Conservation,
		PopulationTrend: params.PopulationTrend,
		Habitat:         params.Habitat,
		General:         params.General,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.squirrels[sq.ID] = sq

	return r.hydrate(sq), nil
}

func (r *Repository) UpdateSquirrel(ctx context.Context, id int64, params squirreldex.UpdateSquirrelParams) (*squirreldex.Squirrel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sq, exists := r.squirrels[id]
	if !exists {
		return nil, squirreldex.ErrSquirrelNotFound
	}

	if params.ScientificName != nil {
		sq.ScientificName = *params.ScientificName
	}
	if params.CommonName != nil {
		sq.CommonName = *params.CommonName
	}
	if params.Description != nil {
		sq.Description = *params.Description
	}
	if params.FemaleSize != nil {
		sq.FemaleSize = *params.FemaleSize
	}
	if params.MaleSize != nil {
		sq.MaleSize = *params.MaleSize
	}
	if params.Distribution != nil {
		sq.Distribution = *params.Distribution
	}
	if params.Variations != nil {
		sq.Variations = append([]string(nil), (*params.Variations)...)
	}
	if params.Conservation != nil {
		sq.Conservation = *params.Conservation
	}
	if params.PopulationTrend != nil {
		sq.PopulationTrend = *params.PopulationTrend
	}
	if params.Habitat != nil {
		sq.Habitat = *params.Habitat
	}
	if params.General != nil {
		sq.General = params.General
	}
	sq.UpdatedAt = time.Now().UTC()

	return r.hydrate(sq), nil
}

func (r *Repository) DeleteSquirrel(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.squirrels[id]; !exists {
		return squirreldex.ErrSquirrelNotFound
	}

	delete(r.squirrels, id)

	// cascade
	for assetID, asset := range r.assets {
		if asset.SquirrelID == id {
			delete(r.assets, assetID)
		}
	}

	return nil
}

// Asset operations

func (r *Repository) GetAsset(ctx context.Context, assetID int64) (*squirreldex.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, exists := r.assets[assetID]
	if !exists {
		return nil, squirreldex.ErrAssetNotFound
	}

	assetCopy := *asset
	return &assetCopy, nil
}

func (r *Repository) CreateAsset(ctx context.Context, squirrelID int64, url string) (*squirreldex.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.squirrels[squirrelID]; !exists {
		return nil, squirreldex.ErrSquirrelNotFound
	}

	maxOrder := 0
	for _, asset := range r.assets {
		if asset.SquirrelID == squirrelID && asset.Order > maxOrder {
			maxOrder = asset.Order
		}
	}

	r.nextAssetID++
	now := time.Now().UTC()

	asset := &squirreldex.Asset{
		ID:         r.nextAssetID,
		SquirrelID: squirrelID,
		URL:        url,
		Order:      maxOrder + 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.assets[asset.ID] = asset

	assetCopy := *asset
	return &assetCopy, nil
}

func (r *Repository) DeleteAsset(ctx context.Context, squirrelID, assetID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, exists := r.assets[assetID]
	if !exists || asset.SquirrelID != squirrelID {
		return squirreldex.ErrAssetNotFound
	}

	delete(r.assets, assetID)
	return nil
}

// hydrate returns a copy of the squirrel with its assets attached in display
// order. Callers must hold at least a read lock.
func (r *Repository) hydrate(sq *squirreldex.Squirrel) *squirreldex.Squirrel {
	sqCopy := *sq
	sqCopy.Variations = append([]string(nil), sq.Variations...)

	assets := make([]squirreldex.Asset, 0)
	for _, asset := range r.assets {
		if asset.SquirrelID == sq.ID {
			assets = append(assets, *asset)
		}
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Order < assets[j].Order })
	sqCopy.Assets = assets

	return &sqCopy
}
