package squirreldex

import (
	"time"
)

// Limits enforced on squirrel and asset fields.
const (
	MaxVariations       = 10
	MaxAssetDescription = 512
	MaxAssetOrder       = 64
)

// Squirrel represents a catalogued squirrel species. Assets are always
// hydrated on reads and sorted by their display order.
type Squirrel struct {
	ID              int64     `json:"id"`
	ScientificName  string    `json:"scientific_name"`
	CommonName      string    `json:"common_name"`
	Description     string    `json:"description"`
	FemaleSize      string    `json:"female_size"`
	MaleSize        string    `json:"male_size"`
	Distribution    string    `json:"distribution"`
	Variations      []string  `json:"variations"`
	Conservation    string    `json:"conservation"`
	PopulationTrend string    `json:"population_trend"`
	Habitat         string    `json:"habitat"`
	General         *string   `json:"general,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Assets          []Asset   `json:"assets"`
}

// Asset represents an image owned by exactly one squirrel. Order is a
// per-squirrel counter assigned transactionally at creation time; it
// determines display order and is never assigned twice concurrently.
type Asset struct {
	ID          int64     `json:"id"`
	SquirrelID  int64     `json:"squirrel_id"`
	URL         string    `json:"url"`
	Description *string   `json:"description,omitempty"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
