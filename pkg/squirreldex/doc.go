// Package squirreldex provides a reusable library for managing a catalog of
// squirrel species and their ordered image assets, with pluggable repository
// and blob storage backends.
//
// It exposes a single Service interface that orchestrates squirrel CRUD,
// asset upload/removal, and pagination. Implementations of repositories
// (memory, Postgres) and blob stores (memory, filesystem, S3) are provided
// under subpackages.
//
// Consistency Model
//
// The relational repository is the source of truth. Asset uploads write the
// blob before the asset row, so a row never references a missing blob. Asset
// and squirrel deletions remove rows first and then clean blobs up on a
// best-effort basis; a failed blob cleanup is logged and tolerated, never
// surfaced to the caller.
package squirreldex
