// Package config assembles server configuration and builds the repository
// and blob store a squirreldex server runs on.
package config

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acornlabs/squirreldex/pkg/squirreldex"
	memoryrepo "github.com/acornlabs/squirreldex/pkg/squirreldex/repo/memory"
	postgresrepo "github.com/acornlabs/squirreldex/pkg/squirreldex/repo/postgres"
	fsstorage "github.com/acornlabs/squirreldex/pkg/squirreldex/storage/fs"
	memorystorage "github.com/acornlabs/squirreldex/pkg/squirreldex/storage/memory"
	s3storage "github.com/acornlabs/squirreldex/pkg/squirreldex/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		StorageType:  "memory",
		AuthSecret:   "dev-secret-key",
	}
}

// ServerConfig represents server configuration for the squirreldex service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Storage configuration
	StorageType string // "memory", "fs", "s3"
	FS          FSConfig
	S3          S3Config

	// Auth
	AuthSecret string
}

// FSConfig configures the filesystem storage backend
type FSConfig struct {
	BaseDir   string
	URLPrefix string
}

// S3Config configures the S3 storage backend
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UsePathStyle    bool
	PublicURLPrefix string
	CreateBucket    bool
}

// Validate checks the configuration for inconsistencies.
func (c *ServerConfig) Validate() error {
	switch c.DatabaseType {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("database url is required for postgres database")
		}
	default:
		return fmt.Errorf("unknown database type: %s", c.DatabaseType)
	}

	switch c.StorageType {
	case "memory":
	case "fs":
		if c.FS.BaseDir == "" {
			return fmt.Errorf("base dir is required for fs storage")
		}
		if c.FS.URLPrefix == "" {
			return fmt.Errorf("url prefix is required for fs storage")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return fmt.Errorf("bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown storage type: %s", c.StorageType)
	}

	return nil
}

// BuildRepository constructs the configured repository. The returned cleanup
// function closes the underlying pool, if any.
func (c *ServerConfig) BuildRepository(ctx context.Context) (squirreldex.Repository, func(), error) {
	switch c.DatabaseType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return postgresrepo.NewWithPool(pool), pool.Close, nil
	default:
		return memoryrepo.New(), func() {}, nil
	}
}

// BuildBlobStore constructs the configured blob storage backend.
func (c *ServerConfig) BuildBlobStore() (squirreldex.BlobStore, error) {
	switch c.StorageType {
	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:   c.FS.BaseDir,
			URLPrefix: c.FS.URLPrefix,
		})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			PublicURLPrefix:        c.S3.PublicURLPrefix,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})
	default:
		return memorystorage.New(), nil
	}
}
