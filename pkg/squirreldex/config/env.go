package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig mirrors ServerConfig as flat environment variables.
type envConfig struct {
	Port        string `env:"PORT" env-default:""`
	Environment string `env:"ENVIRONMENT" env-default:""`

	DatabaseURL string `env:"DATABASE_URL" env-default:""`

	StorageType string `env:"STORAGE_TYPE" env-default:""`

	FSBaseDir   string `env:"FS_BASE_DIR" env-default:""`
	FSURLPrefix string `env:"FS_URL_PREFIX" env-default:""`

	S3Region          string `env:"AWS_S3_REGION" env-default:""`
	S3Bucket          string `env:"AWS_S3_BUCKET" env-default:""`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	S3Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	S3UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	S3PublicURLPrefix string `env:"AWS_S3_PUBLIC_URL_PREFIX" env-default:""`
	S3CreateBucket    bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`

	AuthSecret string `env:"AUTH_SECRET" env-default:""`
}

// WithEnv applies environment variable overrides.
//
//	PORT, ENVIRONMENT - server settings
//	DATABASE_URL      - postgres connection string; empty keeps the
//	                    in-memory database
//	STORAGE_TYPE      - "memory" (default), "fs" or "s3"
//	FS_*              - filesystem backend settings
//	AWS_*             - S3 backend settings
//	AUTH_SECRET       - HMAC secret for auth token verification
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var env envConfig
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		if env.Port != "" {
			c.Port = env.Port
		}
		if env.Environment != "" {
			c.Environment = env.Environment
		}
		if env.DatabaseURL != "" {
			c.DatabaseURL = env.DatabaseURL
			c.DatabaseType = "postgres"
		}
		if env.StorageType != "" {
			c.StorageType = env.StorageType
		}
		if env.FSBaseDir != "" {
			c.FS.BaseDir = env.FSBaseDir
		}
		if env.FSURLPrefix != "" {
			c.FS.URLPrefix = env.FSURLPrefix
		}
		if env.S3Region != "" {
			c.S3.Region = env.S3Region
		}
		if env.S3Bucket != "" {
			c.S3.Bucket = env.S3Bucket
		}
		if env.S3AccessKeyID != "" {
			c.S3.AccessKeyID = env.S3AccessKeyID
		}
		if env.S3SecretAccessKey != "" {
			c.S3.SecretAccessKey = env.S3SecretAccessKey
		}
		if env.S3Endpoint != "" {
			c.S3.Endpoint = env.S3Endpoint
		}
		if env.S3UsePathStyle {
			c.S3.UsePathStyle = true
		}
		if env.S3PublicURLPrefix != "" {
			c.S3.PublicURLPrefix = env.S3PublicURLPrefix
		}
		if env.S3CreateBucket {
			c.S3.CreateBucket = true
		}
		if env.AuthSecret != "" {
			c.AuthSecret = env.AuthSecret
		}

		return nil
	}
}
