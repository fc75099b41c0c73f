// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
loaded first through 'joho/godotenv' when present; real environment variables
always win over it.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, storage) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageDisk = "disk"
	StorageS3   = "s3"
)

// Lock drivers accepted by LOCK_DRIVER.
const (
	LockLocal = "local"
	LockRedis = "redis"
)

// # Configuration Schema

// Config holds all runtime configuration for the Cinemateca API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Image storage for posters and portraits
	StorageDriver  string `env:"STORAGE_DRIVER"   envDefault:"disk"`
	UploadsDir     string `env:"UPLOADS_DIR"      envDefault:"./uploads"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION"        envDefault:"auto"`
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// Listing
	MoviesPerPage        int `env:"MOVIES_PER_PAGE"        envDefault:"6"`
	MaxPaginationButtons int `env:"MAX_PAGINATION_BUTTONS" envDefault:"3"`

	// VocabularyFile optionally overrides the age ratings, genres and countries.
	VocabularyFile string `env:"VOCABULARY_FILE"`

	// Filter-option cache and relationship locking
	FilterCacheTTL time.Duration `env:"FILTER_CACHE_TTL" envDefault:"5m"`
	LockDriver     string        `env:"LOCK_DRIVER"      envDefault:"redis"`
	ActorLockTTL   time.Duration `env:"ACTOR_LOCK_TTL"   envDefault:"10s"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX"`
}

// # Configuration Loading

// Load reads an optional .env file, then parses environment variables into a
// [Config] struct.
func Load(files ...string) (*Config, error) {

	// Missing .env files are normal outside local development
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env: %w", err)
	}

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.check(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) check() error {
	switch c.StorageDriver {
	case StorageDisk:
	case StorageS3:
		if c.S3Bucket == "" {
			return errors.New("config: S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.LockDriver != LockLocal && c.LockDriver != LockRedis {
		return fmt.Errorf("config: unknown LOCK_DRIVER %q", c.LockDriver)
	}

	if c.MoviesPerPage < 1 || c.MaxPaginationButtons < 1 {
		return errors.New("config: MOVIES_PER_PAGE and MAX_PAGINATION_BUTTONS must be positive")
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CORSOriginSuffix is the origin suffix trusted outside development.
func (c *Config) CORSOriginSuffix() string {
	return c.AllowedOriginSuffix
}
