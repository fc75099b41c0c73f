// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinemateca/internal/platform/config"
)

/*
TestLoad_Defaults verifies defaults when only required variables are set.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cinemateca")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, config.StorageDisk, cfg.StorageDriver)
	assert.Equal(t, 6, cfg.MoviesPerPage)
	assert.Equal(t, 3, cfg.MaxPaginationButtons)
	assert.Equal(t, 5*time.Minute, cfg.FilterCacheTTL)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_DotEnv verifies that .env values fill gaps but never override the
real environment.
*/
func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	content := "DATABASE_URL=postgres://dotenv/db\nREDIS_URL=redis://dotenv:6379\nMOVIES_PER_PAGE=12\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	t.Setenv("MOVIES_PER_PAGE", "9")
	// Setenv registers restoration; unset so the file supplies these two.
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("REDIS_URL")

	cfg, err := config.Load(file)
	require.NoError(t, err)

	assert.Equal(t, "postgres://dotenv/db", cfg.DatabaseURL)
	assert.Equal(t, 9, cfg.MoviesPerPage)
}

/*
TestLoad_RejectsUnknownStorage verifies driver checks.
*/
func TestLoad_RejectsUnknownStorage(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cinemateca")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	t.Setenv("STORAGE_DRIVER", "ftp")
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "STORAGE_DRIVER")

	t.Setenv("STORAGE_DRIVER", "s3")
	_, err = config.Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "S3_BUCKET")
}
