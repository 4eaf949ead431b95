package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "mongo", cfg.Database.Driver)
	assert.Equal(t, 20, cfg.Feed.PageSize)
	assert.Equal(t, 100, cfg.Feed.MaxPageSize)
	assert.Equal(t, 100, cfg.Feed.FollowingScanLimit)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 15*time.Minute, cfg.S3.PresignExpiry)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  address: \":9090\"\nfeed:\n  page_size: 5\ncache:\n  dir: /tmp/cache\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 5, cfg.Feed.PageSize)
	assert.Equal(t, "/tmp/cache", cfg.Cache.Dir)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unterminated"), 0o600))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
