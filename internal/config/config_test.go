package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.HTTP.Port)
	assert.Equal(t, "mongo", cfg.Storage.Driver)
	assert.Equal(t, "marketplace", cfg.Mongo.Database)
	assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout)
	assert.Equal(t, 2, cfg.Catalog.PageSize)
	assert.Equal(t, 5*time.Minute, cfg.Redis.OfferTTL)
	assert.Equal(t, "marketplace", cfg.MinIO.FolderRoot)
	assert.Equal(t, "minio", cfg.Storage.Images)
	assert.Equal(t, "us-east-1", cfg.MinIO.Region)
	assert.Empty(t, cfg.SMTP.Host)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("http:\n  port: \"8081\"\ncatalog:\n  page_size: 10\nstorage:\n  driver: memory\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	t.Setenv("MARKET_MONGO_DATABASE", "vinted")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.HTTP.Port)
	assert.Equal(t, 10, cfg.Catalog.PageSize)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "vinted", cfg.Mongo.Database)
}

func TestLoadConfig_RejectsEmptyPage(t *testing.T) {
	t.Setenv("MARKET_CATALOG_PAGE_SIZE", "0")
	_, err := LoadConfig("")
	assert.Error(t, err)
}
