package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sanjarbek-2007/Tech-House/internal/config"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory}}
	kv, err := Open(ctx, cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, kv)

	cfg.Storage = config.StorageConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "shop.db")}
	kv, err = Open(ctx, cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, kv)
	require.NoError(t, kv.Close())

	cfg.Storage = config.StorageConfig{Driver: "etcd"}
	_, err = Open(ctx, cfg, logger)
	assert.Error(t, err)
}
