package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Sanjarbek-2007/Tech-House/internal/config"
)

// Open connects the backend selected by STORAGE_DRIVER.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (KVStore, error) {
	log := logger.With(zap.String("driver", cfg.Storage.Driver))

	var (
		kv  KVStore
		err error
	)
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		kv = NewMemoryStore()
	case config.DriverSQLite:
		kv, err = OpenSQLite(ctx, cfg.Storage.SQLitePath)
		log = log.With(zap.String("path", cfg.Storage.SQLitePath))
	case config.DriverPostgres:
		kv, err = openPostgres(ctx, cfg.Postgres, logger)
		log = log.With(zap.String("host", cfg.Postgres.Host), zap.String("db", cfg.Postgres.DBName))
	case config.DriverRedis:
		kv, err = OpenRedis(ctx, cfg.Storage.RedisURL, cfg.Storage.RedisKeyPrefix)
	default:
		err = fmt.Errorf("store: unknown driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}
	log.Info("storage opened")
	return kv, nil
}

func openPostgres(ctx context.Context, pc config.PostgresConfig, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", pc.DSN())
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}
	s := NewPostgresStore(db, logger)
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
