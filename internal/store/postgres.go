package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

var (
	ErrSchemaMissing   = errors.New("store: storefront.kv table does not exist")
	ErrInvalidDocument = errors.New("store: value is not a valid JSON document")
)

const (
	pqUndefinedTable       = "42P01"
	pqInvalidTextRepr      = "22P02"
	pqInvalidJSONSyntaxErr = "22032"
)

// PostgresStore implements KVStore on a JSONB table in PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresStore wraps an open connection pool. A nil logger disables logging.
func NewPostgresStore(db *sql.DB, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, logger: logger}
}

// EnsureSchema creates the storefront schema and kv table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE SCHEMA IF NOT EXISTS storefront;
		CREATE TABLE IF NOT EXISTS storefront.kv (
			key TEXT PRIMARY KEY,
			value JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("store: EnsureSchema failed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM storefront.kv WHERE key = $1;`
	var value []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, mapPQError("Get", err)
	}
	return value, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO storefront.kv (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW();
	`
	if _, err := s.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return mapPQError("Put", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM storefront.kv WHERE key = $1;`
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return mapPQError("Delete", err)
	}
	return nil
}

// DeletePrefix matches on the leading characters rather than LIKE, so
// wildcards in the prefix are literal.
func (s *PostgresStore) DeletePrefix(ctx context.Context, prefix string) error {
	query := `DELETE FROM storefront.kv WHERE left(key, char_length($1)) = $1;`
	result, err := s.db.ExecContext(ctx, query, prefix)
	if err != nil {
		return mapPQError("DeletePrefix", err)
	}
	if n, err := result.RowsAffected(); err == nil {
		s.logger.Debug("deleted keys by prefix", zap.String("prefix", prefix), zap.Int64("rows", n))
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	s.logger.Info("closing database connection pool")
	if err := s.db.Close(); err != nil {
		s.logger.Error("failed to close database connection pool", zap.Error(err))
		return err
	}
	return nil
}

func mapPQError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUndefinedTable:
			return ErrSchemaMissing
		case pqInvalidTextRepr, pqInvalidJSONSyntaxErr:
			return ErrInvalidDocument
		}
	}
	return fmt.Errorf("store: %s failed: %w", op, err)
}
