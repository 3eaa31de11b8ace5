package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a mock DB and PostgresStore for testing
func newMockDBAndStore(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresStore) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	store := NewPostgresStore(db, nil)
	require.NotNil(t, store, "Store should not be nil")

	return db, mock, store
}

func TestPostgresStore_Get(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`SELECT value FROM storefront.kv WHERE key = $1;`)
	rows := sqlmock.NewRows([]string{"value"}).AddRow([]byte(`["a","b"]`))
	mock.ExpectQuery(query).WithArgs("default/likedAppliances").WillReturnRows(rows)

	value, err := store.Get(context.Background(), "default/likedAppliances")

	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(value))
	require.NoError(t, mock.ExpectationsWereMet(), "SQLmock expectations were not met")
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`SELECT value FROM storefront.kv WHERE key = $1;`)
	mock.ExpectQuery(query).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	value, err := store.Get(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrKeyNotFound), "Error should be ErrKeyNotFound")
	assert.Nil(t, value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get_SchemaMissing(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`SELECT value FROM storefront.kv WHERE key = $1;`)
	mock.ExpectQuery(query).WithArgs("k").WillReturnError(&pq.Error{Code: "42P01"})

	_, err := store.Get(context.Background(), "k")

	assert.ErrorIs(t, err, ErrSchemaMissing)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Put(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`
		INSERT INTO storefront.kv (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW();
	`)
	mock.ExpectExec(query).
		WithArgs("default/shop_compare_list", `["x"]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Put(context.Background(), "default/shop_compare_list", []byte(`["x"]`))

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Put_InvalidJSON(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO storefront.kv`)).
		WithArgs("k", "not json").
		WillReturnError(&pq.Error{Code: "22P02"})

	err := store.Put(context.Background(), "k", []byte("not json"))

	assert.ErrorIs(t, err, ErrInvalidDocument)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`DELETE FROM storefront.kv WHERE key = $1;`)
	mock.ExpectExec(query).WithArgs("k").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Delete(context.Background(), "k"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeletePrefix(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`DELETE FROM storefront.kv WHERE left(key, char_length($1)) = $1;`)
	mock.ExpectExec(query).WithArgs("session-1/").WillReturnResult(sqlmock.NewResult(0, 4))

	require.NoError(t, store.DeletePrefix(context.Background(), "session-1/"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeletePrefix_Error(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	dbErr := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM storefront.kv`)).WithArgs("p/").WillReturnError(dbErr)

	err := store.DeletePrefix(context.Background(), "p/")

	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "DeletePrefix failed")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE SCHEMA IF NOT EXISTS storefront;`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Close(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	mock.ExpectClose()

	require.NoError(t, store.Close())
	require.NoError(t, mock.ExpectationsWereMet())
	_ = db
}
