package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelshare/internal/cache/core"
)

func newMockCache(t *testing.T) (*Cache, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	var gotDriver, gotDSN string
	restore := OverrideSQLOpen(func(driverName, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driverName, dsn
		return db, nil
	})
	t.Cleanup(restore)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS modelshare_cache").WillReturnResult(sqlmock.NewResult(0, 0))
	c, err := New(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "pgx", gotDriver)
	assert.Equal(t, defaultDSN, gotDSN)
	return c, mock
}

func TestCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c, mock := newMockCache(t)
	assert.Equal(t, core.DriverPostgres, c.Driver())

	mock.ExpectExec("INSERT INTO modelshare_cache").
		WithArgs("projects/demo/transform-presets.json", []byte("[]")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, c.Set(ctx, "projects/demo/transform-presets.json", []byte("[]")))

	mock.ExpectQuery("SELECT payload FROM modelshare_cache").
		WithArgs("projects/demo/transform-presets.json").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte("[]")))
	got, err := c.Get(ctx, "projects/demo/transform-presets.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), got)

	mock.ExpectQuery("SELECT payload FROM modelshare_cache").
		WithArgs("absent").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))
	_, err = c.Get(ctx, "absent")
	assert.True(t, errors.Is(err, core.ErrMiss))

	mock.ExpectClose()
	require.NoError(t, c.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheErrorsWrapped(t *testing.T) {
	ctx := context.Background()
	c, mock := newMockCache(t)
	boom := errors.New("connection reset")

	mock.ExpectExec("INSERT INTO modelshare_cache").WillReturnError(boom)
	err := c.Set(ctx, "k", []byte("v"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery("SELECT payload FROM modelshare_cache").WillReturnError(boom)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, core.ErrMiss))
}

func TestNewFailsWhenTableCannotBeCreated(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS modelshare_cache").WillReturnError(errors.New("permission denied"))
	mock.ExpectClose()
	_, err = New(context.Background(), "postgres://example/db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensure cache table")
}

func TestNewOpenError(t *testing.T) {
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return nil, errors.New("bad dsn") })
	defer restore()
	_, err := New(context.Background(), "::")
	require.Error(t, err)
}
