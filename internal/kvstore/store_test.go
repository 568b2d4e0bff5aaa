package kvstore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-vinebar-venice/app/observability/metrics"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// exerciseStore runs the behavior every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNotFound))

	require.NoError(t, s.Set(ctx, KeySavedPlaces, []byte(`[{"id":"romantic1"}]`)))
	got, err := s.Get(ctx, KeySavedPlaces)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"romantic1"}]`, string(got))

	require.NoError(t, s.Set(ctx, KeySavedPlaces, []byte(`[]`)))
	got, err = s.Get(ctx, KeySavedPlaces)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(got))

	require.NoError(t, s.Delete(ctx, KeySavedPlaces))
	_, err = s.Get(ctx, KeySavedPlaces)
	assert.True(t, errors.Is(err, types.ErrNotFound))

	// deleting an absent key is fine
	require.NoError(t, s.Delete(ctx, KeySavedPlaces))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte(`"a"`)
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[1] = 'b'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"a"`, string(got))
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "vinebar.db")
	s, err := OpenSQLite(path, metrics.Noop(), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	exerciseStore(t, s)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vinebar.db")

	s, err := OpenSQLite(path, metrics.Noop(), discardLogger())
	require.NoError(t, err)
	require.NoError(t, SetJSON(ctx, s, KeyLastMapRegion, types.DefaultMapRegion))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path, metrics.Noop(), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	var region types.MapRegion
	require.NoError(t, GetJSON(ctx, reopened, KeyLastMapRegion, &region))
	assert.Equal(t, types.DefaultMapRegion, region)
}

func TestPostgresStore_Get(t *testing.T) {
	ctx := context.Background()
	selectSQL := regexp.QuoteMeta(`SELECT value FROM kv_store WHERE key = $1`)

	t.Run("success", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(selectSQL).WithArgs(KeySavedPlaces).
			WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`[]`)))

		s := NewPostgresStore(mock, metrics.Noop(), discardLogger())
		got, err := s.Get(ctx, KeySavedPlaces)
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing key maps to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(selectSQL).WithArgs(KeyLastMapRegion).WillReturnError(pgx.ErrNoRows)

		s := NewPostgresStore(mock, metrics.Noop(), discardLogger())
		_, err = s.Get(ctx, KeyLastMapRegion)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
		assert.False(t, errors.Is(err, types.ErrStorageUnavailable))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("backend failure maps to ErrStorageUnavailable", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		dbErr := errors.New("connection refused")
		mock.ExpectQuery(selectSQL).WithArgs(KeySavedPlaces).WillReturnError(dbErr)

		s := NewPostgresStore(mock, metrics.Noop(), discardLogger())
		_, err = s.Get(ctx, KeySavedPlaces)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrStorageUnavailable))
		assert.True(t, errors.Is(err, dbErr))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_SetAndDelete(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	value := []byte(`{"latitude":45.4}`)
	mock.ExpectExec("INSERT INTO kv_store").WithArgs(KeyLastMapRegion, value).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("DELETE FROM kv_store").WithArgs(KeyLastMapRegion).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("INSERT INTO kv_store").WithArgs(KeySavedPlaces, value).
		WillReturnError(errors.New("disk full"))

	s := NewPostgresStore(mock, metrics.Noop(), discardLogger())
	require.NoError(t, s.Set(ctx, KeyLastMapRegion, value))
	require.NoError(t, s.Delete(ctx, KeyLastMapRegion))

	err = s.Set(ctx, KeySavedPlaces, value)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrStorageUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetJSON_DecodeError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, KeySavedPlaces, []byte(`not json`)))

	var out []types.VenueEntry
	err := GetJSON(ctx, s, KeySavedPlaces, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
	assert.True(t, errors.Is(err, types.ErrCorruptValue))
	assert.False(t, errors.Is(err, types.ErrStorageUnavailable))
}
