package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"

	"github.com/FACorreiaa/go-vinebar-venice/app/observability/metrics"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore is the on-device backend: one file, one table.
type SQLiteStore struct {
	db      *sql.DB
	dbPath  string
	logger  *slog.Logger
	metrics *metrics.AppMetrics
}

// OpenSQLite opens (or creates) the database file at path.
func OpenSQLite(path string, m *metrics.AppMetrics, logger *slog.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, dbPath: path, logger: logger, metrics: m}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("SQLite store opened", slog.String("path", path))
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create kv_store table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (_ []byte, err error) {
	ctx, span := otel.Tracer("KVStore").Start(ctx, "Get", trace.WithAttributes(
		semconv.DBSystemSqlite,
		attribute.String("kv.key", key),
	))
	defer span.End()
	defer func(start time.Time) { observe(ctx, s.metrics, "sqlite", "get", start, err) }(time.Now())

	var value string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("key %q: %w", key, types.ErrNotFound)
		}
		s.logger.ErrorContext(ctx, "Failed to read key", slog.String("key", key), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "SELECT failed")
		return nil, fmt.Errorf("reading %q: %w: %w", key, types.ErrStorageUnavailable, err)
	}
	span.SetStatus(codes.Ok, "Key read")
	return []byte(value), nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) (err error) {
	ctx, span := otel.Tracer("KVStore").Start(ctx, "Set", trace.WithAttributes(
		semconv.DBSystemSqlite,
		attribute.String("kv.key", key),
	))
	defer span.End()
	defer func(start time.Time) { observe(ctx, s.metrics, "sqlite", "set", start, err) }(time.Now())

	query := `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err = s.db.ExecContext(ctx, query, key, string(value)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to write key", slog.String("key", key), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "UPSERT failed")
		return fmt.Errorf("writing %q: %w: %w", key, types.ErrStorageUnavailable, err)
	}
	span.SetStatus(codes.Ok, "Key written")
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) (err error) {
	ctx, span := otel.Tracer("KVStore").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemSqlite,
		attribute.String("kv.key", key),
	))
	defer span.End()
	defer func(start time.Time) { observe(ctx, s.metrics, "sqlite", "delete", start, err) }(time.Now())

	if _, err = s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DELETE failed")
		return fmt.Errorf("deleting %q: %w: %w", key, types.ErrStorageUnavailable, err)
	}
	return nil
}
