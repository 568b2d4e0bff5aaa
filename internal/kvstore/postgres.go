package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-vinebar-venice/app/observability/metrics"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

var _ Store = (*PostgresStore)(nil)

// DB is the subset of *pgxpool.Pool used by the store.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PostgresStore struct {
	logger  *slog.Logger
	pgpool  DB
	metrics *metrics.AppMetrics
}

func NewPostgresStore(pgpool DB, m *metrics.AppMetrics, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		logger:  logger,
		pgpool:  pgpool,
		metrics: m,
	}
}

func (r *PostgresStore) Get(ctx context.Context, key string) (_ []byte, err error) {
	ctx, span := otel.Tracer("KVStore").Start(ctx, "Get", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "kv_store"),
		attribute.String("kv.key", key),
	))
	defer span.End()
	defer func(start time.Time) { observe(ctx, r.metrics, "postgres", "get", start, err) }(time.Now())

	l := r.logger.With(slog.String("method", "Get"), slog.String("key", key))

	var value []byte
	err = r.pgpool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			l.DebugContext(ctx, "Key not found")
			span.SetStatus(codes.Ok, "Key not found")
			// a miss is not a storage failure
			return nil, fmt.Errorf("key %q: %w", key, types.ErrNotFound)
		}
		l.ErrorContext(ctx, "Failed to read key", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("reading %q: %w: %w", key, types.ErrStorageUnavailable, err)
	}

	span.SetStatus(codes.Ok, "Key read")
	return value, nil
}

func (r *PostgresStore) Set(ctx context.Context, key string, value []byte) (err error) {
	ctx, span := otel.Tracer("KVStore").Start(ctx, "Set", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPSERT"),
		attribute.String("db.sql.table", "kv_store"),
		attribute.String("kv.key", key),
	))
	defer span.End()
	defer func(start time.Time) { observe(ctx, r.metrics, "postgres", "set", start, err) }(time.Now())

	l := r.logger.With(slog.String("method", "Set"), slog.String("key", key))

	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err = r.pgpool.Exec(ctx, query, key, value); err != nil {
		l.ErrorContext(ctx, "Failed to write key", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPSERT failed")
		return fmt.Errorf("writing %q: %w: %w", key, types.ErrStorageUnavailable, err)
	}

	l.DebugContext(ctx, "Key written", slog.Int("bytes", len(value)))
	span.SetStatus(codes.Ok, "Key written")
	return nil
}

func (r *PostgresStore) Delete(ctx context.Context, key string) (err error) {
	ctx, span := otel.Tracer("KVStore").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "kv_store"),
		attribute.String("kv.key", key),
	))
	defer span.End()
	defer func(start time.Time) { observe(ctx, r.metrics, "postgres", "delete", start, err) }(time.Now())

	if _, err = r.pgpool.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete key", slog.String("key", key), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("deleting %q: %w: %w", key, types.ErrStorageUnavailable, err)
	}
	span.SetStatus(codes.Ok, "Key deleted")
	return nil
}
