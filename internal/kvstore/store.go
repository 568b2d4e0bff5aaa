// Package kvstore is the durable string-keyed store behind the saved set and
// the last map region. Values are JSON documents.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/FACorreiaa/go-vinebar-venice/app/observability/metrics"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

// Keys used by the app.
const (
	KeySavedPlaces   = "saved_places"
	KeyLastMapRegion = "lastMapRegion"
)

// Store is a single-writer key-value store.
// Get returns types.ErrNotFound when the key has never been written.
// Backend failures are wrapped with types.ErrStorageUnavailable.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetJSON reads key and decodes it into dst.
func GetJSON(ctx context.Context, s Store, key string, dst any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decoding %q: %w: %w", key, types.ErrCorruptValue, err)
	}
	return nil
}

// SetJSON encodes v and writes it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

func observe(ctx context.Context, m *metrics.AppMetrics, backend, op string, start time.Time, err error) {
	if errors.Is(err, types.ErrNotFound) {
		err = nil
	}
	m.ObserveStorage(ctx, backend, op, start, err)
}
