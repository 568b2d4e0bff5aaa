package metrics

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	VenuePicksTotal          metric.Int64Counter
	QuizClassificationsTotal metric.Int64Counter
	SavedMutationsTotal      metric.Int64Counter
	FocusConsumedTotal       metric.Int64Counter
	StorageDurationSeconds   metric.Float64Histogram
	StorageErrorsTotal       metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// New creates the instruments on the given meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	m.VenuePicksTotal, err = meter.Int64Counter(
		"venue_picks_total",
		metric.WithDescription("Total number of random venue picks"),
		metric.WithUnit("{pick}"),
	)
	if err != nil {
		return nil, fmt.Errorf("venue_picks_total: %w", err)
	}

	m.QuizClassificationsTotal, err = meter.Int64Counter(
		"quiz_classifications_total",
		metric.WithDescription("Total number of classified quiz submissions"),
		metric.WithUnit("{classification}"),
	)
	if err != nil {
		return nil, fmt.Errorf("quiz_classifications_total: %w", err)
	}

	m.SavedMutationsTotal, err = meter.Int64Counter(
		"saved_mutations_total",
		metric.WithDescription("Total number of saved-set mutations by operation"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("saved_mutations_total: %w", err)
	}

	m.FocusConsumedTotal, err = meter.Int64Counter(
		"map_focus_consumed_total",
		metric.WithDescription("Total number of focus requests consumed by the map"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("map_focus_consumed_total: %w", err)
	}

	m.StorageDurationSeconds, err = meter.Float64Histogram(
		"storage_duration_seconds",
		metric.WithDescription("Duration of key-value store operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("storage_duration_seconds: %w", err)
	}

	m.StorageErrorsTotal, err = meter.Int64Counter(
		"storage_errors_total",
		metric.WithDescription("Total number of key-value store errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("storage_errors_total: %w", err)
	}

	return m, nil
}

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		m, err := New(otel.GetMeterProvider().Meter("VineBarVenice"))
		if err != nil {
			log.Fatalf("Metrics: %v", err)
		}
		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

// Noop returns instruments that record nothing, for tests and the CLI.
func Noop() *AppMetrics {
	m, _ := New(noop.NewMeterProvider().Meter("noop"))
	return m
}

// ObserveStorage records latency and, on failure, an error for one store call.
func (m *AppMetrics) ObserveStorage(ctx context.Context, backend, op string, start time.Time, err error) {
	attrs := metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("op", op),
	)
	m.StorageDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.StorageErrorsTotal.Add(ctx, 1, attrs)
	}
}
