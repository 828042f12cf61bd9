// Package services contains the dataset building and seeding logic.
package services

import (
	"context"
	"time"

	"github.com/nordluma/sqlite-mt-tests/pkg/models"
)

// SeederService coordinates the three operations exposed by the CLI.
type SeederService interface {
	// Seed inserts the dataset using the given number of workers and
	// returns per-run counts. Per-item failures are contained; only a
	// task-level fault makes Seed return an error.
	Seed(ctx context.Context, users []models.User, workers int) (models.SeedResult, error)

	// List returns every persisted row.
	List(ctx context.Context) ([]models.User, error)

	// Clear removes every persisted row and returns the count removed.
	Clear(ctx context.Context) (int64, error)
}

// Logger defines logging interface.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// MetricsCollector defines metrics collection interface.
type MetricsCollector interface {
	IncrementCounter(name string, labels ...string)
	RecordHistogram(name string, value float64, labels ...string)
	RecordGauge(name string, value float64, labels ...string)
	StartTimer(name string) Timer
}

// Timer represents a timing measurement.
type Timer interface {
	Stop() time.Duration
}
