package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/nordluma/sqlite-mt-tests/pkg/errors"
	"github.com/nordluma/sqlite-mt-tests/pkg/models"
	"github.com/nordluma/sqlite-mt-tests/pkg/repositories"
)

// seederService implements SeederService over a single shared repository.
type seederService struct {
	repo    repositories.UserRepository
	logger  Logger
	metrics MetricsCollector
}

// NewSeederService creates a new seeder service.
func NewSeederService(repo repositories.UserRepository, logger Logger, metrics MetricsCollector) SeederService {
	return &seederService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
	}
}

// Seed partitions the dataset across workers and joins them. Every worker
// shares the one repository handle; serialization happens below it.
func (s *seederService) Seed(ctx context.Context, users []models.User, workers int) (models.SeedResult, error) {
	if workers < 1 {
		return models.SeedResult{}, errors.New(errors.CodeInvalidConfig, "workers must be at least 1")
	}

	timer := s.metrics.StartTimer("seed")
	defer timer.Stop()

	s.logger.Info("Starting seed run", "users", len(users), "workers", workers)
	s.metrics.RecordGauge("seed_workers", float64(workers))

	parts := partition(users, workers)

	var inserted, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for i, part := range parts {
		worker := i + 1
		part := part
		g.Go(func() error {
			return s.runWorker(ctx, worker, part, &inserted, &failed)
		})
	}

	if err := g.Wait(); err != nil {
		return models.SeedResult{}, err
	}

	result := models.SeedResult{
		Inserted: inserted.Load(),
		Failed:   failed.Load(),
		Workers:  workers,
	}

	s.logger.Info("Seed run complete",
		"inserted", result.Inserted,
		"failed", result.Failed,
		"workers", result.Workers,
	)

	return result, nil
}

// runWorker inserts one partition item by item. A failed insert is logged
// and skipped; the worker only stops early when the context is done. A panic
// anywhere in the loop is a task-level fault and comes back as an error.
func (s *seederService) runWorker(ctx context.Context, worker int, part []models.User, inserted, failed *atomic.Int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Worker panicked", "worker", worker, "panic", r)
			err = errors.New(errors.CodeInternal, fmt.Sprintf("worker %d panicked: %v", worker, r))
		}
	}()

	for _, user := range part {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.repo.Insert(ctx, user.Name); err != nil {
			failed.Add(1)
			if errors.IsConstraintViolation(err) {
				s.metrics.IncrementCounter("seed_insert_failures_total",
					"worker", fmt.Sprint(worker), "reason", "duplicate")
				s.logger.Warn("Skipping duplicate name", "worker", worker, "name", user.Name)
			} else {
				s.metrics.IncrementCounter("seed_insert_failures_total",
					"worker", fmt.Sprint(worker), "reason", "storage")
				s.logger.Warn("Insert failed", "worker", worker, "name", user.Name, "error", err)
			}
			continue
		}

		inserted.Add(1)
		s.metrics.IncrementCounter("seed_inserts_total", "worker", fmt.Sprint(worker))
		s.logger.Info("Inserted user", "worker", worker, "name", user.Name)
	}

	return nil
}

// List returns every persisted row.
func (s *seederService) List(ctx context.Context) ([]models.User, error) {
	timer := s.metrics.StartTimer("select_all")
	defer timer.Stop()

	users, err := s.repo.SelectAll(ctx)
	if err != nil {
		s.logger.Error("Failed to select users", "error", err)
		return nil, err
	}

	s.logger.Debug("Selected users", "count", len(users))
	return users, nil
}

// Clear removes every persisted row.
func (s *seederService) Clear(ctx context.Context) (int64, error) {
	timer := s.metrics.StartTimer("delete_all")
	defer timer.Stop()

	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		s.logger.Error("Failed to delete users", "error", err)
		return 0, err
	}

	s.metrics.RecordGauge("seed_deleted_rows", float64(n))
	s.logger.Info("Deleted rows", "count", n)
	return n, nil
}
