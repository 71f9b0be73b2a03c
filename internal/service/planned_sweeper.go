package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Shukurulla/stream-service/internal/middleware"
	"github.com/Shukurulla/stream-service/internal/observability"
	"github.com/Shukurulla/stream-service/internal/repository"
)

// PlannedSweeper periodically deletes planned lessons whose scheduled time
// passed more than the grace period ago.
type PlannedSweeper struct {
	plannedRepo repository.PlannedLessonRepository
	interval    time.Duration
	grace       time.Duration
}

// NewPlannedSweeper returns a sweeper with the default one-minute tick and
// ten-minute grace period.
func NewPlannedSweeper(plannedRepo repository.PlannedLessonRepository) *PlannedSweeper {
	return &PlannedSweeper{
		plannedRepo: plannedRepo,
		interval:    time.Minute,
		grace:       10 * time.Minute,
	}
}

// Run sweeps on every tick until ctx is cancelled. Intended to be started in
// its own goroutine.
func (s *PlannedSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep deletes expired planned lessons once. Errors are logged, not
// propagated; the next tick retries.
func (s *PlannedSweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.grace)
	deleted, err := s.plannedRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "planned lesson sweep failed",
			slog.String("error", err.Error()),
		)
		return
	}
	if deleted > 0 {
		observability.PlannedLessonsSweptTotal.Add(float64(deleted))
		middleware.Logger.InfoContext(ctx, "planned lessons swept",
			slog.Int64("deleted", deleted),
		)
	}
}
