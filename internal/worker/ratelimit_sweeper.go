package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/advisory-portal/internal/ratelimit"
	"github.com/spec-kit/advisory-portal/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// RateLimitSweeper periodically prunes expired rate limit windows.
type RateLimitSweeper struct {
	store    ratelimit.Sweeper
	window   time.Duration
	interval time.Duration
	logger   *zap.Logger
}

// NewRateLimitSweeper builds a sweeper for store.
func NewRateLimitSweeper(store ratelimit.Sweeper, window, interval time.Duration, logger *zap.Logger) *RateLimitSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &RateLimitSweeper{store: store, window: window, interval: interval, logger: logger}
}

// Run sweeps on every tick until ctx is cancelled.
func (s *RateLimitSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.SweepOnce(ctx)
		}
	}
}

// SweepOnce performs a single sweep and logs its outcome.
func (s *RateLimitSweeper) SweepOnce(ctx context.Context) (ratelimit.SweepReport, error) {
	report, err := s.store.Sweep(ctx, s.window)
	if err != nil {
		s.logger.Error("rate limit cleanup failed", zap.Error(err))
		return report, err
	}
	s.logger.Info("rate limit cleanup completed",
		zap.Int("removed_entries", report.RemovedEntries),
		zap.Int("removed_keys", report.RemovedKeys),
		zap.Int("remaining_keys", report.RemainingKeys),
		zap.Time("cutoff", report.At.Add(-report.Window)),
	)
	return report, nil
}
