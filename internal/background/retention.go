package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/arcanehq/realmgate/internal/metrics"
	"github.com/arcanehq/realmgate/internal/repositories"
)

// RetentionSweeper periodically removes login failure records whose
// lockout window expired past the retention horizon. The admin read path
// never depends on this; it only bounds table growth.
type RetentionSweeper struct {
	failureRepo *repositories.LoginFailureRepository
	logger      *slog.Logger
	interval    time.Duration
	retention   time.Duration
	stopCh      chan struct{}
}

// NewRetentionSweeper creates a new retention sweeper
func NewRetentionSweeper(
	failureRepo *repositories.LoginFailureRepository,
	logger *slog.Logger,
	interval time.Duration,
	retention time.Duration,
) *RetentionSweeper {
	return &RetentionSweeper{
		failureRepo: failureRepo,
		logger:      logger,
		interval:    interval,
		retention:   retention,
		stopCh:      make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (rs *RetentionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(rs.interval)
	defer ticker.Stop()

	// Run immediately on startup
	rs.runSweep(ctx)

	for {
		select {
		case <-ticker.C:
			rs.runSweep(ctx)
		case <-rs.stopCh:
			rs.logger.Info("retention sweeper stopped")
			return
		case <-ctx.Done():
			rs.logger.Info("retention sweeper context cancelled")
			return
		}
	}
}

// runSweep removes stale login failure records
func (rs *RetentionSweeper) runSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-rs.retention).Unix()

	rowsDeleted, err := rs.failureRepo.DeleteExpiredBefore(sweepCtx, cutoff)
	if err != nil {
		rs.logger.Error("failed to prune login failures", slog.Any("error", err))
		return
	}

	if rowsDeleted > 0 {
		metrics.LoginFailuresPruned.Add(float64(rowsDeleted))
		rs.logger.Info("login failure retention sweep completed", slog.Int64("rows_deleted", rowsDeleted))
	}
}

// Stop signals the sweeper to stop
func (rs *RetentionSweeper) Stop() {
	close(rs.stopCh)
}
