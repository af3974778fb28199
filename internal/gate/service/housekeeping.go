package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/millhouse-dev/taskgate/internal/gate/store"
)

// HousekeepingService periodically prunes old audit events and deletes an
// expired session marker so the credential store does not accumulate stale
// records.
type HousekeepingService struct {
	Store     store.Store
	Auth      *AuthService
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration // how long audit events are kept

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. Non-positive
// interval defaults to 1 hour; non-positive retention to 30 days.
func NewHousekeepingService(
	st store.Store,
	auth *AuthService,
	logger *slog.Logger,
	interval time.Duration,
	retention time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}

	return &HousekeepingService{
		Store:     st,
		Auth:      auth,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut the
// worker down gracefully.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the background worker. Blocks until any in-progress
// cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup performs the actual pruning. Each step is independent; a failure
// in one does not stop the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	s.Logger.Debug("starting housekeeping cleanup")

	cutoff := time.Now().Add(-s.Retention)
	if err := s.Store.AuthEvents().DeleteOlderThan(ctx, cutoff); err != nil {
		s.Logger.Error("failed to prune auth events", "err", err)
	}

	if err := s.Auth.PurgeExpiredSession(ctx); err != nil {
		s.Logger.Error("failed to purge expired session marker", "err", err)
	}

	s.Logger.Debug("housekeeping cleanup completed")
}
