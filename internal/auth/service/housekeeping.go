package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/strataworks/gatehouse/internal/auth/store"
)

// notificationRetention is how long notifications are kept before the
// housekeeping pass prunes them.
const notificationRetention = 90 * 24 * time.Hour

// HousekeepingService periodically prunes expired revocation entries and
// old notifications so neither table grows without bound.
type HousekeepingService struct {
	Store    store.Store
	Revoked  store.RevokedTokens
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the background worker. If interval is 0 or
// negative, defaults to 1 hour.
func NewHousekeepingService(st store.Store, revoked store.RevokedTokens, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Store:    st,
		Revoked:  revoked,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the worker. Non-blocking; call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop shuts the worker down, blocking until any in-progress pass finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

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

// cleanup runs each pruning step independently; one failing never stops
// the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()

	if err := s.Revoked.DeleteExpired(ctx); err != nil {
		s.Logger.Error("failed to prune revocation list", "error", err)
	}

	cutoff := time.Now().Add(-notificationRetention)
	if err := s.Store.Notifications().DeleteOlderThan(ctx, cutoff); err != nil {
		s.Logger.Error("failed to prune notifications", "error", err)
	}
}
