package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/store"
)

// HousekeepingService periodically deletes authorisations that expired
// while still open and stale OAuth codes.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the worker. A non-positive interval
// defaults to ten minutes.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background until Stop.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one pass. Failures are logged; one failing table does not
// stop the other.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := s.Now().UTC()

	if n, err := s.Store.Authorisations().DeleteExpiredAuthorisations(ctx, now); err != nil {
		s.Logger.Error("failed to delete expired authorisations", "error", err)
	} else if n > 0 {
		s.Logger.Info("deleted expired authorisations", "count", n)
	}

	if n, err := s.Store.OAuthCodes().DeleteExpiredOAuthCodes(ctx, now); err != nil {
		s.Logger.Error("failed to delete expired oauth codes", "error", err)
	} else if n > 0 {
		s.Logger.Info("deleted expired oauth codes", "count", n)
	}
}
