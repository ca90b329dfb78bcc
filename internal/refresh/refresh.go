// Package refresh recomputes the dashboard counters on a timer and
// publishes them as metrics.
package refresh

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"water-billing-backend/internal/metrics"
	"water-billing-backend/internal/store"
)

// StatsSource computes the dashboard counters.
type StatsSource interface {
	ComputeStatistics(ctx context.Context) (store.Statistics, error)
}

// Snapshot is the result of the last successful refresh.
type Snapshot struct {
	Stats store.Statistics `json:"stats"`
	At    time.Time        `json:"at"`
}

// Service periodically refreshes the dashboard counters.
type Service struct {
	source   StatsSource
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time

	mu   sync.RWMutex
	last Snapshot
	wg   sync.WaitGroup
}

// NewService creates a refresher running every interval.
func NewService(source StatsSource, interval time.Duration, log *zap.Logger) *Service {
	return &Service{
		source:   source,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// Start runs the refresher in the background until ctx is done.
func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run(ctx)
	}()
}

// Wait blocks until a refresher started with Start has returned or ctx is
// done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run refreshes once immediately and then on every tick until ctx is done.
// Failures are logged and the loop keeps going.
func (s *Service) Run(ctx context.Context) {
	s.log.Info("starting dashboard refresher", zap.Duration("interval", s.interval))

	s.RefreshOnce(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("dashboard refresher shutting down")
			return
		case <-timer.C:
			s.RefreshOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

// RefreshOnce computes the counters and publishes them.
func (s *Service) RefreshOnce(ctx context.Context) {
	stats, err := s.source.ComputeStatistics(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Warn("dashboard refresh failed", zap.Error(err))
		}
		return
	}

	at := s.now()
	metrics.SetDashboard(stats.ActiveClients, stats.ClientsWithDebt, stats.PaymentsThisMonth, stats.ExcessConsumption, at)

	s.mu.Lock()
	s.last = Snapshot{Stats: stats, At: at}
	s.mu.Unlock()

	s.log.Debug("dashboard refreshed",
		zap.Int64("active_clients", stats.ActiveClients),
		zap.Int64("clients_with_debt", stats.ClientsWithDebt))
}

// Last returns the latest snapshot and whether any refresh succeeded yet.
func (s *Service) Last() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, !s.last.At.IsZero()
}
