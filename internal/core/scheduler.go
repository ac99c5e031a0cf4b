package core

// scheduler.go runs background maintenance for the service.
//
// Currently it collects idle browsing sessions so their customer browsers
// can be garbage collected. The sweeper is long-running and context-aware
// for graceful shutdown.

import (
	"context"
	"log/slog"
	"time"
)

// StartSessionSweeper periodically drops idle sessions until ctx is
// cancelled. It blocks; run it in a goroutine.
func (s *Service) StartSessionSweeper(ctx context.Context, interval time.Duration) {
	slog.Info("session sweeper started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.runSweep()
		}
	}
}

func (s *Service) runSweep() {
	start := time.Now()
	dropped := s.sessions.Sweep()
	if dropped > 0 {
		slog.Info("idle sessions collected",
			"dropped", dropped,
			"remaining", s.SessionCount(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
