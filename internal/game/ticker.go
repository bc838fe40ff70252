package game

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Ticker drives the action expiry sweep of a manager.
type Ticker struct {
	manager  *Manager
	interval time.Duration
	log      *zap.Logger
}

// NewTicker builds a ticker sweeping the manager every interval.
func NewTicker(manager *Manager, interval time.Duration, log *zap.Logger) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{manager: manager, interval: interval, log: log}
}

// Run sweeps until the context is cancelled.
func (t *Ticker) Run(ctx context.Context) {
	t.log.Info("expiry ticker started", zap.Duration("interval", t.interval))
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			t.log.Info("expiry ticker stopped")
			return
		case now := <-ticker.C:
			t.manager.Tick(ctx, now)
		}
	}
}
