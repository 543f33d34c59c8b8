package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Reaper periodically deletes pending notifications whose event has been
// removed, so they do not accumulate as rows the flusher can never publish.
type Reaper struct {
	mu       sync.RWMutex
	engine   *Engine
	interval time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewReaper(engine *Engine, interval time.Duration, logger *slog.Logger) *Reaper {
	return &Reaper{
		engine:   engine,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the reconciliation loop.
func (r *Reaper) Start(ctx context.Context) {
	r.mu.Lock()
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.mu.Unlock()

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.tick()
			}
		}
	}()
}

// Stop gracefully stops the reaper.
func (r *Reaper) Stop() {
	r.mu.RLock()
	cancel := r.cancel
	done := r.done
	r.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (r *Reaper) tick() {
	n, err := r.engine.ReapOrphans()
	if err != nil {
		r.logger.Error("reap orphaned pending", "error", err)
		return
	}
	if n > 0 {
		r.logger.Info("reaped orphaned pending notifications", "count", n)
	}
}
