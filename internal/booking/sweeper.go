package booking

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically expires stale unpaid tickets through the Engine.
// It calls the same ExpireStale entry point an admin trigger would, so
// every seat release follows one code path.  Overlapping runs are safe:
// each ticket transition is an independent compare-and-set inside the
// Engine, so a second sweep over the same tickets is a no-op.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
	window   time.Duration
}

// NewSweeper builds a sweeper that runs every interval and expires PENDING
// tickets older than window.
func NewSweeper(engine *Engine, interval, window time.Duration) *Sweeper {
	if engine == nil {
		panic("nil engine passed to NewSweeper")
	}
	return &Sweeper{engine: engine, interval: interval, window: window}
}

// Run blocks until ctx is cancelled, sweeping once per interval.  It is
// meant to be started in its own goroutine from main.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("sweeper: started interval=%s window=%s", s.interval, s.window)
	for {
		select {
		case <-ctx.Done():
			log.Printf("sweeper: stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.engine.ExpireStale(ctx, time.Now().UTC(), s.window)
	if err != nil {
		log.Printf("sweeper: sweep failed after %d tickets: %v", n, err)
		return
	}
	if n > 0 {
		log.Printf("sweeper: expired %d stale tickets", n)
	}
}
