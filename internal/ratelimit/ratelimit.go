package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a fixed minimum gap between successive actions. This is a
// politeness delay, not a backoff scheme: the interval never changes.
type Pacer struct {
	delay      time.Duration
	lastAction time.Time
	mu         sync.Mutex
}

func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Wait blocks until the configured gap since the previous action has elapsed.
// The first call returns immediately.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.lastAction.IsZero() {
		elapsed := time.Since(p.lastAction)
		if elapsed < p.delay {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.delay - elapsed):
			}
		}
	}

	p.lastAction = time.Now()
	return nil
}
