package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Limiter admits at most `limit` calls within any sliding `window`. The
// timestamp log is shared by every caller holding the same instance, so a
// single Limiter constructed at startup bounds the whole process.
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu     sync.Mutex
	stamps []time.Time
}

func NewLimiter(limit int, window time.Duration) (*Limiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be greater than zero")
	}

	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		stamps: make([]time.Time, 0, limit),
	}, nil
}

// Acquire blocks until a call slot is available or ctx is done. Waiting is a
// timed sleep until the oldest recorded call leaves the window, re-checked on
// wake; callers never busy-spin.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		wait, ok := l.tryRecord(l.now())
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryRecord drops expired stamps under the lock, then either records now or
// reports how long until the oldest remaining stamp leaves the window.
func (l *Limiter) tryRecord(now time.Time) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	kept := l.stamps[:0]
	for _, stamp := range l.stamps {
		if stamp.After(cutoff) {
			kept = append(kept, stamp)
		}
	}
	l.stamps = kept

	if len(l.stamps) < l.limit {
		l.stamps = append(l.stamps, now)
		return 0, true
	}

	wait := l.window - now.Sub(l.stamps[0])
	if wait <= 0 {
		wait = time.Millisecond
	}
	return wait, false
}

// InFlight reports how many recorded calls are still inside the window.
func (l *Limiter) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	count := 0
	for _, stamp := range l.stamps {
		if stamp.After(cutoff) {
			count++
		}
	}
	return count
}
