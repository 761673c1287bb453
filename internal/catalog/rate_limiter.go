package catalog

import (
	"sync"
	"time"
)

// RateLimiter spaces calls at least one interval apart. Waiters queue behind
// each other: each call reserves the next free slot before sleeping, so
// concurrent callers cannot claim the same slot.
type RateLimiter struct {
	mu       sync.Mutex
	next     time.Time
	interval time.Duration
}

func NewRateLimiter(interval time.Duration) *RateLimiter {
	if interval <= 0 {
		interval = time.Second
	}
	return &RateLimiter{interval: interval}
}

func (r *RateLimiter) WaitTurn() {
	r.mu.Lock()
	wait := time.Until(r.next)
	if wait < 0 {
		wait = 0
	}
	r.next = time.Now().Add(wait + r.interval)
	r.mu.Unlock()

	if wait > 0 {
		time.Sleep(wait)
	}
}
