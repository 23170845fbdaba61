package worker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter implements per-client token-bucket rate limiting
type Limiter struct {
	limiters     map[string]*clientLimiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
	now          func() time.Time
}

// NewLimiter creates a new rate limiter. A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     make(map[string]*clientLimiter),
		defaultRate:  limit,
		defaultBurst: burst,
		now:          time.Now,
	}
}

// Wait waits for rate limit clearance for the given client key
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.getLimiter(key).Wait(ctx)
}

// Allow checks if a request from key is allowed without waiting
func (l *Limiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

func (l *Limiter) getLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.limiters[key]
	if !exists {
		entry = &clientLimiter{limiter: rate.NewLimiter(l.defaultRate, l.defaultBurst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = l.now()

	return entry.limiter
}

// Sweep drops limiters for clients idle longer than maxIdle and returns how many were removed
func (l *Limiter) Sweep(maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-maxIdle)
	removed := 0
	for key, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
