package httpapi

import (
	"sync"
	"time"
)

// Rate limit defaults: requests per window, per client IP. Auth-class
// requests (share creation and password checks) get a tighter budget to
// slow brute forcing.
const (
	rateLimitWindow    = 15 * time.Minute
	rateLimitGeneral   = 100
	rateLimitAuthClass = 20
)

type rateWindow struct {
	start time.Time
	count int
}

// RateLimiter is a fixed-window counter keyed by client identifier.
// Windows reset rateLimitWindow after their first request.
type RateLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	limit     int
	authLimit int
	entries   map[string]*rateWindow
	now       func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		window:    rateLimitWindow,
		limit:     rateLimitGeneral,
		authLimit: rateLimitAuthClass,
		entries:   make(map[string]*rateWindow),
		now:       time.Now,
	}
}

// Allow records a request for key and reports whether it fits the
// window. Auth-class requests are counted against a separate, smaller
// budget.
func (rl *RateLimiter) Allow(key string, authClass bool) bool {
	limit := rl.limit
	if authClass {
		limit = rl.authLimit
		key += ":auth"
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.entries[key]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.entries[key] = &rateWindow{start: now, count: 1}
		return true
	}

	if w.count >= limit {
		return false
	}
	w.count++
	return true
}
