package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter caps requests per remote address inside a rolling window. It
// guards the public auth routes; everything behind the JWT middleware is
// left alone.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
}

type bucket struct {
	count    int
	lastSeen time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}
	go rl.evictStale()
	return rl
}

// evictStale drops addresses idle for longer than the window.
func (rl *RateLimiter) evictStale() {
	for {
		time.Sleep(rl.window)

		rl.mu.Lock()
		for addr, b := range rl.buckets {
			if time.Since(b.lastSeen) > rl.window {
				delete(rl.buckets, addr)
			}
		}
		rl.mu.Unlock()
	}
}

// allow counts one request for addr and reports whether it stays within the
// limit. Requests past the limit still refresh lastSeen, so hammering does
// not reset the window early.
func (rl *RateLimiter) allow(addr string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[addr]
	if !ok || now.Sub(b.lastSeen) > rl.window {
		rl.buckets[addr] = &bucket{count: 1, lastSeen: now}
		return true
	}

	b.count++
	b.lastSeen = now
	return b.count <= rl.limit
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.RemoteAddr) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
