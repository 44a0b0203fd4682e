package http

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// rateLimiter throttles mutating requests per client IP over a fixed
// window. Reads pass through untouched: the write endpoints (import,
// restore, create, delete) are the ones a runaway client can hurt the
// owner's data with.
type rateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	clients map[string]*clientWindow

	rejected     atomic.Int64
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

// clientWindow counts one client's requests inside its current window.
type clientWindow struct {
	windowStart time.Time
	requests    int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		limit:       limit,
		window:      window,
		clients:     make(map[string]*clientWindow),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// allow reports whether a request may proceed. Reads are never limited.
func (rl *rateLimiter) allow(method, clientIP string) bool {
	if method == http.MethodGet || method == http.MethodHead {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists || now.Sub(client.windowStart) > rl.window {
		rl.clients[clientIP] = &clientWindow{windowStart: now, requests: 1}
		return true
	}

	client.requests++
	if client.requests > rl.limit {
		rl.rejected.Add(1)
		return false
	}
	return true
}

// rejectedCount reports how many requests the limiter has turned away.
func (rl *rateLimiter) rejectedCount() int64 {
	return rl.rejected.Load()
}

// startCleanup drops clients whose window has long passed, so idle IPs do
// not accumulate in the map.
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * rl.window)
	for ip, client := range rl.clients {
		if client.windowStart.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// stop shuts the cleanup goroutine down.
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}
