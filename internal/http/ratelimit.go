package http

import (
	"sync"
	"sync/atomic"
	"time"
)

// Mutating requests per client IP per window. Reads (dashboard, lists)
// are not counted; households poll those freely.
const (
	mutationLimit = 60
	rateWindow    = time.Minute

	limiterSweepInterval = 5 * time.Minute
	limiterEntryMaxAge   = 10 * time.Minute
)

// rateLimiter tracks mutating requests per client IP in a fixed window.
type rateLimiter struct {
	mu           sync.Mutex
	perIP        map[string]*ipWindow
	stopSweep    chan struct{}
	shutdownOnce sync.Once
}

// ipWindow is one client's count within its current window. The window
// restarts on the first request after rateWindow of inactivity.
type ipWindow struct {
	lastSeen time.Time
	count    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		perIP:     make(map[string]*ipWindow),
		stopSweep: make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

func (rl *rateLimiter) sweepLoop() {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stopSweep:
			return
		}
	}
}

// sweep drops IPs that have been quiet long enough that their window no
// longer matters, bounding the map for long-running servers.
func (rl *rateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-limiterEntryMaxAge)
	for ip, w := range rl.perIP {
		if w.lastSeen.Before(cutoff) {
			delete(rl.perIP, ip)
		}
	}
}

// stop terminates the sweep goroutine. Safe to call more than once.
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopSweep)
	})
}

// allow records one mutating request from clientIP and reports whether it
// stays within the limit. Rejections are counted in metrics when present.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.perIP[clientIP]
	if !ok || now.Sub(w.lastSeen) > rateWindow {
		rl.perIP[clientIP] = &ipWindow{lastSeen: now, count: 1}
		return true
	}

	w.count++
	w.lastSeen = now
	if w.count > mutationLimit {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}
