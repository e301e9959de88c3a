package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/poketrainer/api/internal/model"
)

// RateLimitConfig tunes the limiter. A zero-value config gets the
// defaults noted per field. In a partially-set config only Rate, Window
// and Cleanup fall back individually; Burst keeps its value so a
// no-headroom limiter stays representable.
type RateLimitConfig struct {
	Rate    int           // requests per window (100)
	Window  time.Duration // refill window (1m)
	Burst   int           // extra headroom above Rate (20)
	Cleanup time.Duration // idle-bucket sweep interval (5m)
}

// RateLimiter is a token-bucket limiter keyed per caller. Authenticated
// requests are keyed by trainer id so a trainer's budget follows them
// across addresses; anonymous requests fall back to the remote address.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     int
	window   time.Duration
	burst    int
	cleanup  time.Duration
	stopChan chan struct{}
}

type bucket struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter creates a limiter and starts its sweep goroutine. Call
// Stop when done.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg == (RateLimitConfig{}) {
		cfg.Burst = 20
	}
	if cfg.Rate == 0 {
		cfg.Rate = 100
	}
	if cfg.Window == 0 {
		cfg.Window = time.Minute
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = 5 * time.Minute
	}

	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     cfg.Rate,
		window:   cfg.Window,
		burst:    cfg.Burst,
		cleanup:  cfg.Cleanup,
		stopChan: make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Stop ends the sweep goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopChan)
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanupExpired()
		case <-rl.stopChan:
			return
		}
	}
}

// cleanupExpired drops buckets idle for more than two windows; a caller
// that returns simply gets a fresh full bucket.
func (rl *RateLimiter) cleanupExpired() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-2 * rl.window)
	for key, b := range rl.buckets {
		if b.lastReset.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// Allow spends one token for key. It reports whether the request may
// proceed, how many tokens remain, and when the bucket refills.
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int, resetTime time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cap := rl.rate + rl.burst

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: cap - 1, lastReset: now}
		rl.buckets[key] = b
		return true, b.tokens, now.Add(rl.window)
	}

	// Refill proportionally to time elapsed; a full window restores the
	// whole budget.
	elapsed := now.Sub(b.lastReset)
	switch {
	case elapsed >= rl.window:
		b.tokens = cap
		b.lastReset = now
	case elapsed > 0:
		refill := int(float64(rl.rate) * (float64(elapsed) / float64(rl.window)))
		if refill > 0 {
			b.tokens = min(b.tokens+refill, cap)
			b.lastReset = now
		}
	}

	reset := b.lastReset.Add(rl.window)
	if b.tokens < 1 {
		return false, 0, reset
	}
	b.tokens--
	return true, b.tokens, reset
}

// RateLimit enforces the limiter and reports budget state through the
// X-RateLimit-* headers. Rejected requests get a 429 problem document
// with Retry-After set.
func RateLimit(limiter *RateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := GetTrainerID(r.Context())
			if key == "" {
				key = r.RemoteAddr
			}

			allowed, remaining, resetTime := limiter.Allow(key)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.rate))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				retryAfter := int(time.Until(resetTime).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				model.NewRateLimitError(retryAfter).WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
