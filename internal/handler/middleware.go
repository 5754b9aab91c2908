package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joeatteen/blog-backend/internal/imageurl"
)

// WakeCoordinator pokes the refresh coordinator on every request. A request
// arriving after a long idle stretch plays the role the page-visibility
// event plays in a browser: it triggers a refresh broadcast when more than
// the refresh interval has passed.
func WakeCoordinator(coord *imageurl.Coordinator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		coord.Wake()
		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders sets the baseline response headers for a JSON-only API:
// no sniffing, no framing, and a CSP that blocks everything in case a
// response is ever opened directly in a browser.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// RateLimiter provides IP-based rate limiting using a sliding window.
// Applied to comment submission to keep drive-by spam out.
type RateLimiter struct {
	maxPerMinute      int
	trustedProxyCount int
	mu                sync.Mutex
	windows           map[string][]time.Time
}

// NewRateLimiter creates a rate limiter with the given requests-per-minute
// limit. Assumes a single trusted reverse proxy.
func NewRateLimiter(maxPerMinute int) *RateLimiter {
	rl := &RateLimiter{
		maxPerMinute:      maxPerMinute,
		trustedProxyCount: 1,
		windows:           make(map[string][]time.Time),
	}
	go rl.cleanupLoop()
	return rl
}

// cleanupLoop periodically drops idle client windows.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-time.Minute)
		rl.mu.Lock()
		for ip, ts := range rl.windows {
			if pruned := prune(ts, cutoff); len(pruned) == 0 {
				delete(rl.windows, ip)
			} else {
				rl.windows[ip] = pruned
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware returns an http.Handler that enforces the limit.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.clientIP(r)
		now := time.Now()

		rl.mu.Lock()
		ts := prune(rl.windows[ip], now.Add(-time.Minute))
		if len(ts) >= rl.maxPerMinute {
			retryAfter := ts[0].Add(time.Minute).Sub(now)
			rl.windows[ip] = ts
			rl.mu.Unlock()

			secs := int(retryAfter.Seconds()) + 1
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
			return
		}
		rl.windows[ip] = append(ts, now)
		rl.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// prune keeps only timestamps after cutoff, reusing the backing array.
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	valid := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	return valid
}

// clientIP extracts the real client IP, reading from the rightmost trusted
// proxy position in X-Forwarded-For to prevent spoofing.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && rl.trustedProxyCount > 0 {
		parts := strings.Split(xff, ",")
		idx := len(parts) - rl.trustedProxyCount
		if idx >= 0 && idx < len(parts) {
			return strings.TrimSpace(parts[idx])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
