package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/quietst00rm/seller-zenith-44/internal/pkg/metrics"
)

// ErrCodeRateLimitExceeded is the error code of a 429 response.
const ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"

// maxTrackedClients bounds the per-IP limiter table; the least recently
// seen client is evicted first.
const maxTrackedClients = 10000

// RateLimiter holds one token bucket per client IP.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	perMin   int
	limiters *lru.Cache[string, *rate.Limiter]
}

// NewRateLimiter allows perSec requests per second per client with the
// given burst. A non-positive rate disables limiting.
func NewRateLimiter(perSec float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	cache, _ := lru.New[string, *rate.Limiter](maxTrackedClients)
	return &RateLimiter{
		limit:    rate.Limit(perSec),
		burst:    burst,
		perMin:   int(perSec * 60),
		limiters: cache,
	}
}

func (l *RateLimiter) limiter(ip string) *rate.Limiter {
	if lim, ok := l.limiters.Get(ip); ok {
		return lim
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	if found, _ := l.limiters.ContainsOrAdd(ip, lim); found {
		if got, ok := l.limiters.Get(ip); ok {
			return got
		}
	}
	return lim
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx >= 0 {
		addr = addr[:idx]
	}
	return addr
}

// Middleware returns middleware that limits requests per client IP.
// Returns 429 with Retry-After and sets X-RateLimit-* headers.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l == nil || l.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		limiter := l.limiter(getClientIP(r))
		reservation := limiter.Reserve()
		delay := reservation.Delay()
		if !reservation.OK() || delay > 0 {
			reservation.Cancel()
			retryAfter := int(delay.Seconds()) + 1
			if retryAfter > 60 || !reservation.OK() {
				retryAfter = 60
			}
			metrics.RateLimitedTotal.WithLabelValues(r.URL.Path).Inc()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.perMin))
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Duration(retryAfter)*time.Second).Unix(), 10))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": "Too many requests. Please retry later.",
				"code":  ErrCodeRateLimitExceeded,
			})
			return
		}
		// Request allowed: set rate limit headers (remaining tokens after this request)
		tokens := int(limiter.Tokens())
		if tokens < 0 {
			tokens = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.perMin))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(tokens))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10))
		next.ServeHTTP(w, r)
	})
}
