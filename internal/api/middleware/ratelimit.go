package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/phrazzld/task-tracker-api/internal/api/shared"
	"golang.org/x/time/rate"
)

// MsgTooManyRequests is the error returned once a client exhausts its quota.
const MsgTooManyRequests = "Too many requests, please try again later."

// RateLimiter hands out a token bucket per client. Each bucket holds
// Requests tokens and refills completely over Window.
type RateLimiter struct {
	requests int
	window   time.Duration
	every    rate.Limit
	now      func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientBucket
	lastSweep time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows each client requests per window.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return newRateLimiter(requests, window, time.Now)
}

func newRateLimiter(requests int, window time.Duration, now func() time.Time) *RateLimiter {
	if requests < 1 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		requests:  requests,
		window:    window,
		every:     rate.Every(window / time.Duration(requests)),
		now:       now,
		clients:   make(map[string]*clientBucket),
		lastSweep: now(),
	}
}

// Allow takes one token from key's bucket. It reports whether the request
// may proceed, the tokens left and how long until the bucket is full again.
func (l *RateLimiter) Allow(key string) (bool, int, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.clients[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(l.every, l.requests)}
		l.clients[key] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	tokens := math.Max(b.limiter.TokensAt(now), 0)
	missing := float64(l.requests) - tokens
	reset := time.Duration(math.Round(missing / float64(l.every) * float64(time.Second)))

	return allowed, int(tokens), reset
}

// sweep drops buckets idle for a full window; they would be full anyway.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for key, b := range l.clients {
		if now.Sub(b.lastSeen) >= l.window {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// Middleware enforces the limit per client IP and sets the RateLimit-Limit,
// RateLimit-Remaining and RateLimit-Reset headers on every response.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, remaining, reset := l.Allow(clientKey(r))

		h := w.Header()
		h.Set("RateLimit-Limit", strconv.Itoa(l.requests))
		h.Set("RateLimit-Remaining", strconv.Itoa(remaining))
		h.Set("RateLimit-Reset", strconv.Itoa(int(math.Ceil(reset.Seconds()))))

		if !allowed {
			shared.RespondWithError(w, r, http.StatusTooManyRequests, MsgTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the caller by the host part of RemoteAddr, which
// chi's RealIP middleware has already rewritten when proxies are involved.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
