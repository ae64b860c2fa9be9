package restapi

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
	"metroplanner.transit.org/internal/app"
	"metroplanner.transit.org/internal/clock"
	"metroplanner.transit.org/internal/logging"
	"metroplanner.transit.org/internal/models"
)

const (
	anonymousBucket = "__no_key__"
	bucketIdleTTL   = 10 * time.Minute
	sweepInterval   = 5 * time.Minute
)

// keyBucket is the token bucket of one API key.
type keyBucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos on the middleware clock
}

// RateLimitMiddleware gives each API key its own token bucket. Tokens are
// drawn against the injected clock so a pinned clock gives repeatable limits.
type RateLimitMiddleware struct {
	mu       sync.RWMutex
	limiters map[string]*keyBucket

	rateLimit  rate.Limit
	burstSize  int
	retryAfter int // seconds
	exemptKeys map[string]bool
	clock      clock.Clock

	sweeper  *time.Ticker
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewRateLimitMiddleware allows ratePerSecond requests per interval for every
// key, with bursts of the same size. A negative rate disables limiting and
// zero rejects everything.
func NewRateLimitMiddleware(ratePerSecond int, interval time.Duration, exemptKeys []string, clk clock.Clock) *RateLimitMiddleware {
	if clk == nil {
		clk = clock.RealClock{}
	}

	rl := &RateLimitMiddleware{
		limiters:   make(map[string]*keyBucket),
		burstSize:  ratePerSecond,
		exemptKeys: make(map[string]bool, len(exemptKeys)),
		clock:      clk,
		sweeper:    time.NewTicker(sweepInterval),
		stopChan:   make(chan struct{}),
	}

	switch {
	case ratePerSecond < 0:
		rl.rateLimit = rate.Inf
		rl.retryAfter = 1
	case ratePerSecond == 0:
		rl.rateLimit = 0
		rl.retryAfter = int(time.Hour / time.Second)
	default:
		rl.rateLimit = rate.Every(interval / time.Duration(ratePerSecond))
		rl.retryAfter = int(math.Max(1, math.Ceil(1/float64(rl.rateLimit))))
	}

	for _, key := range exemptKeys {
		if key = strings.TrimSpace(key); key != "" {
			rl.exemptKeys[key] = true
		}
	}

	go rl.sweepLoop()
	return rl
}

// Handler returns the middleware.
func (rl *RateLimitMiddleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := app.APIKeyFromRequest(r)
			if key == "" {
				key = anonymousBucket
			}
			if rl.exemptKeys[key] {
				next.ServeHTTP(w, r)
				return
			}

			now := rl.clock.Now()
			limiter := rl.getLimiter(key)
			if !limiter.AllowN(now, 1) {
				rl.reject(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burstSize))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining(limiter, now)))
			next.ServeHTTP(w, r)
		})
	}
}

func remaining(limiter *rate.Limiter, now time.Time) int {
	tokens := limiter.TokensAt(now)
	if tokens < 0 || math.IsInf(tokens, 0) {
		return 0
	}
	return int(math.Floor(tokens))
}

// getLimiter returns the bucket for key, creating it on first use, and marks
// the key as seen.
func (rl *RateLimitMiddleware) getLimiter(key string) *rate.Limiter {
	now := rl.clock.Now().UnixNano()

	rl.mu.RLock()
	b, ok := rl.limiters[key]
	rl.mu.RUnlock()

	if !ok {
		rl.mu.Lock()
		if b, ok = rl.limiters[key]; !ok {
			b = &keyBucket{limiter: rate.NewLimiter(rl.rateLimit, rl.burstSize)}
			rl.limiters[key] = b
		}
		rl.mu.Unlock()
	}

	b.lastSeen.Store(now)
	return b.limiter
}

func (rl *RateLimitMiddleware) reject(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burstSize))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.WriteHeader(http.StatusTooManyRequests)

	body := models.NewEntryResponse(nil, models.NewEmptyReferences(), rl.clock)
	body.Code = http.StatusTooManyRequests
	body.Text = "Rate limit exceeded. Please try again later."

	logger := logging.FromContext(r.Context())
	logger.Warn("rate_limited", slog.String("path", r.URL.Path))
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.LogError(logger, "failed to encode rate limit response", err)
	}
}

// cleanupOnce evicts buckets idle for longer than bucketIdleTTL.
func (rl *RateLimitMiddleware) cleanupOnce() {
	cutoff := rl.clock.Now().Add(-bucketIdleTTL).UnixNano()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.limiters {
		if seen := b.lastSeen.Load(); seen != 0 && seen < cutoff {
			delete(rl.limiters, key)
		}
	}
}

func (rl *RateLimitMiddleware) sweepLoop() {
	for {
		select {
		case <-rl.sweeper.C:
			rl.cleanupOnce()
		case <-rl.stopChan:
			return
		}
	}
}

// Stop ends the background sweep. In-flight requests are unaffected and it
// may be called more than once.
func (rl *RateLimitMiddleware) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopChan)
		rl.sweeper.Stop()
	})
}
