package restapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"metroplanner.transit.org/internal/clock"
	"metroplanner.transit.org/internal/models"
)

func newTestRateLimiter(t *testing.T, perSecond int, exempt []string) (*RateLimitMiddleware, *clock.MockClock) {
	c := clock.NewMockClock(testNow)
	rl := NewRateLimitMiddleware(perSecond, time.Second, exempt, c)
	t.Cleanup(rl.Stop)
	return rl, c
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware_BlocksRequestsOverLimit(t *testing.T) {
	rl, _ := newTestRateLimiter(t, 3, nil)
	handler := rl.Handler()(okHandler())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/where/lines.json?key=alpha", nil))
		assert.Equal(t, http.StatusOK, w.Code, "Request %d should be allowed", i+1)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/where/lines.json?key=alpha", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	var body models.ResponseModel
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, http.StatusTooManyRequests, body.Code)
	assert.Equal(t, testNow.UnixMilli(), body.CurrentTime)
}

func TestRateLimitMiddleware_RefillsOnClock(t *testing.T) {
	rl, c := newTestRateLimiter(t, 2, nil)
	handler := rl.Handler()(okHandler())

	codes := func() int {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/x?key=alpha", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, codes())
	assert.Equal(t, http.StatusOK, codes())
	assert.Equal(t, http.StatusTooManyRequests, codes())

	c.Advance(500 * time.Millisecond)
	assert.Equal(t, http.StatusOK, codes(), "one token refills every half second")
	assert.Equal(t, http.StatusTooManyRequests, codes())
}

func TestRateLimitMiddleware_RemainingHeader(t *testing.T) {
	rl, _ := newTestRateLimiter(t, 3, nil)
	handler := rl.Handler()(okHandler())

	for _, want := range []string{"2", "1", "0"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/x?key=alpha", nil))
		assert.Equal(t, want, w.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimitMiddleware_ZeroRateRejects(t *testing.T) {
	rl, _ := newTestRateLimiter(t, 0, nil)

	w := httptest.NewRecorder()
	rl.Handler()(okHandler()).ServeHTTP(w, httptest.NewRequest("GET", "/x?key=alpha", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
}

func TestRateLimitMiddleware_NoKeySharesOneBucket(t *testing.T) {
	rl, _ := newTestRateLimiter(t, 1, nil)
	handler := rl.Handler()(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest("GET", "/x", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest("GET", "/y", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRateLimitMiddleware_PerAPIKeyLimiting(t *testing.T) {
	rl, _ := newTestRateLimiter(t, 1, nil)
	handler := rl.Handler()(okHandler())

	for _, key := range []string{"alpha", "beta"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/x?key="+key, nil))
		assert.Equal(t, http.StatusOK, w.Code, key)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/x?key=alpha", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimitMiddleware_ExemptKeys(t *testing.T) {
	rl, _ := newTestRateLimiter(t, 1, []string{" internal "})
	handler := rl.Handler()(okHandler())

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/x?key=internal", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_CleanupEvictsIdleClients(t *testing.T) {
	rl, c := newTestRateLimiter(t, 5, nil)

	rl.getLimiter("idle")
	c.Advance(5 * time.Minute)
	rl.getLimiter("active")
	c.Advance(6 * time.Minute)

	rl.cleanupOnce()

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	assert.NotContains(t, rl.limiters, "idle")
	assert.Contains(t, rl.limiters, "active")
}

func TestRateLimitMiddleware_ConcurrentAccess(t *testing.T) {
	rl, _ := newTestRateLimiter(t, 1000, nil)
	handler := rl.Handler()(okHandler())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest("GET", "/x?key=shared", nil))
		}()
	}
	wg.Wait()

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	assert.Len(t, rl.limiters, 1)
}

func TestRateLimitMiddleware_StopIsIdempotent(t *testing.T) {
	rl, _ := newTestRateLimiter(t, 1, nil)
	rl.Stop()
	rl.Stop()
}
