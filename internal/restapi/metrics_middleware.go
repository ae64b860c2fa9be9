package restapi

import (
	"net/http"
	"time"

	"metroplanner.transit.org/internal/metrics"
)

// MetricsHandler records request counts and latency per route pattern. With
// nil metrics it passes requests straight through.
func MetricsHandler(m *metrics.Metrics) func(http.Handler) http.Handler {
	if m == nil {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)
			m.ObserveHTTPRequest(r.Method, routeLabel(r), rec.status, time.Since(start))
		})
	}
}
