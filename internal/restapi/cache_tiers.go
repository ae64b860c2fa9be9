package restapi

import (
	"fmt"
	"net/http"
)

// CacheTier is how long clients may reuse a successful response.
type CacheTier int

const (
	// CacheNone is for responses computed from the caller's clock, such as journeys.
	CacheNone CacheTier = 0
	// CacheTimeDependent covers answers that shift with the time of day.
	CacheTimeDependent CacheTier = 30
	// CacheStatic covers network topology, which only changes on reload.
	CacheStatic CacheTier = 300
)

const noStoreHeader = "no-cache, no-store, must-revalidate"

func (t CacheTier) header() string {
	if t <= CacheNone {
		return noStoreHeader
	}
	return fmt.Sprintf("public, max-age=%d", int(t))
}

// CacheControlMiddleware sets Cache-Control once the status is known: 2xx
// responses get the tier's header and everything else is marked uncacheable.
func CacheControlMiddleware(tier CacheTier, next http.Handler) http.Handler {
	value := tier.header()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&cacheControlWriter{ResponseWriter: w, value: value}, r)
	})
}

type cacheControlWriter struct {
	http.ResponseWriter
	value   string
	decided bool
}

func (w *cacheControlWriter) WriteHeader(code int) {
	if !w.decided {
		w.decided = true
		value := noStoreHeader
		if code >= 200 && code < 300 {
			value = w.value
		}
		w.Header().Set("Cache-Control", value)
		if value != noStoreHeader {
			w.Header().Add("Vary", "Accept-Encoding")
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *cacheControlWriter) Write(b []byte) (int, error) {
	if !w.decided {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}
