package restapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// protected wraps an API handler with cache headers, rate limiting and key checks.
func (api *RestAPI) protected(tier CacheTier, h handlerFunc) http.Handler {
	return CacheControlMiddleware(tier, api.rateLimiter.Handler()(validateAPIKey(api, h)))
}

func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	mux.Handle("GET /api/where/journey.json", api.protected(CacheNone, api.journeyHandler))
	mux.Handle("GET /api/where/fare.json", api.protected(CacheTimeDependent, api.fareHandler))
	mux.Handle("GET /api/where/stations.json", api.protected(CacheStatic, api.stationsHandler))
	mux.Handle("GET /api/where/station/{id}", api.protected(CacheStatic, api.stationHandler))
	mux.Handle("GET /api/where/lines.json", api.protected(CacheStatic, api.linesHandler))
	mux.Handle("GET /api/where/nearest-station.json", api.protected(CacheStatic, api.nearestStationHandler))
	mux.Handle("GET /api/where/current-time.json", api.protected(CacheTimeDependent, api.currentTimeHandler))
	mux.Handle("GET /api/where/config.json", api.protected(CacheStatic, api.configHandler))

	mux.HandleFunc("GET /healthz", api.healthHandler)
	if api.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(api.Metrics.Registry, promhttp.HandlerOpts{}))
	}
}
