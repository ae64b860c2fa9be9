package restapi

import (
	"encoding/json"
	"net/http"

	"metroplanner.transit.org/internal/logging"
)

// HealthResponse represents the JSON response from the health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Stations int    `json:"stations,omitempty"`
}

// healthHandler reports ready once the network and planner are loaded and, if
// a store is configured, its database answers a ping.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if api.Application == nil || api.Network == nil || api.Planner == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "unavailable",
			Detail: "network not loaded",
		})
		return
	}

	if api.Store != nil && api.Store.DB != nil {
		if err := api.Store.DB.PingContext(r.Context()); err != nil {
			logging.LogError(api.requestLogger(r), "network DB ping failed", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(HealthResponse{
				Status: "unavailable",
				Detail: "database connection failed",
			})
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(HealthResponse{
		Status:   "ok",
		Stations: api.Network.StationCount(),
	})
}
