package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"metroplanner.transit.org/internal/clock"
	"metroplanner.transit.org/internal/logging"
	"metroplanner.transit.org/internal/models"
)

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	setJSONResponseType(&w)
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request) {
	api.sendError(w, r, http.StatusNotFound, "resource not found")
}

func (api *RestAPI) sendUnauthorized(w http.ResponseWriter, r *http.Request) {
	setJSONResponseType(&w)
	w.WriteHeader(http.StatusUnauthorized)

	response := models.ResponseModel{
		Code:        http.StatusUnauthorized,
		CurrentTime: models.ResponseCurrentTime(api.clock()),
		Text:        "permission denied",
		Version:     1,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(api.requestLogger(r), "failed to encode unauthorized response", err)
	}
}

func setJSONResponseType(w *http.ResponseWriter) {
	(*w).Header().Set("Content-Type", "application/json")
}

func (api *RestAPI) sendError(w http.ResponseWriter, r *http.Request, code int, message string) {
	setJSONResponseType(&w)
	w.WriteHeader(code)

	response := models.ResponseModel{
		Code:        code,
		CurrentTime: models.ResponseCurrentTime(api.clock()),
		Text:        message,
		Version:     2,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(api.requestLogger(r), "failed to encode error response", err)
	}
}

func (api *RestAPI) clock() clock.Clock {
	if api.Application == nil || api.Clock == nil {
		return clock.RealClock{}
	}
	return api.Clock
}

// requestLogger prefers the request-scoped logger from the access log
// middleware. Without it the application logger is tagged here.
func (api *RestAPI) requestLogger(r *http.Request) *slog.Logger {
	logger := logging.FromContext(r.Context())
	if logger != slog.Default() || api.Application == nil || api.Logger == nil {
		return logger
	}
	if id := GetRequestID(r.Context()); id != "" {
		return api.Logger.With(slog.String("request_id", id))
	}
	return api.Logger
}
