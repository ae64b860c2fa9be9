package restapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"metroplanner.transit.org/internal/fare"
	"metroplanner.transit.org/internal/logging"
	"metroplanner.transit.org/internal/models"
	"metroplanner.transit.org/internal/routing"
)

// invalidAPIKeyResponse sends a 401 Unauthorized response with the required format
// for invalid API key errors
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.sendUnauthorized(w, r)
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.requestLogger(r), "request failed", err)

	response := models.ResponseModel{
		Code:        http.StatusInternalServerError,
		CurrentTime: models.ResponseCurrentTime(api.clock()),
		Text:        "internal server error",
		Version:     1,
	}

	setJSONResponseType(&w)
	w.WriteHeader(http.StatusInternalServerError)
	if encoderErr := json.NewEncoder(w).Encode(response); encoderErr != nil {
		logging.LogError(api.requestLogger(r), "failed to encode server error response", encoderErr)
	}
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	setJSONResponseType(&w)
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(api.requestLogger(r), "failed to encode validation error response", err)
	}
}

// planErrorResponse maps planner and fare errors onto HTTP statuses. field
// names the request parameter an input error is reported against.
func (api *RestAPI) planErrorResponse(w http.ResponseWriter, r *http.Request, field string, err error) {
	switch {
	case errors.Is(err, routing.ErrUnknownStation), errors.Is(err, fare.ErrInvalidFareInput):
		api.validationErrorResponse(w, r, map[string][]string{field: {err.Error()}})
	case errors.Is(err, routing.ErrNoRouteFound):
		api.sendError(w, r, http.StatusNotFound, "no route found")
	default:
		api.serverErrorResponse(w, r, err)
	}
}
