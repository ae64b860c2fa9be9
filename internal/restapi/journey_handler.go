package restapi

import (
	"net/http"
	"time"

	"metroplanner.transit.org/internal/clock"
	"metroplanner.transit.org/internal/fare"
	"metroplanner.transit.org/internal/logging"
	"metroplanner.transit.org/internal/models"
	"metroplanner.transit.org/internal/routing"
	"metroplanner.transit.org/internal/utils"
	"metroplanner.transit.org/networkdb"
)

// journeyHandler plans the fastest journey between ?from= and ?to= station ids.
// ?ticket= selects the fare product and ?time= overrides "now".
func (api *RestAPI) journeyHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	fieldErrors := make(map[string][]string)

	from := utils.RequireParam(params, "from", fieldErrors)
	to := utils.RequireParam(params, "to", fieldErrors)
	for field, id := range map[string]string{"from": from, "to": to} {
		if id == "" {
			continue
		}
		if err := utils.ValidateID(id); err != nil {
			fieldErrors[field] = append(fieldErrors[field], err.Error())
		} else if _, ok := api.Network.Station(id); !ok {
			fieldErrors[field] = append(fieldErrors[field], "unknown station "+id)
		}
	}

	ticket, err := fare.ParseTicketType(params.Get("ticket"))
	if err != nil {
		fieldErrors["ticket"] = append(fieldErrors["ticket"], err.Error())
	}

	now, ok := api.requestTime(params.Get("time"), fieldErrors)
	if !ok || len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	journey, err := api.Planner.PlanAt(r.Context(), from, to, ticket, now)
	if err != nil {
		api.planErrorResponse(w, r, "from", err)
		return
	}

	entry, references := models.NewJourneyModel(api.Network, journey)
	api.recordJourney(r, journey)

	api.sendResponse(w, r, models.NewEntryResponse(entry, references, api.clock()))
}

// requestTime parses an optional ?time= value in the network's zone. It
// returns false after recording a field error.
func (api *RestAPI) requestTime(raw string, fieldErrors map[string][]string) (time.Time, bool) {
	if raw == "" {
		return api.clock().Now(), true
	}
	t, err := clock.ParseTime(raw, api.location())
	if err != nil {
		fieldErrors["time"] = append(fieldErrors["time"], err.Error())
		return time.Time{}, false
	}
	return t, true
}

func (api *RestAPI) location() *time.Location {
	if api.Fares != nil && api.Fares.Location != nil {
		return api.Fares.Location
	}
	return api.Config.Location()
}

// recordJourney appends the journey to the query log. Failures are logged and
// never fail the request.
func (api *RestAPI) recordJourney(r *http.Request, j *routing.Journey) {
	if api.Store == nil {
		return
	}

	_, err := api.Store.RecordJourney(r.Context(), networkdb.JourneyRecord{
		RequestID:     GetRequestID(r.Context()),
		FromStation:   j.StartStationID,
		ToStation:     j.EndStationID,
		TicketType:    string(j.Fare.Ticket),
		TotalSeconds:  j.TotalTimeSeconds,
		DistanceKm:    j.TotalDistanceKm,
		FinalFare:     j.Fare.FinalFare,
		Interchanges:  j.Interchanges,
		DepartureTime: j.DepartureTime,
		PlannedAt:     api.clock().Now(),
	})
	if err != nil {
		logging.LogError(api.requestLogger(r), "failed to record journey", err)
	}
}
