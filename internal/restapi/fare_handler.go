package restapi

import (
	"net/http"

	"metroplanner.transit.org/internal/fare"
	"metroplanner.transit.org/internal/models"
	"metroplanner.transit.org/internal/utils"
)

// fareHandler prices ?distance= kilometers without planning a route.
func (api *RestAPI) fareHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	fieldErrors := make(map[string][]string)

	utils.RequireParam(params, "distance", fieldErrors)
	distance, fieldErrors := utils.ParseFloatParam(params, "distance", fieldErrors)

	ticket, err := fare.ParseTicketType(params.Get("ticket"))
	if err != nil {
		fieldErrors["ticket"] = append(fieldErrors["ticket"], err.Error())
	}

	travelTime, ok := api.requestTime(params.Get("time"), fieldErrors)
	if !ok || len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	breakdown, err := api.Fares.Compute(distance, travelTime, ticket)
	if err != nil {
		api.planErrorResponse(w, r, "distance", err)
		return
	}
	api.Metrics.ObserveFare(string(breakdown.Ticket))

	api.sendResponse(w, r, models.NewEntryResponse(models.NewFareModel(breakdown), models.NewEmptyReferences(), api.clock()))
}
