package restapi

import (
	"net/http"

	"metroplanner.transit.org/internal/models"
	"metroplanner.transit.org/internal/routing"
)

// currentTimeHandler reports the server clock in the network's zone with the
// fare period in force and when the next train leaves.
func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	now := api.clock().Now()
	data := models.NewCurrentTimeData(now, api.location())
	if api.Fares != nil {
		data.Entry.OffPeak = api.Fares.IsOffPeak(now)
		data.Entry.Holiday = api.Fares.IsHoliday(now)
	}
	data.Entry.NextDeparture = routing.NextDeparture(now).UnixMilli()

	api.sendResponse(w, r, models.NewOKResponse(data, api.clock()))
}
