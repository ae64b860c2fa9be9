package restapi

import (
	"math"
	"net/http"

	"metroplanner.transit.org/internal/models"
	"metroplanner.transit.org/internal/utils"
)

// nearestStationHandler finds the closest line-platform to ?lat=&lon=, within
// ?radius= meters when given.
func (api *RestAPI) nearestStationHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	fieldErrors := make(map[string][]string)

	utils.RequireParam(params, "lat", fieldErrors)
	utils.RequireParam(params, "lon", fieldErrors)
	lat, fieldErrors := utils.ParseFloatParam(params, "lat", fieldErrors)
	lon, fieldErrors := utils.ParseFloatParam(params, "lon", fieldErrors)
	radius, fieldErrors := utils.ParseFloatParam(params, "radius", fieldErrors)

	if len(fieldErrors) == 0 {
		if err := utils.ValidateLatitude(lat); err != nil {
			fieldErrors["lat"] = append(fieldErrors["lat"], err.Error())
		}
		if err := utils.ValidateLongitude(lon); err != nil {
			fieldErrors["lon"] = append(fieldErrors["lon"], err.Error())
		}
		if err := utils.ValidateRadius(radius); err != nil {
			fieldErrors["radius"] = append(fieldErrors["radius"], err.Error())
		}
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	station, meters, ok := api.SpatialIndex.Nearest(lat, lon, radius)
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	entry := models.NearestStationModel{
		Station:        models.NewStationModel(api.Network, station),
		DistanceMeters: math.Round(meters),
	}
	references := models.NewEmptyReferences()
	line, _ := api.Network.Line(station.LineKey)
	references.AddLine(line)

	api.sendResponse(w, r, models.NewEntryResponse(entry, references, api.clock()))
}
