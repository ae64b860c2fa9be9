package restapi

import (
	"net/http"

	"metroplanner.transit.org/internal/models"
	"metroplanner.transit.org/internal/utils"
)

// stationsHandler lists physical stations by name, with the lines serving each.
func (api *RestAPI) stationsHandler(w http.ResponseWriter, r *http.Request) {
	places := api.Network.Places()
	list := make([]models.PlaceModel, 0, len(places))
	for _, p := range places {
		list = append(list, models.NewPlaceModel(p))
	}

	references := models.NewEmptyReferences()
	for _, line := range api.Network.Lines() {
		references.AddLine(line)
	}

	api.sendResponse(w, r, models.NewListResponse(list, references, api.clock()))
}

// stationHandler returns one line-platform. The other platforms of the same
// physical station are listed in references.
func (api *RestAPI) stationHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	station, ok := api.Network.Station(id)
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	references := models.NewEmptyReferences()
	if line, ok := api.Network.Line(station.LineKey); ok {
		references.AddLine(line)
	}
	if place, ok := api.Network.PlaceOf(id); ok {
		for _, otherID := range place.StationIDs {
			if otherID == id {
				continue
			}
			other, _ := api.Network.Station(otherID)
			references.Stations = append(references.Stations, models.NewStationModel(api.Network, other))
			line, _ := api.Network.Line(other.LineKey)
			references.AddLine(line)
		}
	}

	api.sendResponse(w, r, models.NewEntryResponse(models.NewStationModel(api.Network, station), references, api.clock()))
}
