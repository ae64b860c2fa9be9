package restapi

import (
	"net/http"
	"strconv"

	"metroplanner.transit.org/internal/buildinfo"
	"metroplanner.transit.org/internal/fare"
	"metroplanner.transit.org/internal/models"
)

func buildModel() models.BuildModel {
	dirty, _ := strconv.ParseBool(buildinfo.Dirty)
	return models.BuildModel{
		Version:     buildinfo.Version,
		Commit:      buildinfo.Commit(),
		CommitShort: buildinfo.ShortCommit(),
		Branch:      buildinfo.Branch,
		Dirty:       dirty,
		BuildTime:   buildinfo.BuildTime,
		CommitTime:  buildinfo.CommitTime,
		BuildHost:   buildinfo.Host,
	}
}

func (api *RestAPI) configHandler(w http.ResponseWriter, r *http.Request) {
	ticketTypes := make([]string, 0, len(fare.TicketTypes))
	for _, tt := range fare.TicketTypes {
		ticketTypes = append(ticketTypes, string(tt))
	}

	entry := models.ConfigModel{
		Build:              buildModel(),
		Id:                 "metro-planner",
		Name:               "Metro Journey Planner",
		NetworkName:        api.Network.Name(),
		TimeZone:           api.location().String(),
		InterchangeMinutes: int(api.Config.InterchangeDuration().Minutes()),
		TicketTypes:        ticketTypes,
		LineCount:          len(api.Network.Lines()),
		StationCount:       api.Network.StationCount(),
	}

	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewEmptyReferences(), api.clock()))
}
