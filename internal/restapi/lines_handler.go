package restapi

import (
	"net/http"

	"metroplanner.transit.org/internal/models"
)

func (api *RestAPI) linesHandler(w http.ResponseWriter, r *http.Request) {
	lines := api.Network.Lines()
	list := make([]models.LineModel, 0, len(lines))
	for _, line := range lines {
		list = append(list, models.NewLineModel(api.Network, line))
	}

	api.sendResponse(w, r, models.NewListResponse(list, models.NewEmptyReferences(), api.clock()))
}
