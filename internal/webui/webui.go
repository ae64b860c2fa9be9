// Package webui serves the operator-facing pages: a debug dump of the loaded
// network and the static assets under ./public.
package webui

import (
	"io/fs"
	"net/http"

	"metroplanner.transit.org/internal/app"
)

type WebUI struct {
	*app.Application

	// Assets overrides the ./public directory, mostly for tests.
	Assets fs.FS
}

func (webUI *WebUI) SetWebUIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug/", webUI.debugIndexHandler)
	mux.HandleFunc("GET /assets/{file}", webUI.assetsHandler)
}
