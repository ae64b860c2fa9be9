package webui

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/davecgh/go-spew/spew"
	"metroplanner.transit.org/internal/appconf"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	content := spew.Sdump(data)
	w.Header().Set("Content-Type", "text/html")

	dataStruct := debugData{
		Title: title,
		Pre:   content,
	}

	if err := debugTemplate.Execute(w, dataStruct); err != nil {
		slog.Error("failed to execute debug template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	if webUI.Config.Env == appconf.Production {
		http.NotFound(w, r)
		return
	}
	if webUI.Network == nil {
		http.Error(w, "Service Unavailable: network not loaded", http.StatusServiceUnavailable)
		return
	}

	var data interface{}
	var title string

	switch r.URL.Query().Get("dataType") {
	case "network":
		data = webUI.Network.ToDocument()
		title = "Network - Definition"
	case "lines":
		data = webUI.Network.Lines()
		title = "Network - Lines"
	case "places":
		data = webUI.Network.Places()
		title = "Network - Places"
	case "stations":
		data = webUI.Network.Stations()
		title = "Network - Stations"
	case "graph":
		if webUI.Planner == nil {
			data = map[string]string{"error": "planner not initialized"}
		} else {
			g := webUI.Planner.Graph()
			adjacency := make(map[string]interface{}, g.StationCount())
			for _, id := range g.StationIDs() {
				adjacency[id] = g.Edges(id)
			}
			data = adjacency
		}
		title = "Routing - Graph"
	case "journeys":
		data = webUI.recentJourneys(r)
		title = "Store - Recent Journeys"
	case "tables":
		if webUI.Store == nil {
			data = map[string]string{"error": "no database configured"}
		} else if counts, err := webUI.Store.TableCounts(); err != nil {
			data = map[string]string{"error": err.Error()}
		} else {
			data = counts
		}
		title = "Store - Table Counts"
	default:
		data = map[string]string{
			"error": "Please use one of the following: network, lines, places, stations, graph, journeys, tables.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}

func (webUI *WebUI) recentJourneys(r *http.Request) interface{} {
	if webUI.Store == nil {
		return map[string]string{"error": "no database configured"}
	}
	journeys, err := webUI.Store.RecentJourneys(r.Context(), 50)
	if err != nil {
		return map[string]string{"error": err.Error()}
	}
	return journeys
}
