package restapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"metroplanner.transit.org/internal/app"
	"metroplanner.transit.org/internal/appconf"
	"metroplanner.transit.org/internal/clock"
	"metroplanner.transit.org/internal/fare"
	"metroplanner.transit.org/internal/logging"
	"metroplanner.transit.org/internal/metrics"
	"metroplanner.transit.org/internal/models"
	"metroplanner.transit.org/internal/network"
	"metroplanner.transit.org/internal/routing"
	"metroplanner.transit.org/networkdb"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// Tuesday, inside the 08:00-12:00 peak window.
var testNow = time.Date(2024, 3, 12, 10, 2, 0, 0, ist)

func createTestApi(t *testing.T) *RestAPI {
	return createTestApiWithClock(t, clock.NewMockClock(testNow))
}

// createTestApiWithClock builds the full application over the embedded
// network with an in-memory store.
func createTestApiWithClock(t *testing.T, c clock.Clock) *RestAPI {
	t.Helper()

	n, err := network.Default()
	require.NoError(t, err)

	store, err := networkdb.NewClient(networkdb.NewConfig(":memory:", appconf.Test, false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := logging.NewStructuredLogger(io.Discard, slog.LevelError)
	m := metrics.New()
	fares := fare.NewEngine(ist)

	application := &app.Application{
		Config: appconf.Config{
			Env:                appconf.Test,
			ApiKeys:            []string{"TEST"},
			RateLimit:          100,
			InterchangeMinutes: 5,
			TimeZone:           "Asia/Kolkata",
		},
		Logger:       logger,
		Network:      n,
		Planner:      routing.NewPlanner(n, fares, c, routing.WithLogger(logger), routing.WithMetrics(m)),
		Fares:        fares,
		SpatialIndex: network.NewSpatialIndex(n),
		Store:        store,
		Clock:        c,
		Metrics:      m,
	}

	api := NewRestAPI(application)
	t.Cleanup(api.Shutdown)
	return api
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()

	mux := http.NewServeMux()
	api.SetRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var model models.ResponseModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&model))
	return resp, model
}

func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

// getFieldErrors requests endpoint and decodes a 400 validation body.
func getFieldErrors(t *testing.T, api *RestAPI, endpoint string) (*http.Response, map[string][]string) {
	t.Helper()

	mux := http.NewServeMux()
	api.SetRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body.FieldErrors
}

func entryOf(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data is not an object")
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "data has no entry")
	return entry
}

func listOf(t *testing.T, model models.ResponseModel) []interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data is not an object")
	list, ok := data["list"].([]interface{})
	require.True(t, ok, "data has no list")
	return list
}

type testingFatalf interface {
	Fatalf(format string, args ...any)
}

// collectAllIdsFromObjects extracts the string field key from every object in list.
func collectAllIdsFromObjects(t testingFatalf, list []interface{}, key string) (ids []string) {
	for i, item := range list {
		object, ok := item.(map[string]interface{})
		if !ok {
			t.Fatalf("item %d is not a map[string]interface{}", i)
		}
		value, ok := object[key]
		if !ok {
			t.Fatalf("item %d missing key %q", i, key)
		}
		id, ok := value.(string)
		if !ok {
			t.Fatalf("item %d key %q is not a string: %T", i, key, value)
		}
		ids = append(ids, id)
	}
	return ids
}
