package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"metroplanner.transit.org/internal/appconf"
	"metroplanner.transit.org/internal/network"
)

func testConfig() appconf.Config {
	return appconf.Config{
		Port:               8080,
		Env:                appconf.Test,
		ApiKeys:            []string{"test"},
		RateLimit:          100,
		LogLevel:           "error",
		InterchangeMinutes: 5,
		TimeZone:           "Asia/Kolkata",
	}
}

func TestParseAPIKeys(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "Single key", input: "test-key", expected: []string{"test-key"}},
		{name: "Multiple keys", input: "key1,key2,key3", expected: []string{"key1", "key2", "key3"}},
		{name: "Keys with spaces", input: " key1 , key2 , key3 ", expected: []string{"key1", "key2", "key3"}},
		{name: "Empty string", input: "", expected: []string{}},
		{name: "Single key with whitespace", input: "  test-key  ", expected: []string{"test-key"}},
		{name: "Trailing comma", input: "key1,", expected: []string{"key1", ""}},
		{name: "Only commas", input: ",,", expected: []string{"", "", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAPIKeys(tt.input))
		})
	}
}

func TestBuildApplicationWithDefaultNetwork(t *testing.T) {
	cfg := testConfig()

	coreApp, err := BuildApplication(cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg, coreApp.Config)
	assert.NotNil(t, coreApp.Logger)
	assert.Equal(t, "Bengaluru Metro", coreApp.Network.Name())
	assert.NotNil(t, coreApp.Planner)
	assert.NotNil(t, coreApp.Fares)
	assert.Equal(t, coreApp.Network.StationCount(), coreApp.SpatialIndex.Len())
	assert.Nil(t, coreApp.Store, "no store without a db path")
	coreApp.Metrics.Shutdown()
}

func TestBuildApplicationWithMemoryDB(t *testing.T) {
	cfg := testConfig()
	cfg.DBPath = ":memory:"

	coreApp, err := BuildApplication(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		coreApp.Metrics.Shutdown()
		_ = coreApp.Store.Close()
	})

	require.NotNil(t, coreApp.Store)
	stored, err := coreApp.Store.LoadNetwork(context.Background())
	require.NoError(t, err, "the loaded network is written to the store")
	assert.Equal(t, coreApp.Network.StationCount(), stored.StationCount())
}

func TestBuildApplicationFromNetworkFile(t *testing.T) {
	n, err := network.Default()
	require.NoError(t, err)
	doc := n.ToDocument()
	doc.Name = "Trimmed Metro"
	doc.Lines = doc.Lines[:1]

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "network.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))

	cfg := testConfig()
	cfg.NetworkPath = path

	coreApp, err := BuildApplication(cfg)
	require.NoError(t, err)
	defer coreApp.Metrics.Shutdown()

	assert.Equal(t, "Trimmed Metro", coreApp.Network.Name())
	assert.Len(t, coreApp.Network.Lines(), 1)
}

func TestBuildApplicationErrorHandling(t *testing.T) {
	t.Run("invalid GTFS path", func(t *testing.T) {
		cfg := testConfig()
		cfg.GTFSPath = "/nonexistent/path/to/gtfs.zip"

		_, err := BuildApplication(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load network")
	})

	t.Run("file database in test environment", func(t *testing.T) {
		cfg := testConfig()
		cfg.DBPath = filepath.Join(t.TempDir(), "metro.db")

		_, err := BuildApplication(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open network database")
	})
}

func TestCreateServer(t *testing.T) {
	cfg := testConfig()
	coreApp, err := BuildApplication(cfg)
	require.NoError(t, err)
	defer coreApp.Metrics.Shutdown()

	srv, api := CreateServer(coreApp, cfg)
	defer api.Shutdown()

	assert.Equal(t, ":8080", srv.Addr)
	assert.NotNil(t, srv.Handler)
	assert.NotNil(t, srv.ErrorLog)
	assert.Equal(t, time.Minute, srv.IdleTimeout)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)
	assert.Equal(t, 10*time.Second, srv.WriteTimeout)
}

func TestCreateServerHandlerResponds(t *testing.T) {
	cfg := testConfig()
	coreApp, err := BuildApplication(cfg)
	require.NoError(t, err)
	defer coreApp.Metrics.Shutdown()

	srv, api := CreateServer(coreApp, cfg)
	defer api.Shutdown()

	req := httptest.NewRequest(http.MethodGet, "/api/where/journey.json?key=test&from=P15&to=Y10", nil)
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	entry := body["data"].(map[string]any)["entry"].(map[string]any)
	assert.Equal(t, float64(2), entry["interchanges"])

	health := httptest.NewRecorder()
	srv.Handler.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestRunStopsWhenContextCanceled(t *testing.T) {
	cfg := testConfig()
	cfg.Port = 0
	coreApp, err := BuildApplication(cfg)
	require.NoError(t, err)

	srv, api := CreateServer(coreApp, cfg)
	srv.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, srv, coreApp, api)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err, "server should shut down cleanly")
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
