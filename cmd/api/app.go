package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"metroplanner.transit.org/internal/app"
	"metroplanner.transit.org/internal/appconf"
	"metroplanner.transit.org/internal/clock"
	"metroplanner.transit.org/internal/fare"
	"metroplanner.transit.org/internal/logging"
	"metroplanner.transit.org/internal/metrics"
	"metroplanner.transit.org/internal/network"
	"metroplanner.transit.org/internal/restapi"
	"metroplanner.transit.org/internal/routing"
	"metroplanner.transit.org/internal/webui"
	"metroplanner.transit.org/networkdb"
)

const dbStatsInterval = 15 * time.Second

// BuildApplication loads the network and wires the planner, fare engine,
// spatial index, store and metrics into an Application.
func BuildApplication(cfg appconf.Config) (*app.Application, error) {
	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	loc := cfg.Location()
	var clk clock.Clock = clock.RealClock{Location: loc}
	if cfg.ClockEnvVar != "" || cfg.ClockFile != "" {
		clk = clock.NewEnvironmentClock(cfg.ClockEnvVar, cfg.ClockFile, loc)
	}

	appMetrics := metrics.NewWithLogger(logger)

	var store *networkdb.Client
	if cfg.DBPath != "" {
		var err error
		store, err = networkdb.NewClient(networkdb.NewConfig(cfg.DBPath, cfg.Env, cfg.Verbose))
		if err != nil {
			return nil, fmt.Errorf("failed to open network database: %w", err)
		}
		appMetrics.StartDBStatsCollector(store.DB, dbStatsInterval)
	}

	n, err := loadNetwork(context.Background(), cfg, store, logger)
	if err != nil {
		if store != nil {
			logging.SafeCloseWithLogging(store, logger, "network_db")
		}
		appMetrics.Shutdown()
		return nil, fmt.Errorf("failed to load network: %w", err)
	}

	fares := fare.NewEngine(loc)
	planner := routing.NewPlanner(n, fares, clk,
		routing.WithInterchangeTime(cfg.InterchangeDuration()),
		routing.WithLogger(logger),
		routing.WithMetrics(appMetrics),
	)

	return &app.Application{
		Config:       cfg,
		Logger:       logger,
		Network:      n,
		Planner:      planner,
		Fares:        fares,
		SpatialIndex: network.NewSpatialIndex(n),
		Store:        store,
		Clock:        clk,
		Metrics:      appMetrics,
	}, nil
}

// loadNetwork picks the first configured source: a GTFS feed, a JSON
// definition, the network already in the store, then the embedded default.
// Whatever is loaded is written back to the store.
func loadNetwork(ctx context.Context, cfg appconf.Config, store *networkdb.Client, logger *slog.Logger) (*network.Network, error) {
	var (
		n      *network.Network
		source string
		err    error
	)

	switch {
	case cfg.GTFSPath != "":
		source = cfg.GTFSPath
		n, err = network.LoadGTFSFile(cfg.GTFSPath)
	case cfg.NetworkPath != "":
		source = cfg.NetworkPath
		n, err = network.LoadFile(cfg.NetworkPath)
	case store != nil:
		source = "database"
		n, err = store.LoadNetwork(ctx)
		if errors.Is(err, networkdb.ErrNoNetwork) {
			source = "embedded"
			n, err = network.Default()
		}
	default:
		source = "embedded"
		n, err = network.Default()
	}
	if err != nil {
		return nil, err
	}

	logging.LogOperation(logger, "network_loaded",
		slog.String("source", source),
		slog.String("name", n.Name()),
		slog.Int("lines", len(n.Lines())),
		slog.Int("stations", n.StationCount()))

	if store != nil && source != "database" {
		if _, err := store.SaveNetwork(ctx, n, source); err != nil {
			return nil, fmt.Errorf("failed to store network: %w", err)
		}
	}
	return n, nil
}

// CreateServer builds the HTTP server with every route and middleware. The
// returned RestAPI must be shut down by the caller.
func CreateServer(coreApp *app.Application, cfg appconf.Config) (*http.Server, *restapi.RestAPI) {
	api := restapi.NewRestAPI(coreApp)

	mux := http.NewServeMux()
	api.SetRoutes(mux)
	webUI := &webui.WebUI{Application: coreApp}
	webUI.SetWebUIRoutes(mux)

	var handler http.Handler = restapi.CompressionMiddleware(mux)
	handler = api.WithSecurityHeaders(handler)
	handler = restapi.MetricsHandler(coreApp.Metrics)(handler)
	handler = restapi.NewRequestLoggingMiddleware(coreApp.Logger)(handler)
	handler = restapi.RequestIDMiddleware(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(coreApp.Logger.Handler(), slog.LevelError),
	}

	return srv, api
}

// Run serves until ctx is canceled or SIGINT/SIGTERM arrives, then drains
// in-flight requests and releases the application's resources.
func Run(ctx context.Context, srv *http.Server, coreApp *app.Application, api *restapi.RestAPI) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logging.LogOperation(coreApp.Logger, "starting_server",
			slog.String("addr", srv.Addr),
			slog.String("env", coreApp.Config.Env.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case err := <-serverErr:
		runErr = err
	case <-ctx.Done():
		logging.LogOperation(coreApp.Logger, "shutting_down_server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}

	api.Shutdown()
	if coreApp.Metrics != nil {
		coreApp.Metrics.Shutdown()
	}
	if coreApp.Store != nil {
		logging.SafeCloseWithLogging(coreApp.Store, coreApp.Logger, "network_db")
	}
	return runErr
}

// ParseAPIKeys splits a comma separated key list, trimming whitespace.
func ParseAPIKeys(apiKeysFlag string) []string {
	if apiKeysFlag == "" {
		return []string{}
	}
	keys := strings.Split(apiKeysFlag, ",")
	for i := range keys {
		keys[i] = strings.TrimSpace(keys[i])
	}
	return keys
}
