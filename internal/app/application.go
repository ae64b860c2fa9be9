package app

import (
	"log/slog"

	"metroplanner.transit.org/internal/appconf"
	"metroplanner.transit.org/internal/clock"
	"metroplanner.transit.org/internal/fare"
	"metroplanner.transit.org/internal/metrics"
	"metroplanner.transit.org/internal/network"
	"metroplanner.transit.org/internal/routing"
	"metroplanner.transit.org/networkdb"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware. Network, Planner and SpatialIndex are built once at startup
// and only read afterwards. Store is nil when no database is configured.
type Application struct {
	Config       appconf.Config
	Logger       *slog.Logger
	Network      *network.Network
	Planner      *routing.Planner
	Fares        *fare.Engine
	SpatialIndex *network.SpatialIndex
	Store        *networkdb.Client
	Clock        clock.Clock
	Metrics      *metrics.Metrics
}
