package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/twpayne/go-polyline"
	"metroplanner.transit.org/internal/clock"
	"metroplanner.transit.org/internal/fare"
	"metroplanner.transit.org/internal/logging"
	"metroplanner.transit.org/internal/metrics"
	"metroplanner.transit.org/internal/network"
)

// DepartureInterval is the granularity journeys are scheduled on.
const DepartureInterval = 5 * time.Minute

// Journey is a planned trip between two stations.
type Journey struct {
	StartStationID   string
	EndStationID     string
	Parts            []Part
	TotalTimeSeconds int
	TotalDistanceKm  float64
	Fare             fare.Breakdown
	DepartureTime    time.Time
	ArrivalTime      time.Time
	Interchanges     int
	Timeline         []TimelineEntry
	EncodedPath      string
}

// Planner answers journey queries over a fixed network. It builds its graph
// once and holds no mutable state, so one Planner serves concurrent requests.
type Planner struct {
	network            *network.Network
	graph              *Graph
	fares              *fare.Engine
	clock              clock.Clock
	logger             *slog.Logger
	metrics            *metrics.Metrics
	interchangeSeconds int
	dwellSeconds       int
}

// Option configures a Planner.
type Option func(*Planner)

// WithInterchangeTime sets the platform change walk time.
func WithInterchangeTime(d time.Duration) Option {
	return func(p *Planner) {
		if d > 0 {
			p.interchangeSeconds = int(d.Seconds())
		}
	}
}

// WithDwellTime sets the per-station stop time used by the timeline.
func WithDwellTime(d time.Duration) Option {
	return func(p *Planner) { p.dwellSeconds = int(d.Seconds()) }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Planner) { p.metrics = m }
}

// NewPlanner builds the routing graph for n. A nil engine uses the default
// fare rules in the network's time zone, and a nil clock uses system time.
func NewPlanner(n *network.Network, fares *fare.Engine, clk clock.Clock, opts ...Option) *Planner {
	p := &Planner{
		network:            n,
		fares:              fares,
		clock:              clk,
		logger:             slog.Default(),
		interchangeSeconds: DefaultInterchangeSeconds,
		dwellSeconds:       DefaultDwellSeconds,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fares == nil {
		loc, err := time.LoadLocation(n.TimeZone())
		if err != nil {
			loc = time.UTC
		}
		p.fares = fare.NewEngine(loc)
	}
	if p.clock == nil {
		p.clock = clock.RealClock{}
	}
	p.logger = p.logger.With(slog.String("component", "planner"))

	started := time.Now()
	p.graph = BuildGraph(n, GraphOptions{InterchangeSeconds: p.interchangeSeconds})
	logging.LogOperation(p.logger, "routing_graph_built",
		slog.String("network", n.Name()),
		slog.Int("stations", p.graph.StationCount()),
		slog.Int("edges", p.graph.EdgeCount()),
		slog.Duration("duration", time.Since(started)))

	return p
}

func (p *Planner) Network() *network.Network { return p.network }
func (p *Planner) Graph() *Graph             { return p.graph }
func (p *Planner) Fares() *fare.Engine       { return p.fares }

// NextDeparture rounds now up to the next DepartureInterval boundary. A time
// already on a boundary is returned unchanged.
func NextDeparture(now time.Time) time.Time {
	rounded := now.Truncate(DepartureInterval)
	if rounded.Equal(now) {
		return now
	}
	return rounded.Add(DepartureInterval)
}

// Plan finds the fastest journey departing at the next boundary after the
// clock's current time.
func (p *Planner) Plan(ctx context.Context, startID, endID string, ticket fare.TicketType) (*Journey, error) {
	return p.PlanAt(ctx, startID, endID, ticket, p.clock.Now())
}

// PlanAt finds the fastest journey for a request made at now. The journey
// starts and ends at the requested platforms; a change of platform at either
// end pays the interchange walk.
func (p *Planner) PlanAt(ctx context.Context, startID, endID string, ticket fare.TicketType, now time.Time) (*Journey, error) {
	journey, solve, err := p.plan(ctx, startID, endID, ticket, now)
	p.metrics.ObserveJourney(outcome(err), solve)
	if err != nil {
		p.logger.Debug("journey planning failed",
			slog.String("from", startID),
			slog.String("to", endID),
			slog.String("error", err.Error()))
		return nil, err
	}
	p.metrics.ObserveFare(string(journey.Fare.Ticket))
	return journey, nil
}

func (p *Planner) plan(ctx context.Context, startID, endID string, ticket fare.TicketType, now time.Time) (*Journey, time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	start, ok := p.network.Station(startID)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownStation, startID)
	}
	if _, ok := p.network.Station(endID); !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownStation, endID)
	}

	departure := NextDeparture(now)

	if p.network.SamePlace(startID, endID) {
		it := &Itinerary{
			StartStationID: startID,
			EndStationID:   endID,
			Stations:       []*network.Station{start},
			Parts:          []Part{newPart(p.network, start).finish(p.network)},
		}
		j, err := p.assemble(it, ticket, departure)
		return j, 0, err
	}

	started := time.Now()
	paths, err := Solve(p.graph, startID, endID)
	solve := time.Since(started)
	if err != nil {
		return nil, solve, err
	}
	it, err := BuildItinerary(p.network, paths, startID, endID)
	if err != nil {
		return nil, solve, err
	}

	j, err := p.assemble(it, ticket, departure)
	return j, solve, err
}

func (p *Planner) assemble(it *Itinerary, ticket fare.TicketType, departure time.Time) (*Journey, error) {
	breakdown, err := p.fares.Compute(it.DistanceKm, departure, ticket)
	if err != nil {
		return nil, err
	}
	breakdown.DistanceKm = roundKm(it.DistanceKm)

	j := &Journey{
		StartStationID:   it.StartStationID,
		EndStationID:     it.EndStationID,
		Parts:            it.Parts,
		TotalTimeSeconds: it.TotalSeconds,
		TotalDistanceKm:  roundKm(it.DistanceKm),
		Fare:             breakdown,
		DepartureTime:    departure,
		ArrivalTime:      departure.Add(time.Duration(it.TotalSeconds) * time.Second),
		Interchanges:     it.Interchanges,
		EncodedPath:      encodePath(it.Stations),
	}
	j.Timeline = BuildTimeline(j, TimelineOptions{DwellSeconds: p.dwellSeconds, InterchangeSeconds: p.interchangeSeconds})
	return j, nil
}

// roundKm rounds a distance to 10 m for display. Fares are priced on the
// unrounded sum.
func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

func encodePath(stations []*network.Station) string {
	coords := make([][]float64, 0, len(stations))
	for _, s := range stations {
		if n := len(coords); n > 0 && coords[n-1][0] == s.Lat && coords[n-1][1] == s.Lon {
			continue
		}
		coords = append(coords, []float64{s.Lat, s.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnknownStation):
		return "unknown_station"
	case errors.Is(err, ErrNoRouteFound):
		return "no_route"
	case errors.Is(err, fare.ErrInvalidFareInput):
		return "invalid_fare_input"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
