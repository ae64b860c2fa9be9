package routing

import "errors"

var (
	// ErrUnknownStation is returned when a station id is not in the network.
	ErrUnknownStation = errors.New("unknown station")
	// ErrNoRouteFound is returned when no path connects the two stations.
	ErrNoRouteFound = errors.New("no route found")
)
