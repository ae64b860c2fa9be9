package routing

import (
	"fmt"

	"metroplanner.transit.org/internal/network"
)

// Part is a maximal run of stations travelled on one line in one direction.
type Part struct {
	Stations       []*network.Station
	LineKey        string
	LineName       string
	Color          string
	StartPlatform  int
	Direction      network.Direction
	DirectionLabel string
}

// Itinerary is a solved path folded into Parts.
type Itinerary struct {
	StartStationID string
	EndStationID   string
	Parts          []Part
	Stations       []*network.Station
	TotalSeconds   int
	DistanceKm     float64 // unrounded sum of line hops
	Interchanges   int
}

// BuildItinerary walks the predecessor chain in paths from endID back to
// startID and groups the stations into Parts. Distance sums only line edges.
func BuildItinerary(n *network.Network, paths *Paths, startID, endID string) (*Itinerary, error) {
	start, ok := n.Station(startID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStation, startID)
	}
	if _, ok := n.Station(endID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStation, endID)
	}
	if paths == nil || paths.Source != startID {
		return nil, fmt.Errorf("%w: paths were not solved from %s", ErrNoRouteFound, startID)
	}
	total, ok := paths.Seconds(endID)
	if !ok {
		return nil, fmt.Errorf("%w: %s to %s", ErrNoRouteFound, startID, endID)
	}

	var edges []Edge
	for cur := endID; cur != startID; {
		e, ok := paths.Previous(cur)
		if !ok || len(edges) > n.StationCount() {
			return nil, fmt.Errorf("%w: %s to %s", ErrNoRouteFound, startID, endID)
		}
		edges = append(edges, e)
		cur = e.From
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	it := &Itinerary{
		StartStationID: startID,
		EndStationID:   endID,
		TotalSeconds:   total,
		Stations:       []*network.Station{start},
	}

	current := newPart(n, start)
	var distance float64
	for _, e := range edges {
		next, _ := n.Station(e.To)
		it.Stations = append(it.Stations, next)

		if e.IsInterchange() {
			it.Parts = append(it.Parts, current.finish(n))
			it.Interchanges++
			current = newPart(n, next)
			continue
		}

		distance += e.DistanceKm
		if e.Line != current.LineKey {
			it.Parts = append(it.Parts, current.finish(n))
			current = newPart(n, next)
			continue
		}
		current.Stations = append(current.Stations, next)
	}
	it.Parts = append(it.Parts, current.finish(n))
	it.DistanceKm = distance

	return it, nil
}

func newPart(n *network.Network, first *network.Station) Part {
	p := Part{
		Stations: []*network.Station{first},
		LineKey:  first.LineKey,
	}
	if line, ok := n.Line(first.LineKey); ok {
		p.LineName = line.Name
		p.Color = line.Color
	}
	return p
}

// finish derives direction, boarding platform and label from the first hop.
func (p Part) finish(n *network.Network) Part {
	p.Direction = network.Forward
	if len(p.Stations) > 1 && p.Stations[1].Index < p.Stations[0].Index {
		p.Direction = network.Backward
	}
	p.StartPlatform = p.Stations[0].Platform(p.Direction)
	p.DirectionLabel, _ = n.Terminal(p.LineKey, p.Direction)
	return p
}
