// Package routing turns a network.Network into a weighted graph, finds the
// fastest path between two stations and folds that path into a Journey.
package routing

import (
	"sort"

	"metroplanner.transit.org/internal/network"
)

// DefaultInterchangeSeconds is the walking time between platforms of one station.
const DefaultInterchangeSeconds = 300

// Edge is a directed hop. Line is the line key, or network.InterchangeMarker
// for a platform change.
type Edge struct {
	From       string
	To         string
	Weight     int
	DistanceKm float64
	Line       string
}

// IsInterchange reports whether the edge is a platform change.
func (e Edge) IsInterchange() bool {
	return e.Line == network.InterchangeMarker
}

// GraphOptions tunes graph construction. Zero values select the defaults.
type GraphOptions struct {
	InterchangeSeconds int
}

// Graph is an adjacency list keyed by station id. It is never modified after
// BuildGraph returns.
type Graph struct {
	adjacency map[string][]Edge
	edgeCount int
}

// BuildGraph derives the routing graph from n. Consecutive stations on a line
// are joined in both directions with the lower-index station's hop values, and
// every pair of stations on different lines sharing an InterchangeID is joined
// with a zero-distance interchange edge.
func BuildGraph(n *network.Network, opts GraphOptions) *Graph {
	interchange := opts.InterchangeSeconds
	if interchange <= 0 {
		interchange = DefaultInterchangeSeconds
	}

	g := &Graph{adjacency: make(map[string][]Edge, n.StationCount())}
	byInterchange := make(map[string][]*network.Station)
	var interchangeIDs []string

	for _, line := range n.Lines() {
		stations := line.Stations
		for i := range stations {
			s := &stations[i]
			g.adjacency[s.ID] = make([]Edge, 0, 2)

			if i > 0 {
				prev := &stations[i-1]
				g.add(Edge{From: s.ID, To: prev.ID, Weight: prev.TimeToNext, DistanceKm: prev.DistanceToNext, Line: line.Key})
			}
			if i < len(stations)-1 {
				next := &stations[i+1]
				g.add(Edge{From: s.ID, To: next.ID, Weight: s.TimeToNext, DistanceKm: s.DistanceToNext, Line: line.Key})
			}

			if s.InterchangeID != "" {
				if _, seen := byInterchange[s.InterchangeID]; !seen {
					interchangeIDs = append(interchangeIDs, s.InterchangeID)
				}
				byInterchange[s.InterchangeID] = append(byInterchange[s.InterchangeID], s)
			}
		}
	}

	for _, id := range interchangeIDs {
		group := byInterchange[id]
		for _, a := range group {
			for _, b := range group {
				if a.LineKey == b.LineKey {
					continue
				}
				g.add(Edge{From: a.ID, To: b.ID, Weight: interchange, Line: network.InterchangeMarker})
			}
		}
	}

	return g
}

func (g *Graph) add(e Edge) {
	g.adjacency[e.From] = append(g.adjacency[e.From], e)
	g.edgeCount++
}

// Edges returns the outgoing edges of a station.
func (g *Graph) Edges(id string) []Edge {
	return g.adjacency[id]
}

// Edge returns the first edge from one station to another.
func (g *Graph) Edge(from, to string) (Edge, bool) {
	for _, e := range g.adjacency[from] {
		if e.To == to {
			return e, true
		}
	}
	return Edge{}, false
}

// HasStation reports whether id is a node of the graph.
func (g *Graph) HasStation(id string) bool {
	_, ok := g.adjacency[id]
	return ok
}

// StationCount is the number of nodes.
func (g *Graph) StationCount() int { return len(g.adjacency) }

// EdgeCount is the number of directed edges.
func (g *Graph) EdgeCount() int { return g.edgeCount }

// StationIDs returns every node id in sorted order.
func (g *Graph) StationIDs() []string {
	ids := make([]string, 0, len(g.adjacency))
	for id := range g.adjacency {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
