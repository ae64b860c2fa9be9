package network

import (
	"math"

	"github.com/tidwall/rtree"
	"metroplanner.transit.org/internal/utils"
)

const (
	initialSearchRadiusMeters = 500.0
	// DefaultMaxSearchMeters bounds Nearest when the caller passes no limit.
	DefaultMaxSearchMeters = 5000.0
)

// SpatialIndex answers nearest-station queries over a Network.
type SpatialIndex struct {
	tree rtree.RTreeG[*Station]
	size int
}

// NewSpatialIndex indexes every station of n by its coordinates.
func NewSpatialIndex(n *Network) *SpatialIndex {
	idx := &SpatialIndex{}
	for _, s := range n.Stations() {
		point := [2]float64{s.Lon, s.Lat}
		idx.tree.Insert(point, point, s)
		idx.size++
	}
	return idx
}

// Len is the number of indexed stations.
func (idx *SpatialIndex) Len() int { return idx.size }

// Nearest returns the station closest to (lat, lon) within maxMeters, and its
// distance in meters. The search box doubles from 500 m until a station lies
// inside the searched radius, so the first hit is the true nearest.
func (idx *SpatialIndex) Nearest(lat, lon, maxMeters float64) (*Station, float64, bool) {
	if idx == nil || idx.size == 0 {
		return nil, 0, false
	}
	if maxMeters <= 0 {
		maxMeters = DefaultMaxSearchMeters
	}

	for radius := math.Min(initialSearchRadiusMeters, maxMeters); ; radius = math.Min(radius*2, maxMeters) {
		bounds := utils.CalculateBounds(lat, lon, radius)

		var best *Station
		bestDistance := math.Inf(1)
		idx.tree.Search(
			[2]float64{bounds.MinLon, bounds.MinLat},
			[2]float64{bounds.MaxLon, bounds.MaxLat},
			func(_, _ [2]float64, s *Station) bool {
				d := utils.Distance(lat, lon, s.Lat, s.Lon)
				if d < bestDistance || (d == bestDistance && best != nil && s.ID < best.ID) {
					best = s
					bestDistance = d
				}
				return true
			},
		)

		if best != nil && bestDistance <= radius {
			return best, bestDistance, true
		}
		if radius >= maxMeters {
			return nil, 0, false
		}
	}
}
