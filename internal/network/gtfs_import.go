package network

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/OneBusAway/go-gtfs"
	"metroplanner.transit.org/internal/utils"
)

// AverageSpeedKmph estimates hop times when a feed has no usable stop times.
const AverageSpeedKmph = 35.0

// LoadGTFSFile parses a static GTFS zip and converts it with FromGTFS.
func LoadGTFSFile(path string) (*Network, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS file: %w", err)
	}

	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS data: %w", err)
	}

	return FromGTFS(staticData)
}

// FromGTFS derives a network from a static feed. Each route becomes a line
// whose station order comes from its longest trip. Stops that share a parent
// station, or a stop served by several routes, become interchanges.
func FromGTFS(staticData *gtfs.Static) (*Network, error) {
	if staticData == nil {
		return nil, fmt.Errorf("%w: no GTFS data", ErrInvalidNetwork)
	}

	longest := make(map[string]*gtfs.ScheduledTrip)
	for i := range staticData.Trips {
		trip := &staticData.Trips[i]
		if trip.Route == nil {
			continue
		}
		if current, ok := longest[trip.Route.Id]; !ok || len(trip.StopTimes) > len(current.StopTimes) {
			longest[trip.Route.Id] = trip
		}
	}

	type routeStops struct {
		route *gtfs.Route
		stops []gtfs.ScheduledStopTime
	}

	var ordered []routeStops
	stopRoutes := make(map[string]map[string]bool)
	physicalRoutes := make(map[string]map[string]bool)
	for i := range staticData.Routes {
		route := &staticData.Routes[i]
		trip, ok := longest[route.Id]
		if !ok || len(trip.StopTimes) == 0 {
			continue
		}

		stopTimes := make([]gtfs.ScheduledStopTime, 0, len(trip.StopTimes))
		seen := make(map[string]bool)
		for _, st := range trip.StopTimes {
			if st.Stop == nil || seen[st.Stop.Id] {
				continue
			}
			seen[st.Stop.Id] = true
			stopTimes = append(stopTimes, st)
		}
		sort.SliceStable(stopTimes, func(a, b int) bool {
			return stopTimes[a].StopSequence < stopTimes[b].StopSequence
		})

		for _, st := range stopTimes {
			markRoute(stopRoutes, st.Stop.Id, route.Id)
			markRoute(physicalRoutes, physicalStopID(st.Stop), route.Id)
		}
		ordered = append(ordered, routeStops{route: route, stops: stopTimes})
	}

	lines := make([]Line, 0, len(ordered))
	for _, rs := range ordered {
		line := Line{
			Key:   rs.route.Id,
			Name:  routeName(rs.route),
			Color: routeColor(rs.route.Color),
		}

		for i, st := range rs.stops {
			stop := st.Stop
			station := Station{
				ID:   stop.Id,
				Name: stopName(stop),
			}
			if len(stopRoutes[stop.Id]) > 1 {
				station.ID = rs.route.Id + ":" + stop.Id
			}
			if physical := physicalStopID(stop); len(physicalRoutes[physical]) > 1 {
				station.InterchangeID = physical
			}
			if stop.Latitude != nil && stop.Longitude != nil {
				station.Lat = *stop.Latitude
				station.Lon = *stop.Longitude
			}

			if i < len(rs.stops)-1 {
				next := rs.stops[i+1]
				if next.Stop.Latitude != nil && next.Stop.Longitude != nil {
					station.DistanceToNext = math.Round(utils.DistanceKm(station.Lat, station.Lon, *next.Stop.Latitude, *next.Stop.Longitude)*100) / 100
				}
				station.TimeToNext = hopSeconds(st, next, station.DistanceToNext)
			}
			line.Stations = append(line.Stations, station)
		}
		lines = append(lines, line)
	}

	name := "GTFS network"
	if len(staticData.Agencies) > 0 && staticData.Agencies[0].Name != "" {
		name = staticData.Agencies[0].Name
	}

	n, err := New(name, lines)
	if err != nil {
		return nil, err
	}
	if len(staticData.Agencies) > 0 {
		n.timeZone = staticData.Agencies[0].Timezone
	}
	return n, nil
}

func markRoute(index map[string]map[string]bool, key, routeID string) {
	if index[key] == nil {
		index[key] = make(map[string]bool)
	}
	index[key][routeID] = true
}

func physicalStopID(stop *gtfs.Stop) string {
	if stop.Parent != nil && stop.Parent.Id != "" {
		return stop.Parent.Id
	}
	return stop.Id
}

func stopName(stop *gtfs.Stop) string {
	if stop.Name == "" && stop.Parent != nil {
		return stop.Parent.Name
	}
	return stop.Name
}

func routeName(route *gtfs.Route) string {
	switch {
	case route.LongName != "":
		return route.LongName
	case route.ShortName != "":
		return route.ShortName
	default:
		return route.Id
	}
}

func routeColor(color string) string {
	color = strings.TrimSpace(color)
	if color == "" {
		return ""
	}
	if strings.HasPrefix(color, "#") {
		return strings.ToUpper(color)
	}
	return "#" + strings.ToUpper(color)
}

// hopSeconds prefers scheduled times and falls back to AverageSpeedKmph.
func hopSeconds(from, to gtfs.ScheduledStopTime, distanceKm float64) int {
	if delta := (to.ArrivalTime - from.DepartureTime).Seconds(); delta > 0 {
		return int(math.Round(delta))
	}
	return int(math.Ceil(distanceKm / AverageSpeedKmph * 3600))
}
