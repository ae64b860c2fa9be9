package routing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"metroplanner.transit.org/internal/clock"
	"metroplanner.transit.org/internal/fare"
	"metroplanner.transit.org/internal/network"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// testNetwork has two lines meeting at "x" and a third line with no link to
// either of them.
//
//	A1 -100s/1.0- A2 -200s/2.0- A3 -150s/1.5- A4
//	                            |x
//	              B1 -120s/1.2- B2 -80s/0.8- B3
//
//	C1 -60s/0.5- C2
func testNetwork(t *testing.T) *network.Network {
	t.Helper()
	n, err := network.New("Test", []network.Line{
		{
			Key: "a", Name: "Line A", Color: "#AA0000",
			Stations: []network.Station{
				{ID: "A1", Name: "Apple", TimeToNext: 100, DistanceToNext: 1.0, Lat: 12.90, Lon: 77.50},
				{ID: "A2", Name: "Apricot", TimeToNext: 200, DistanceToNext: 2.0, Lat: 12.91, Lon: 77.51},
				{ID: "A3", Name: "Cross", InterchangeID: "x", Platforms: &network.Platforms{Forward: 2, Backward: 1}, TimeToNext: 150, DistanceToNext: 1.5, Lat: 12.93, Lon: 77.52},
				{ID: "A4", Name: "Avocado", Lat: 12.94, Lon: 77.53},
			},
		},
		{
			Key: "b", Name: "Line B", Color: "#00BB00",
			Stations: []network.Station{
				{ID: "B1", Name: "Banana", TimeToNext: 120, DistanceToNext: 1.2, Lat: 12.93, Lon: 77.50},
				{ID: "B2", Name: "Cross", InterchangeID: "x", Platforms: &network.Platforms{Forward: 3, Backward: 4}, TimeToNext: 80, DistanceToNext: 0.8, Lat: 12.93, Lon: 77.52},
				{ID: "B3", Name: "Blueberry", Lat: 12.93, Lon: 77.54},
			},
		},
		{
			Key: "c", Name: "Line C", Color: "#0000CC",
			Stations: []network.Station{
				{ID: "C1", Name: "Cherry", TimeToNext: 60, DistanceToNext: 0.5, Lat: 13.10, Lon: 77.70},
				{ID: "C2", Name: "Coconut", Lat: 13.11, Lon: 77.70},
			},
		},
	})
	require.NoError(t, err)
	return n
}

func testPlanner(t *testing.T, n *network.Network) *Planner {
	t.Helper()
	return NewPlanner(n, fare.NewEngine(ist), clock.NewMockClock(time.Date(2024, time.March, 12, 10, 2, 0, 0, ist)))
}

func partStationIDs(p Part) []string {
	ids := make([]string, len(p.Stations))
	for i, s := range p.Stations {
		ids[i] = s.ID
	}
	return ids
}
