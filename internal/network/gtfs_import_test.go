package network

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/OneBusAway/go-gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func stopTime(stop *gtfs.Stop, seq int, arrive, depart time.Duration) gtfs.ScheduledStopTime {
	return gtfs.ScheduledStopTime{Stop: stop, StopSequence: seq, ArrivalTime: arrive, DepartureTime: depart}
}

func sampleStatic() *gtfs.Static {
	hub := &gtfs.Stop{Id: "hub", Name: "Hub", Latitude: ptr(12.95), Longitude: ptr(77.55)}
	hubNorth := &gtfs.Stop{Id: "hub-n", Name: "Hub", Latitude: ptr(12.95), Longitude: ptr(77.55), Parent: hub}
	hubEast := &gtfs.Stop{Id: "hub-e", Name: "Hub", Latitude: ptr(12.95), Longitude: ptr(77.55), Parent: hub}
	a := &gtfs.Stop{Id: "a", Name: "Alpha", Latitude: ptr(12.90), Longitude: ptr(77.55)}
	b := &gtfs.Stop{Id: "b", Name: "Beta", Latitude: ptr(13.00), Longitude: ptr(77.55)}
	c := &gtfs.Stop{Id: "c", Name: "Gamma", Latitude: ptr(12.95), Longitude: ptr(77.60)}
	shared := &gtfs.Stop{Id: "shared", Name: "Shared", Latitude: ptr(12.96), Longitude: ptr(77.58)}

	north := &gtfs.Route{Id: "N", LongName: "North South", Color: "ff0000"}
	east := &gtfs.Route{Id: "E", ShortName: "EW", Color: "#00ff00"}

	return &gtfs.Static{
		Agencies: []gtfs.Agency{{Id: "metro", Name: "Test Metro", Timezone: "Asia/Kolkata"}},
		Routes:   []gtfs.Route{*north, *east},
		Stops:    []gtfs.Stop{*hub, *hubNorth, *hubEast, *a, *b, *c, *shared},
		Trips: []gtfs.ScheduledTrip{
			{ID: "n-short", Route: north, StopTimes: []gtfs.ScheduledStopTime{
				stopTime(a, 1, 0, 0),
				stopTime(hubNorth, 2, 5*time.Minute, 5*time.Minute),
			}},
			{ID: "n-full", Route: north, StopTimes: []gtfs.ScheduledStopTime{
				stopTime(b, 3, 10*time.Minute, 10*time.Minute),
				stopTime(a, 1, 0, 0),
				stopTime(hubNorth, 2, 4*time.Minute, 4*time.Minute+30*time.Second),
				stopTime(shared, 4, 12*time.Minute, 12*time.Minute),
			}},
			{ID: "e-full", Route: east, StopTimes: []gtfs.ScheduledStopTime{
				stopTime(hubEast, 1, 0, 0),
				stopTime(c, 2, 0, 0),
				stopTime(shared, 3, 3*time.Minute, 3*time.Minute),
			}},
		},
	}
}

func TestFromGTFS_BuildsLines(t *testing.T) {
	n, err := FromGTFS(sampleStatic())
	require.NoError(t, err)

	assert.Equal(t, "Test Metro", n.Name())
	assert.Equal(t, "Asia/Kolkata", n.TimeZone())

	lines := n.Lines()
	require.Len(t, lines, 2)

	north := lines[0]
	assert.Equal(t, "N", north.Key)
	assert.Equal(t, "North South", north.Name)
	assert.Equal(t, "#FF0000", north.Color)
	ids := make([]string, len(north.Stations))
	for i, s := range north.Stations {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"a", "hub-n", "b", "N:shared"}, ids)

	assert.Equal(t, "EW", lines[1].Name)
	assert.Equal(t, "#00FF00", lines[1].Color)
}

func TestFromGTFS_HopTimes(t *testing.T) {
	n, err := FromGTFS(sampleStatic())
	require.NoError(t, err)

	a, ok := n.Station("a")
	require.True(t, ok)
	assert.Equal(t, 240, a.TimeToNext)
	assert.InDelta(t, 5.56, a.DistanceToNext, 0.01)

	hubNorth, _ := n.Station("hub-n")
	assert.Equal(t, 330, hubNorth.TimeToNext)

	// hub-e to c has no scheduled gap, so the estimate uses the average speed.
	hubEast, _ := n.Station("hub-e")
	assert.Equal(t, int(math.Ceil(hubEast.DistanceToNext/AverageSpeedKmph*3600)), hubEast.TimeToNext)

	last, _ := n.Station("N:shared")
	assert.Zero(t, last.TimeToNext)
}

func TestFromGTFS_Interchanges(t *testing.T) {
	n, err := FromGTFS(sampleStatic())
	require.NoError(t, err)

	assert.True(t, n.SamePlace("hub-n", "hub-e"))
	assert.True(t, n.SamePlace("N:shared", "E:shared"))
	assert.False(t, n.SamePlace("a", "c"))

	s, _ := n.Station("hub-n")
	assert.Equal(t, "hub", s.InterchangeID)
}

func TestFromGTFS_Errors(t *testing.T) {
	_, err := FromGTFS(nil)
	assert.True(t, errors.Is(err, ErrInvalidNetwork))

	_, err = FromGTFS(&gtfs.Static{})
	assert.True(t, errors.Is(err, ErrInvalidNetwork))

	_, err = LoadGTFSFile("does-not-exist.zip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading GTFS file")
}
