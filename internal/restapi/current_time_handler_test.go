package restapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"metroplanner.transit.org/internal/clock"
)

func TestCurrentTimeHandlerRequiresValidApiKey(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/where/current-time.json?key=invalid")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, model.Code)
	assert.Equal(t, "permission denied", model.Text)
}

func TestCurrentTimeHandler(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/where/current-time.json?key=TEST")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	assert.Equal(t, http.StatusOK, model.Code)
	assert.Equal(t, "OK", model.Text)
	assert.Equal(t, 2, model.Version)
	assert.Equal(t, testNow.UnixMilli(), model.CurrentTime)

	entry := entryOf(t, model)
	assert.Equal(t, float64(testNow.UnixMilli()), entry["time"])
	assert.Equal(t, "2024-03-12T10:02:00+05:30", entry["readableTime"])
	assert.Equal(t, false, entry["offPeak"], "Tuesday 10:02 is peak")
	assert.Equal(t, false, entry["holiday"])

	next := time.Date(2024, 3, 12, 10, 5, 0, 0, ist)
	assert.Equal(t, float64(next.UnixMilli()), entry["nextDeparture"])

	refs := model.Data.(map[string]any)["references"].(map[string]any)
	for _, field := range []string{"lines", "stations"} {
		list, ok := refs[field].([]any)
		require.True(t, ok, "references.%s", field)
		assert.Empty(t, list)
	}
}

func TestCurrentTimeHandler_FarePeriods(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		offPeak bool
		holiday bool
		next    time.Time
	}{
		{
			name:    "early Sunday",
			now:     time.Date(2024, 3, 17, 7, 58, 0, 0, ist),
			offPeak: true,
			next:    time.Date(2024, 3, 17, 8, 0, 0, 0, ist),
		},
		{
			name:    "Independence Day evening peak",
			now:     time.Date(2024, 8, 15, 18, 30, 0, 0, ist),
			holiday: true,
			next:    time.Date(2024, 8, 15, 18, 30, 0, 0, ist),
		},
		{
			name:    "late night",
			now:     time.Date(2024, 3, 13, 21, 41, 30, 0, ist),
			offPeak: true,
			next:    time.Date(2024, 3, 13, 21, 45, 0, 0, ist),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := createTestApiWithClock(t, clock.NewMockClock(tt.now))
			_, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/current-time.json?key=TEST")

			entry := entryOf(t, model)
			assert.Equal(t, tt.offPeak, entry["offPeak"])
			assert.Equal(t, tt.holiday, entry["holiday"])
			assert.Equal(t, float64(tt.next.UnixMilli()), entry["nextDeparture"])
		})
	}
}

func TestCurrentTimeHandler_RendersInNetworkZone(t *testing.T) {
	fixedTime := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)
	api := createTestApiWithClock(t, clock.NewMockClock(fixedTime))

	_, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/current-time.json?key=TEST")

	assert.Equal(t, fixedTime.UnixMilli(), model.CurrentTime)
	entry := entryOf(t, model)
	assert.Equal(t, float64(fixedTime.UnixMilli()), entry["time"])
	assert.Equal(t, "2024-06-15T20:00:00+05:30", entry["readableTime"])
	assert.Equal(t, "IST", entry["timeZone"])
}
