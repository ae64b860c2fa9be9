package restapi

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFareHandler(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		baseFare  float64
		finalFare float64
		offPeak   bool
	}{
		{"token at peak", "distance=3.5", 20, 20, false},
		{"card at peak", "distance=3.5&ticket=CARD", 20, 19, false},
		{"ncmc on a sunday", "distance=12&ticket=ncmc&time=2024-03-10T09:00:00%2B05:30", 60, 54, true},
		{"long trip caps", "distance=45&ticket=token", 90, 90, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, model := serveAndRetrieveEndpoint(t, "/api/where/fare.json?key=TEST&"+tt.query)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			entry := entryOf(t, model)
			assert.Equal(t, tt.baseFare, entry["baseFare"])
			assert.Equal(t, tt.finalFare, entry["finalFare"])
			assert.Equal(t, tt.offPeak, entry["offPeak"])
		})
	}
}

func TestFareHandler_CountsComputations(t *testing.T) {
	api := createTestApi(t)

	resp, _ := serveApiAndRetrieveEndpoint(t, api, "/api/where/fare.json?key=TEST&distance=2&ticket=QR")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(api.Metrics.FareComputationsTotal.WithLabelValues("QR")))
}

func TestFareHandler_ValidationErrors(t *testing.T) {
	api := createTestApi(t)

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"missing distance", "", "distance"},
		{"non numeric distance", "&distance=far", "distance"},
		{"negative distance", "&distance=-1", "distance"},
		{"unknown ticket", "&distance=2&ticket=paper", "ticket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, fieldErrors := getFieldErrors(t, api, "/api/where/fare.json?key=TEST"+tt.query)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, fieldErrors, tt.field)
		})
	}
}
