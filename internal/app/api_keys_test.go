package app

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"metroplanner.transit.org/internal/appconf"
)

func TestBlankKeyIsInvalid(t *testing.T) {
	app := &Application{
		Config: appconf.Config{
			ApiKeys: []string{"key"},
		},
	}
	assert.True(t, app.IsInvalidAPIKey(""))
}

func TestIsInvalidAPIKey(t *testing.T) {
	app := &Application{
		Config: appconf.Config{
			ApiKeys:       []string{"alpha", "beta"},
			ExemptApiKeys: []string{"internal"},
		},
	}

	tests := []struct {
		key     string
		invalid bool
	}{
		{"alpha", false},
		{"beta", false},
		{"internal", false},
		{"gamma", true},
		{"alph", true},
		{"ALPHA", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.invalid, app.IsInvalidAPIKey(tt.key))
		})
	}
}

func TestRequestHasInvalidAPIKey(t *testing.T) {
	app := &Application{Config: appconf.Config{ApiKeys: []string{"TEST"}}}

	assert.False(t, app.RequestHasInvalidAPIKey(httptest.NewRequest("GET", "/api/where/lines.json?key=TEST", nil)))
	assert.True(t, app.RequestHasInvalidAPIKey(httptest.NewRequest("GET", "/api/where/lines.json", nil)))

	withHeader := httptest.NewRequest("GET", "/api/where/lines.json", nil)
	withHeader.Header.Set(APIKeyHeader, " TEST ")
	assert.False(t, app.RequestHasInvalidAPIKey(withHeader))
}

func TestAPIKeyFromRequest_QueryWins(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/where/lines.json?key=query", nil)
	r.Header.Set(APIKeyHeader, "header")

	assert.Equal(t, "query", APIKeyFromRequest(r))
}

func TestIsInvalidAPIKey_NoKeysConfigured(t *testing.T) {
	app := &Application{}
	assert.True(t, app.IsInvalidAPIKey("anything"))
}
