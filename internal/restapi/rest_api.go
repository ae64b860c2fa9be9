package restapi

import (
	"time"

	"metroplanner.transit.org/internal/app"
	"metroplanner.transit.org/internal/clock"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	var clk clock.Clock = clock.RealClock{}
	if app.Clock != nil {
		clk = app.Clock
	}
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second, app.Config.ExemptApiKeys, clk),
	}
}

// Shutdown stops background work owned by the API. It is safe to call more than once.
func (api *RestAPI) Shutdown() {
	if api.rateLimiter != nil {
		api.rateLimiter.Stop()
	}
}
