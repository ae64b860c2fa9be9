package app

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// APIKeyHeader is accepted when the key query parameter is absent.
const APIKeyHeader = "X-API-Key"

// APIKeyFromRequest reads the caller's key from ?key= or the X-API-Key header.
func APIKeyFromRequest(r *http.Request) string {
	if key := r.URL.Query().Get("key"); key != "" {
		return key
	}
	return strings.TrimSpace(r.Header.Get(APIKeyHeader))
}

func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	return app.IsInvalidAPIKey(APIKeyFromRequest(r))
}

// IsInvalidAPIKey reports whether key is missing or matches neither a
// configured key nor a rate-limit exempt key.
func (app *Application) IsInvalidAPIKey(key string) bool {
	if key == "" {
		return true
	}
	return !keyIn(key, app.Config.ApiKeys) && !keyIn(key, app.Config.ExemptApiKeys)
}

// keyIn compares in constant time against every candidate.
func keyIn(key string, keys []string) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare([]byte(key), []byte(k))
	}
	return found == 1
}
