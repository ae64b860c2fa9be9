// Package appconf holds process-wide configuration for the journey planner.
package appconf

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // Location must resolve on hosts without zoneinfo
)

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// EnvFlagToEnvironment maps the -env flag value to an Environment.
// Unknown values are treated as development.
func EnvFlagToEnvironment(env string) Environment {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// Config holds all the configuration settings for the Application.
type Config struct {
	Port          int
	Env           Environment
	ApiKeys       []string
	ExemptApiKeys []string
	RateLimit     int // requests per second per API key
	Verbose       bool
	LogLevel      string

	// Network sources, tried in order: GTFSPath, NetworkPath, the network
	// already stored at DBPath, then the embedded default network.
	NetworkPath string
	GTFSPath    string
	DBPath      string

	InterchangeMinutes int
	TimeZone           string

	// ClockEnvVar and ClockFile let test deployments pin "now".
	ClockEnvVar string
	ClockFile   string
}

// Defaults returns a Config populated from METRO_* environment variables,
// falling back to built-in defaults.
func Defaults() Config {
	return Config{
		Port:               envInt("METRO_PORT", 4000),
		Env:                EnvFlagToEnvironment(envStr("METRO_ENV", "development")),
		RateLimit:          envInt("METRO_RATE_LIMIT", 100),
		LogLevel:           envStr("METRO_LOG_LEVEL", "info"),
		NetworkPath:        envStr("METRO_NETWORK_PATH", ""),
		GTFSPath:           envStr("METRO_GTFS_PATH", ""),
		DBPath:             envStr("METRO_DB_PATH", ""),
		InterchangeMinutes: envInt("METRO_INTERCHANGE_MINUTES", 5),
		TimeZone:           envStr("METRO_TIME_ZONE", "Asia/Kolkata"),
		ClockEnvVar:        envStr("METRO_CLOCK_ENV_VAR", ""),
		ClockFile:          envStr("METRO_CLOCK_FILE", ""),
	}
}

// InterchangeDuration is the configured walk time between platforms.
func (c Config) InterchangeDuration() time.Duration {
	if c.InterchangeMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.InterchangeMinutes) * time.Minute
}

// Location resolves TimeZone, defaulting to UTC when it cannot be loaded.
func (c Config) Location() *time.Location {
	if c.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
