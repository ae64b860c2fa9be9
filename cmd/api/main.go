package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"metroplanner.transit.org/internal/appconf"
)

func main() {
	cfg := appconf.Defaults()
	var envFlag, apiKeysFlag, exemptKeysFlag string

	flag.IntVar(&cfg.Port, "port", cfg.Port, "API server port")
	flag.StringVar(&envFlag, "env", cfg.Env.String(), "Environment (development|test|production)")
	flag.StringVar(&apiKeysFlag, "api-keys", envOr("METRO_API_KEYS", "test"), "Comma Separated API Keys (test, etc)")
	flag.StringVar(&exemptKeysFlag, "exempt-api-keys", envOr("METRO_EXEMPT_API_KEYS", ""), "Comma Separated API Keys exempt from rate limiting")
	flag.IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Requests per second per API key")
	flag.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose database logging")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	flag.StringVar(&cfg.NetworkPath, "network", cfg.NetworkPath, "Path to a JSON network definition")
	flag.StringVar(&cfg.GTFSPath, "gtfs", cfg.GTFSPath, "Path to a static GTFS zip to build the network from")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database for the network and journey log (optional)")
	flag.IntVar(&cfg.InterchangeMinutes, "interchange-minutes", cfg.InterchangeMinutes, "Walk time between platforms at an interchange")
	flag.StringVar(&cfg.TimeZone, "time-zone", cfg.TimeZone, "IANA time zone for departures and fares")
	flag.StringVar(&cfg.ClockEnvVar, "clock-env-var", cfg.ClockEnvVar, "Environment variable holding a pinned current time")
	flag.StringVar(&cfg.ClockFile, "clock-file", cfg.ClockFile, "File holding a pinned current time")
	flag.Parse()

	cfg.Env = appconf.EnvFlagToEnvironment(envFlag)
	cfg.ApiKeys = ParseAPIKeys(apiKeysFlag)
	cfg.ExemptApiKeys = ParseAPIKeys(exemptKeysFlag)

	coreApp, err := BuildApplication(cfg)
	if err != nil {
		slog.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	srv, api := CreateServer(coreApp, cfg)
	if err := Run(context.Background(), srv, coreApp, api); err != nil {
		coreApp.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
