package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the geocoding service.
//
// Fields:
// - Env: The current environment (local, development, production).
// - Port: The port for the HTTP API.
// - Providers: The provider chain, in configuration order.
// - ProviderTimeout: Time limit of a single provider attempt.
// - InsecureSkipVerify: Disables TLS certificate verification for provider requests.
// - Workers: The number of concurrent workers resolving stored locations.
// - Interval: The duration between polls of the location store.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env                string                // Env is the current environment: local, development, production.
	Port               int                   // Port is the HTTP API port.
	Providers          []models.ProviderSpec // Providers is the provider chain.
	ProviderTimeout    time.Duration         // ProviderTimeout bounds each provider attempt.
	InsecureSkipVerify bool                  // InsecureSkipVerify disables certificate verification.
	UserAgent          string                // UserAgent is sent with every provider request.
	Workers            int                   // The number of concurrent workers.
	Interval           time.Duration         // The duration between polls.
	BatchSize          int                   // BatchSize is the number of locations fetched per poll.
	QueryPrefix        string                // Query prefix for more accurate geocoding.
	Tracing            bool                  // Tracing enables stdout OpenTelemetry traces.
	Database           PostgresConfig        // Database holds the postgres database configuration.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// Enabled reports whether a database is configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

// MustLoad loads the configuration from the environment and an optional .env file.
// It panics when a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	interval, err := time.ParseDuration(setDefaultEnv("COMPASS_INTERVAL", "1m"))
	if err != nil {
		panic("failed to parse interval from configuration")
	}

	timeout, err := time.ParseDuration(setDefaultEnv("COMPASS_PROVIDER_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		panic("failed to parse provider timeout from configuration")
	}

	port, err := strconv.Atoi(setDefaultEnv("COMPASS_HTTP_PORT", "8080"))
	if err != nil {
		panic("failed to parse port for HTTP server from configuration")
	}

	workers, err := strconv.Atoi(setDefaultEnv("COMPASS_WORKERS", "4"))
	if err != nil || workers < 1 {
		panic("failed to parse workers from configuration, must be a positive integer")
	}

	batchSize, err := strconv.Atoi(setDefaultEnv("COMPASS_BATCH_SIZE", "100"))
	if err != nil || batchSize < 1 {
		panic("failed to parse batch size from configuration, must be a positive integer")
	}

	insecure, err := strconv.ParseBool(setDefaultEnv("COMPASS_INSECURE_SKIP_VERIFY", "false"))
	if err != nil {
		panic("failed to parse insecure skip verify flag from configuration")
	}

	tracing, err := strconv.ParseBool(setDefaultEnv("COMPASS_TRACING", "false"))
	if err != nil {
		panic("failed to parse tracing flag from configuration")
	}

	providers, err := LoadProviders(
		os.Getenv("COMPASS_PROVIDERS_FILE"),
		setDefaultEnv("COMPASS_PROVIDERS", "nominatim,geocodemaps"),
	)
	if err != nil {
		panic("failed to load provider chain from configuration: " + err.Error())
	}

	return &Config{
		Env:                setDefaultEnv("COMPASS_ENV", "production"),
		Port:               port,
		Providers:          providers,
		ProviderTimeout:    timeout,
		InsecureSkipVerify: insecure,
		UserAgent:          os.Getenv("COMPASS_USER_AGENT"),
		Workers:            workers,
		Interval:           interval,
		BatchSize:          batchSize,
		QueryPrefix:        os.Getenv("COMPASS_QUERY_PREFIX"),
		Tracing:            tracing,
		Database: PostgresConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}

// apiKeyEnv returns the environment variable holding the API key of provider id,
// e.g. COMPASS_LOCATION_IQ_API_KEY for "location-iq".
func apiKeyEnv(id string) string {
	normalized := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, id)

	return "COMPASS_" + strings.ToUpper(normalized) + "_API_KEY"
}
