package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Issuer         string        // Issuer claim of bearers (default: ledgers)
	Audience       []string      // Optional: audience claim of bearers
	SigningKeyFile string        // Optional: PKCS8 Ed25519 key; empty generates an ephemeral key
	AccessTTL      time.Duration // Bearer lifetime (default: 5m)

	DatabaseFile string // Path to SQLite database file (default: ./ledgers.db)
	Pepper       string // Pepper mixed into PIN hashes (default: ledgers-dev-pepper)
	FixturesFile string // Optional: YAML file with PSUs; empty seeds the built-in ones

	OAuthClients     []string      // Accepted OAuth client ids; empty accepts any
	StaticSCACode    string        // Optional: code accepted for every authorisation, for tests
	AuthorisationTTL time.Duration // Lifetime of an open authorisation (default: 30m)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8081)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 10m)
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("LEDGERS_ISSUER", "ledgers"),
		Audience:       getEnvListOrDefault("LEDGERS_AUDIENCE", nil),
		SigningKeyFile: os.Getenv("LEDGERS_SIGNING_KEY_FILE"),
		AccessTTL:      getEnvDurationOrDefault("LEDGERS_ACCESS_TTL", 5*time.Minute),

		DatabaseFile: getEnvOrDefault("LEDGERS_DATABASE_FILE", "ledgers.db"),
		Pepper:       getEnvOrDefault("LEDGERS_PEPPER", "ledgers-dev-pepper"),
		FixturesFile: os.Getenv("LEDGERS_FIXTURES_FILE"),

		OAuthClients:     getEnvListOrDefault("LEDGERS_OAUTH_CLIENTS", nil),
		StaticSCACode:    os.Getenv("LEDGERS_STATIC_SCA_CODE"),
		AuthorisationTTL: getEnvDurationOrDefault("LEDGERS_AUTHORISATION_TTL", 30*time.Minute),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("LEDGERS_PORT", 8081),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 10*time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

// getEnvListOrDefault splits a comma separated variable, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
