package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	LedgersURL     string        // Base URL of the ledgers backend (default: http://localhost:8081)
	LedgersTimeout time.Duration // Timeout of one ledgers call (default: 10s)

	ProfileFile     string // Optional: ASPSP profile YAML; empty uses the built-in profile
	ModeHeader      string // Header carrying the OAuth preference (default: X-OAUTH-PREFERRED)
	DefaultApproach string // Approach when the request states none (default: REDIRECT)
	NoMethodsPolicy string // Landing without SCA methods: authenticated or exempted (default: authenticated)
	IDSealSecret    string // Secret for ids in PSU links (default: scaconnect-dev-secret)

	ReplayGuard   string        // none, memory or redis (default: memory)
	ReplayTTL     time.Duration // How long closed authorisations are remembered (default: 24h)
	RedisAddr     string        // Redis address for the redis guard (default: localhost:6379)
	RedisPassword string        // Optional: redis password
	RedisDB       int           // Redis database (default: 0)
	RedisPrefix   string        // Key prefix (default: scaconnect:closed:)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		LedgersURL:     getEnvOrDefault("LEDGERS_URL", "http://localhost:8081"),
		LedgersTimeout: getEnvDurationOrDefault("LEDGERS_TIMEOUT", 10*time.Second),

		ProfileFile:     os.Getenv("ASPSP_PROFILE_FILE"),
		ModeHeader:      getEnvOrDefault("SCA_MODE_HEADER", "X-OAUTH-PREFERRED"),
		DefaultApproach: getEnvOrDefault("SCA_DEFAULT_APPROACH", "REDIRECT"),
		NoMethodsPolicy: getEnvOrDefault("SCA_NO_METHODS_POLICY", "authenticated"),
		IDSealSecret:    getEnvOrDefault("ID_SEAL_SECRET", "scaconnect-dev-secret"),

		ReplayGuard:   getEnvOrDefault("REPLAY_GUARD", "memory"),
		ReplayTTL:     getEnvDurationOrDefault("REPLAY_TTL", 24*time.Hour),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),
		RedisPrefix:   getEnvOrDefault("REDIS_PREFIX", "scaconnect:closed:"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
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
