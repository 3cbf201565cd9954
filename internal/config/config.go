package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Environment string
	Version     string
	LogLevel    string
	LogFormat   string
	LogDir      string

	// HTTP server
	Port           int
	APIKey         string // API key for authentication
	TrustedProxies []string

	// Database
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// Streamer.bot event source
	StreamerbotURL      string
	StreamerbotPassword string

	// Broadcaster identity used by the role gate
	BroadcasterID      string
	BroadcasterLogin   string
	BroadcasterDisplay string

	// Role directory cache
	RoleCacheSize int
	RoleCacheTTL  time.Duration

	// Pipeline tuning
	DispatchLimit   int // max concurrent rule executions per batch, <= 0 means unbounded
	EventBuffer     int // capacity of the ingestion queue
	IngestRateLimit float64
	IngestBurst     int

	// Execution history writer
	RecorderWorkers int
	RecorderQueue   int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		Version:     getEnv("VERSION", DefaultVersion),
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),
		APIKey:      getEnv("API_KEY", ""),

		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "throwbot"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		StreamerbotURL:      getEnv("STREAMERBOT_URL", ""),
		StreamerbotPassword: getEnv("STREAMERBOT_PASSWORD", ""),

		BroadcasterID:      getEnv("BROADCASTER_ID", ""),
		BroadcasterLogin:   getEnv("BROADCASTER_LOGIN", ""),
		BroadcasterDisplay: getEnv("BROADCASTER_DISPLAY_NAME", ""),

		RoleCacheSize: getEnvAsInt("ROLE_CACHE_SIZE", DefaultRoleCacheSize),
		RoleCacheTTL:  getEnvAsDuration("ROLE_CACHE_TTL", DefaultRoleCacheTTL),

		DispatchLimit:   getEnvAsInt("DISPATCH_LIMIT", DefaultDispatchLimit),
		EventBuffer:     getEnvAsInt("EVENT_BUFFER", DefaultEventBuffer),
		IngestRateLimit: getEnvAsFloat("INGEST_RATE_LIMIT", DefaultIngestRateLimit),
		IngestBurst:     getEnvAsInt("INGEST_BURST", DefaultIngestBurst),

		RecorderWorkers: getEnvAsInt("RECORDER_WORKERS", DefaultRecorderWorkers),
		RecorderQueue:   getEnvAsInt("RECORDER_QUEUE", DefaultRecorderQueue),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, p)
			}
		}
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values that would leave the pipeline unusable
func (c *Config) Validate() error {
	if c.EventBuffer < 1 {
		return fmt.Errorf("EVENT_BUFFER must be at least 1, got %d", c.EventBuffer)
	}
	if c.RoleCacheSize < 1 {
		return fmt.Errorf("ROLE_CACHE_SIZE must be at least 1, got %d", c.RoleCacheSize)
	}
	if c.RoleCacheTTL < 0 {
		return fmt.Errorf("ROLE_CACHE_TTL must not be negative, got %s", c.RoleCacheTTL)
	}
	if c.IngestRateLimit <= 0 {
		return fmt.Errorf("INGEST_RATE_LIMIT must be positive, got %v", c.IngestRateLimit)
	}
	if c.IngestBurst < 1 {
		return fmt.Errorf("INGEST_BURST must be at least 1, got %d", c.IngestBurst)
	}
	if c.RecorderWorkers < 1 {
		return fmt.Errorf("RECORDER_WORKERS must be at least 1, got %d", c.RecorderWorkers)
	}
	if c.RecorderQueue < 1 {
		return fmt.Errorf("RECORDER_QUEUE must be at least 1, got %d", c.RecorderQueue)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an integer environment variable, falling back to the default when unset or invalid
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a Go duration string (e.g. "5m", "1h30m")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
