package config

import "time"

// Defaults applied when the corresponding environment variable is unset
const (
	DefaultEnvironment = "dev"
	DefaultVersion     = "dev"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultLogDir      = "logs"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultRoleCacheSize = 64
	DefaultRoleCacheTTL  = 2 * time.Minute

	DefaultDispatchLimit   = 0
	DefaultEventBuffer     = 100
	DefaultIngestRateLimit = 20.0
	DefaultIngestBurst     = 40

	DefaultRecorderWorkers = 2
	DefaultRecorderQueue   = 256
)
