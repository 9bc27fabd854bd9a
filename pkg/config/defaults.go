package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "fleetbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	// DefaultBookingBuffer is the minimum turnaround gap between two
	// rentals on the same vehicle, applied to both ends of a requested
	// window before the overlap check.
	DefaultBookingBuffer = 3 * time.Hour

	// DefaultHoldTimeout is how long a pending reservation holds its slot
	// before the TTL sweep releases it.
	DefaultHoldTimeout = 10 * time.Minute

	DefaultMaxTxRetries = 5

	DefaultGatewayTimeout = 10 * time.Second

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultCurrency = "USD"
)
