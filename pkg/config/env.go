package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvBookingBuffer       = "BOOKING_BUFFER"
	EnvBookingHoldTimeout  = "BOOKING_HOLD_TIMEOUT"
	EnvBookingMaxTxRetries = "BOOKING_MAX_TX_RETRIES"

	EnvGatewayBaseURL       = "GATEWAY_BASE_URL"
	EnvGatewayKeyID         = "GATEWAY_KEY_ID"
	EnvGatewayKeySecret     = "GATEWAY_KEY_SECRET"
	EnvGatewayWebhookSecret = "GATEWAY_WEBHOOK_SECRET"
	EnvGatewayTimeout       = "GATEWAY_TIMEOUT"

	EnvBookingEventsTopic = "BOOKING_EVENTS_TOPIC"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
