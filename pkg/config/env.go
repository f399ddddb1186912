package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"
	EnvLogFile  = "LOG_FILE"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSessionCookieName   = "SESSION_COOKIE_NAME"
	EnvSessionTTL          = "SESSION_TTL"
	EnvSessionCookieSecure = "SESSION_COOKIE_SECURE"
	EnvBcryptCost          = "BCRYPT_SALT_ROUNDS"
	EnvManagerUsernames    = "MANAGER_USERNAMES"
	EnvCORSAllowedOrigins  = "CORS_ALLOWED_ORIGINS"

	EnvBookingLockTTL  = "BOOKING_LOCK_TTL"
	EnvBookingLockWait = "BOOKING_LOCK_WAIT"
	EnvBlogCacheTTL    = "BLOG_CACHE_TTL"

	EnvJaegerEndpoint = "JAEGER_ENDPOINT"
	EnvEnvironment    = "APP_ENV"
)
