package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017/?replicaSet=rs0"
	DefaultMongoDatabaseName = "ticketbooking"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisDB = 0

	DefaultPort     = "4000"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 120
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultSessionCookieName = "ticket.sid"
	DefaultSessionTTL        = 7 * 24 * time.Hour
	DefaultBcryptCost        = 12
	MinBcryptCost            = 4
	MaxBcryptCost            = 31

	DefaultBookingLockTTL  = 10 * time.Second
	DefaultBookingLockWait = 2 * time.Second
	DefaultBlogCacheTTL    = 5 * time.Minute

	DefaultPaginationLimit = 20
	MaxPaginationLimit     = 100

	DefaultEnvironment = "development"
)

var DefaultCORSAllowedOrigins = []string{"http://localhost:3000"}
