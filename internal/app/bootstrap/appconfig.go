// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, logging
// level, CORS, body limits). AppConfig is everything specific to the group
// membership service itself.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Join-request throttling: one new request per (group, user) per window.
	JoinRequestCooldown time.Duration

	// Notification dispatch
	NotifyBufferSize int    // In-process event queue capacity
	NotifyOutbox     bool   // Persist events to the notifications collection
	NATSURL          string // Optional NATS server; empty disables publishing

	// Optional Redis for shared cooldown state across instances; empty uses
	// the in-memory limiter.
	RedisURI string

	// How often the index repair worker reconciles user_groups.
	IndexRepairInterval time.Duration
}
