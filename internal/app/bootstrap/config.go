// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for GroupHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, join_request_cooldown, etc.
//   - Environment variables: GROUPHUB_MONGO_URI, GROUPHUB_NATS_URL, etc.
//   - Command-line flags: --mongo_uri, --nats_url, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "grouphub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "join_request_cooldown", Default: "1h", Desc: "Minimum time between join requests per user per group (e.g., 30m, 1h)"},

	{Name: "notify_buffer_size", Default: 256, Desc: "Notification dispatch queue capacity"},
	{Name: "notify_outbox", Default: true, Desc: "Persist notification events to the notifications collection"},
	{Name: "nats_url", Default: "", Desc: "NATS server URL for publishing notification events (blank disables)"},

	{Name: "redis_uri", Default: "", Desc: "Redis URI for shared join-request cooldowns (blank uses in-memory)"},

	{Name: "index_repair_interval", Default: "15m", Desc: "How often the user-group index repair sweep runs"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have access
// to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "GROUPHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JoinRequestCooldown: appValues.Duration("join_request_cooldown", time.Hour),

		NotifyBufferSize: appValues.Int("notify_buffer_size"),
		NotifyOutbox:     appValues.Bool("notify_outbox"),
		NATSURL:          appValues.String("nats_url"),

		RedisURI: appValues.String("redis_uri"),

		IndexRepairInterval: appValues.Duration("index_repair_interval", 15*time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked early so a typo fails fast instead of
// surfacing as a connect timeout.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.JoinRequestCooldown <= 0 {
		return fmt.Errorf("join_request_cooldown must be positive")
	}
	if appCfg.IndexRepairInterval <= 0 {
		return fmt.Errorf("index_repair_interval must be positive")
	}
	return nil
}
