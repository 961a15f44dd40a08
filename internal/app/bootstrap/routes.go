// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	groupsfeature "github.com/dalemusser/grouphub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/grouphub/internal/app/features/health"
	"github.com/dalemusser/grouphub/internal/app/membership"
	groupstore "github.com/dalemusser/grouphub/internal/app/store/groups"
	"github.com/dalemusser/grouphub/internal/app/store/notifications"
	usergroupstore "github.com/dalemusser/grouphub/internal/app/store/usergroups"
	"github.com/dalemusser/grouphub/internal/app/system/identity"
	"github.com/dalemusser/grouphub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// GroupHub assembles the membership manager from its stores, the request
// rate limiter, and the notification dispatcher started in Startup, then
// mounts the group, caller-scoped, and health routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	groups := groupstore.New(deps.MongoDatabase)
	userGroups := usergroupstore.New(deps.MongoDatabase)
	notes := notifications.New(deps.MongoDatabase)

	// Prefer the shared Redis cooldown when configured so the join-request
	// limit holds across all instances; fall back to the in-process one.
	var limiter membership.RateLimiter
	if deps.Redis != nil {
		limiter = ratelimit.NewRedisCooldown(deps.Redis, logger)
	} else {
		limiter = ratelimit.NewCooldown(0)
	}

	mgr := membership.NewManager(groups, userGroups, limiter, dispatcher, logger, appCfg.JoinRequestCooldown)

	r := chi.NewRouter()

	// Resolve the caller identity once so every handler can read it from
	// the request context.
	r.Use(identity.Middleware)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	groupsHandler := groupsfeature.NewHandler(mgr, groups, userGroups, notes, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler))
	r.Mount("/me", groupsfeature.MeRoutes(groupsHandler))

	return r, nil
}
