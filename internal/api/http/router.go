package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"github.com/spec-kit/starbite-api/internal/api/http/handlers"
	"github.com/spec-kit/starbite-api/internal/auth"
	"github.com/spec-kit/starbite-api/internal/observability"
	"github.com/spec-kit/starbite-api/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Users        *handlers.UsersHandler
	Auth         *handlers.AuthHandler
	Restaurants  *handlers.RestaurantsHandler
	Reviews      *handlers.ReviewsHandler
	Home         *handlers.HomeHandler
	AccessGuard  *auth.AccessGuard
	RefreshGuard *auth.RefreshGuard
	Metrics      *observability.Metrics
	// Limiter throttles account and auth endpoints; nil disables it.
	Limiter *ratelimit.Limiter
	Logger  *zap.Logger
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	throttle := func(scope string) []fiber.Handler {
		if cfg.Limiter == nil {
			return nil
		}
		return []fiber.Handler{ratelimit.Middleware(cfg.Limiter, scope, cfg.Logger)}
	}
	requireAccess := cfg.AccessGuard.Handle

	v1 := app.Group("/api/v1")
	v1.Get("/home", cfg.Home.Home)

	v1.Post("/users", append(throttle("register"), cfg.Users.Register)...)
	v1.Get("/profile", requireAccess, cfg.Users.Profile)

	authGroup := v1.Group("/auth", throttle("auth")...)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/token", cfg.RefreshGuard.Handle, cfg.Auth.Token)

	v1.Get("/restaurants", cfg.Restaurants.Search)
	v1.Post("/restaurants", requireAccess, cfg.Restaurants.Create)
	v1.Get("/restaurants/:restaurantId", requireAccess, cfg.Restaurants.Get)

	v1.Post("/reviews", requireAccess, cfg.Reviews.Create)
	v1.Patch("/reviews", requireAccess, cfg.Reviews.Update)
	v1.Get("/edit/reviews/:reviewId", requireAccess, cfg.Reviews.GetEditable)
}
