package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/spec-kit/agent-admin/internal/api/http/handlers"
	"github.com/spec-kit/agent-admin/internal/auth"
	"github.com/spec-kit/agent-admin/internal/config"
	apperrors "github.com/spec-kit/agent-admin/pkg/util/errorutil"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Agents         *handlers.AgentsHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.AuthMiddleware
	LoginRateLimit config.RateLimitConfig
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/admin/login", cfg.Auth.AdminLogin)
	authGroup.Post("/agents/login", loginLimiter(cfg.LoginRateLimit), cfg.Auth.AgentLogin)

	agents := app.Group("/agents", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	agents.Get("/", cfg.Agents.List)
	agents.Get("/:id", cfg.Agents.Get)
	agents.Get("/:id/history", cfg.Agents.History)
	agents.Post("/:id/reject", cfg.Agents.Reject)
	agents.Post("/:id/suspend", cfg.Agents.Suspend)
	agents.Post("/:id/reactivate", cfg.Agents.Reactivate)
	agents.Put("/:id/pin", cfg.Agents.SetPIN)

	// Route level guards: a "/agent" group prefix would also match "/agents".
	app.Get("/agent/me", cfg.AuthMiddleware.Handle, auth.RequireAgent(), cfg.Auth.Me)

	analytics := app.Group("/analytics", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	analytics.Get("/agents/status", cfg.Analytics.StatusBreakdown)
	analytics.Get("/agents/onboarding", cfg.Analytics.Onboarding)
}

// loginLimiter throttles PIN guessing per client IP. A non-positive request
// budget disables the limiter.
func loginLimiter(cfg config.RateLimitConfig) fiber.Handler {
	if cfg.LoginRequests <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        cfg.LoginRequests,
		Expiration: cfg.LoginWindow(),
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return apperrors.NewDomainError(apperrors.CodeRateLimited, "too many login attempts", http.StatusTooManyRequests)
		},
	})
}
