package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/finledger/finance-api/internal/api/http/handlers"
	"github.com/finledger/finance-api/internal/auth"
	"github.com/finledger/finance-api/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Profile        *handlers.ProfileHandler
	Transactions   *handlers.TransactionsHandler
	Billings       *handlers.BillingsHandler
	Search         *handlers.SearchHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *SubjectRateLimiter
	Metrics        *observability.Metrics
	UploadsDir     string
}

// RegisterRoutes wires HTTP routes. Everything under profile, transactions,
// billings and search passes the auth gate first.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Plain)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}
	if cfg.UploadsDir != "" {
		app.Static("/uploads", cfg.UploadsDir)
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	gate := []fiber.Handler{cfg.AuthMiddleware.Handle}
	if cfg.RateLimiter != nil {
		gate = append(gate, cfg.RateLimiter.Handle)
	}

	user := api.Group("/user", gate...)
	user.Get("/profile", auth.Protected(cfg.Profile.Get))
	user.Put("/profile", auth.Protected(cfg.Profile.Update))

	transactions := api.Group("/transactions", gate...)
	transactions.Get("/", auth.Protected(cfg.Transactions.List))
	transactions.Post("/", auth.Protected(cfg.Transactions.Create))
	transactions.Get("/:id", auth.Protected(cfg.Transactions.Get))
	transactions.Put("/:id", auth.Protected(cfg.Transactions.Update))
	transactions.Delete("/:id", auth.Protected(cfg.Transactions.Delete))

	billings := api.Group("/billings", gate...)
	billings.Get("/", auth.Protected(cfg.Billings.List))
	billings.Post("/", auth.Protected(cfg.Billings.Create))
	billings.Get("/:id", auth.Protected(cfg.Billings.Get))
	billings.Put("/:id", auth.Protected(cfg.Billings.Update))
	billings.Delete("/:id", auth.Protected(cfg.Billings.Delete))

	search := api.Group("/search", gate...)
	search.Get("/", auth.Protected(cfg.Search.Search))
}
