package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/api/http/handlers"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Disputes       *handlers.DisputesHandler
	Bookings       *handlers.BookingsHandler
	Admin          *handlers.AdminDisciplineHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Auth.Register)
	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle)

	api.Post("/disputes", auth.RequireUser(), cfg.Disputes.CreateDispute)
	api.Get("/disputes", auth.RequireUser(), cfg.Disputes.ListDisputes)

	api.Patch("/bookings/:id/start", auth.RequireUser(), cfg.Bookings.StartTrip)
	api.Patch("/bookings/:id/complete", auth.RequireUser(), cfg.Bookings.CompleteTrip)

	admin := api.Group("/admin", auth.RequireAdmin())
	admin.Get("/drivers/:id/sanctions", cfg.Admin.ListSanctions)
	admin.Get("/drivers/:id/listings", cfg.Admin.ListDriverListings)
	admin.Post("/drivers/:id/suspend", cfg.Admin.SuspendDriver)
	admin.Post("/drivers/:id/ban", cfg.Admin.BanDriver)
	admin.Post("/drivers/:id/reinstate", cfg.Admin.ReinstateDriver)
}
