package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pet-adoption-service/internal/api/http/handlers"
	"github.com/spec-kit/pet-adoption-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Users     *handlers.UsersHandler
	Pets      *handlers.PetsHandler
	Campaigns *handlers.CampaignsHandler
	Donations *handlers.DonationsHandler
	Adoptions *handlers.AdoptionsHandler

	TokenGate *auth.TokenMiddleware
	Resolver  *auth.RoleResolver
}

// RegisterRoutes wires HTTP routes. Each protected route states its gate
// chain explicitly: token gate first, then the admin gate where elevation is
// required.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	requireToken := cfg.TokenGate.Handle
	requireAdmin := auth.RequireAdmin(cfg.Resolver)

	api.Post("/auth/token", cfg.Auth.IssueToken)

	api.Put("/users", cfg.Users.Ensure)
	api.Get("/users/admin/:email", requireToken, cfg.Auth.CheckAdmin)
	api.Get("/users", requireToken, requireAdmin, cfg.Users.List)
	api.Patch("/users/:id/role", requireToken, requireAdmin, cfg.Users.GrantAdmin)
	api.Patch("/users/:id/ban", requireToken, requireAdmin, cfg.Users.SetBan)

	api.Get("/pets", cfg.Pets.List)
	api.Get("/pets/:id", cfg.Pets.Get)
	api.Post("/pets", requireToken, cfg.Pets.Create)
	api.Put("/pets/:id", requireToken, cfg.Pets.Update)
	api.Patch("/pets/:id/adopted", requireToken, cfg.Pets.SetAdopted)
	api.Delete("/pets/:id", requireToken, cfg.Pets.Delete)

	api.Get("/campaigns", cfg.Campaigns.List)
	api.Get("/campaigns/mine", requireToken, cfg.Campaigns.ListMine)
	api.Get("/campaigns/:id", cfg.Campaigns.Get)
	api.Post("/campaigns", requireToken, cfg.Campaigns.Create)
	api.Patch("/campaigns/:id/pause", requireToken, cfg.Campaigns.SetPaused)

	api.Post("/donations", requireToken, cfg.Donations.Record)
	api.Get("/donations/mine", requireToken, cfg.Donations.ListMine)
	api.Post("/donations/reconcile", requireToken, requireAdmin, cfg.Donations.Reconcile)

	api.Post("/adoptions", requireToken, cfg.Adoptions.Submit)
	api.Get("/adoptions", requireToken, requireAdmin, cfg.Adoptions.List)
	api.Get("/adoptions/mine", requireToken, cfg.Adoptions.ListMine)
	api.Patch("/adoptions/:id/status", requireToken, cfg.Adoptions.Decide)
}
