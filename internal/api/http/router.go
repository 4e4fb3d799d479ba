package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/brainscan1980/anonaddy/internal/api/http/handlers"
	"github.com/brainscan1980/anonaddy/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Domains        *handlers.DomainsHandler
	Recipients     *handlers.RecipientsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Users.ChangePassword)

	api := app.Group("/api/v1")

	// Verification links land here from emails, before any bearer token exists.
	api.Get("/recipients/verify/:token", cfg.Recipients.Verify)

	protected := api.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/domains", cfg.Domains.List)
	protected.Post("/domains", cfg.Domains.Create)
	protected.Get("/domains/:id", cfg.Domains.Get)
	protected.Patch("/domains/:id", cfg.Domains.Update)
	protected.Delete("/domains/:id", cfg.Domains.Delete)
	protected.Patch("/domains/:id/default-recipient", cfg.Domains.UpdateDefaultRecipient)
	protected.Get("/domains/:id/check-verification", cfg.Domains.CheckVerification)

	protected.Post("/active-domains", cfg.Domains.Activate)
	protected.Delete("/active-domains/:id", cfg.Domains.Deactivate)

	protected.Post("/catch-all-domains", cfg.Domains.EnableCatchAll)
	protected.Delete("/catch-all-domains/:id", cfg.Domains.DisableCatchAll)

	protected.Get("/recipients", cfg.Recipients.List)
	protected.Post("/recipients", cfg.Recipients.Create)
	protected.Get("/recipients/:id", cfg.Recipients.Get)
	protected.Delete("/recipients/:id", cfg.Recipients.Delete)
	protected.Post("/recipients/:id/resend", cfg.Recipients.Resend)
}
