package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gallery-service/internal/api/http/handlers"
	"github.com/spec-kit/gallery-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Products       *handlers.ProductsHandler
	Inquiries      *handlers.InquiriesHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	requireAuth := cfg.AuthMiddleware.Handle
	requireAdmin := auth.RequireAdmin()

	users := app.Group("/users")
	users.Post("/", cfg.Users.Register)
	users.Post("/login", cfg.Users.Login)
	users.Post("/logout", requireAuth, cfg.Users.Logout)

	// fixed paths must be registered before /:id
	users.Get("/profile", requireAuth, cfg.Users.GetProfile)
	users.Put("/profile", requireAuth, cfg.Users.UpdateProfile)
	users.Put("/change-password", requireAuth, cfg.Users.ChangePassword)
	users.Get("/stats", requireAuth, requireAdmin, cfg.Users.Stats)

	users.Get("/", requireAuth, requireAdmin, cfg.Users.List)
	users.Get("/:id", requireAuth, requireAdmin, cfg.Users.GetByID)
	users.Put("/:id/role", requireAuth, requireAdmin, cfg.Users.UpdateRole)
	users.Put("/:id/reset-password", requireAuth, requireAdmin, cfg.Users.ResetPassword)
	users.Delete("/:id", requireAuth, requireAdmin, cfg.Users.Delete)

	products := app.Group("/products")
	products.Get("/", cfg.Products.List)
	products.Get("/:id", cfg.Products.GetByID)
	products.Post("/", requireAuth, requireAdmin, cfg.Products.Create)
	products.Put("/:id", requireAuth, requireAdmin, cfg.Products.Update)
	products.Delete("/:id", requireAuth, requireAdmin, cfg.Products.Delete)

	inquiries := app.Group("/inquiries")
	inquiries.Post("/", cfg.AuthMiddleware.Optional, cfg.Inquiries.Submit)
	inquiries.Get("/", requireAuth, requireAdmin, cfg.Inquiries.List)
	inquiries.Put("/:id/status", requireAuth, requireAdmin, cfg.Inquiries.UpdateStatus)
	inquiries.Delete("/:id", requireAuth, requireAdmin, cfg.Inquiries.Delete)

	admin := app.Group("/admin", requireAuth, requireAdmin)
	admin.Get("/dashboard", cfg.Admin.Dashboard)
	admin.Get("/system", cfg.Admin.System)
	admin.Get("/metrics", cfg.Admin.Metrics)
}
