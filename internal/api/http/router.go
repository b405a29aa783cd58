package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/commerce-kit/backoffice-service/internal/api/http/handlers"
	"github.com/commerce-kit/backoffice-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Staff        *handlers.StaffHandler
	Coupons      *handlers.CouponHandler
	Newsletter   *handlers.NewsletterHandler
	Gate         *auth.AuthGate
	LoginLimiter fiber.Handler
	Realtime     []fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/admin/register", cfg.Auth.RegisterAdmin)
	authGroup.Post("/admin/login", cfg.LoginLimiter, cfg.Auth.LoginAdmin)
	authGroup.Post("/staff/login", cfg.LoginLimiter, cfg.Auth.LoginStaff)
	authGroup.Post("/customers/register", cfg.Auth.RegisterCustomer)
	authGroup.Post("/customers/login", cfg.LoginLimiter, cfg.Auth.LoginCustomer)
	authGroup.Post("/password/change",
		cfg.Gate.Authenticate(auth.KindCustomer, auth.KindAdmin, auth.KindAgent, auth.KindDesigner),
		cfg.Auth.ChangePassword,
	)

	staffGroup := app.Group("/staff", cfg.Gate.Authenticate(auth.KindAdmin))
	staffGroup.Post("/", cfg.Staff.Create)
	staffGroup.Get("/", cfg.Staff.List)
	staffGroup.Get("/presence", cfg.Staff.Presence)
	staffGroup.Get("/:id", cfg.Staff.Get)
	staffGroup.Put("/:id", cfg.Staff.Update)

	couponGroup := app.Group("/coupons", cfg.Gate.Authenticate(auth.KindAdmin))
	couponGroup.Post("/", cfg.Coupons.Create)
	couponGroup.Get("/", cfg.Coupons.List)
	couponGroup.Get("/:id", cfg.Coupons.Get)
	couponGroup.Put("/:id", cfg.Coupons.Update)
	couponGroup.Delete("/:id", cfg.Coupons.Delete)

	newsletterGroup := app.Group("/newsletter")
	newsletterGroup.Post("/subscribe", cfg.Newsletter.Subscribe)
	newsletterGroup.Post("/verify", cfg.Newsletter.Verify)
	newsletterGroup.Post("/unsubscribe", cfg.Newsletter.Unsubscribe)

	if len(cfg.Realtime) > 0 {
		app.Get("/ws", cfg.Realtime...)
	}
}
