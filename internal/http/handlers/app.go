package handlers

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"wedsnap/internal/config"
	applog "wedsnap/internal/log"
	"wedsnap/web"
)

const csrfHeader = "X-Csrf-Token"

// NewApp builds the Fiber app with middleware and all routes.
func NewApp(cfg config.Config, d *Deps) *fiber.App {
	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")
	engine.AddFunc("has", func(list []string, s string) bool { return slices.Contains(list, s) })

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: ErrorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	perMin := cfg.RateLimitPerMin
	if perMin <= 0 {
		perMin = 60
	}

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	if !cfg.IsProduction() {
		app.Use(logger.New())
	}
	app.Use(helmet.New())
	app.Use(AttachUser(d.Auth))
	app.Use(limiter.New(limiter.Config{
		Max:        perMin,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return fail(c, fiber.StatusTooManyRequests, "rate limit exceeded, retry soon")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:" + csrfHeader,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ContextKey:     "csrf",
		// quoting changes no state
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodPost && c.Path() == "/api/v1/estimate"
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"header": c.Get(csrfHeader) != ""})
			return fail(c, fiber.StatusForbidden, "Security check failed. Please refresh and try again.")
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- Routes ----------
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/calculator/:sellerId", d.PageHandler.Calculator)

	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return fail(c, fiber.StatusTooManyRequests, "Too many attempts. Please try again later.")
		},
	}), d.AuthHandler.Login)
	app.Post("/logout", d.AuthHandler.Logout)

	api := app.Group("/api/v1")
	api.Get("/me", RequireUser(), d.AuthHandler.Me)
	api.Get("/catalog", d.EstimateHandler.Catalog)
	api.Post("/estimate", limiter.New(limiter.Config{
		Max:        30,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|estimate"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.estimate.hit", nil)
			return fail(c, fiber.StatusTooManyRequests, "rate limit exceeded, retry soon")
		},
	}), d.EstimateHandler.Estimate)
	api.Get("/sellers/:id/settings", d.SettingsHandler.Show)
	api.Get("/gigs", d.GigHandler.Search)
	api.Get("/gigs/:id", d.GigHandler.Detail)

	api.Post("/bookings", d.BookingHandler.Place)
	api.Get("/bookings", d.BookingHandler.History)
	api.Get("/bookings/:id", d.BookingHandler.View)
	api.Post("/bookings/:id/cancel", d.BookingHandler.Cancel)

	seller := api.Group("/seller", RequireSeller())
	seller.Put("/settings", d.SettingsHandler.Update)
	seller.Get("/gigs", d.GigHandler.Mine)
	seller.Post("/gigs", d.GigHandler.Create)
	seller.Get("/bookings", d.BookingHandler.Inbox)
	seller.Post("/bookings/:id/status", d.BookingHandler.Decide)

	admin := api.Group("/admin", RequireAdmin())
	admin.Get("/bookings", d.AdminHandler.ListBookings)
	admin.Get("/users", d.AdminHandler.ListUsers)
	admin.Post("/users/:id/delete", d.AdminHandler.DeleteUser)

	// 404
	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return fail(c, fiber.StatusNotFound, "not found")
		}
		return notFoundPage(c, "Page not found")
	})
	return app
}
