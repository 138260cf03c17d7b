package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Health     *handlers.HealthHandler
	Moderation *handlers.ModerationHandler
	Legal      *handlers.LegalHandler
	Admin      *handlers.AdminHandler
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers, plugins []apps.Plugin) {
	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)
	api.Get("/legal/privacy", h.Legal.PrivacyPolicy)
	api.Get("/legal/terms", h.Legal.TermsOfService)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	// Protected routes - apply middleware to individual routes so the
	// public auth group above stays reachable without a token.
	authed := []fiber.Handler{middleware.JWTProtected(cfg), middleware.LoadSession(db)}
	api.Post("/auth/logout", append(authed, h.Auth.Logout)...)
	api.Get("/auth/me", append(authed, h.Auth.Me)...)
	api.Delete("/auth/account", append(authed, h.Auth.DeleteAccount)...)

	api.Post("/reports", append(authed, h.Moderation.CreateReport)...)
	api.Get("/blocks", append(authed, h.Moderation.ListBlocks)...)
	api.Post("/blocks", append(authed, h.Moderation.BlockUser)...)
	api.Delete("/blocks/:id", append(authed, h.Moderation.UnblockUser)...)

	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.LoadSession(db), middleware.AdminRequired(cfg))
	admin.Get("/users", h.Admin.ListUsers)
	admin.Get("/stats", h.Admin.Stats)
	admin.Get("/moderation/reports", h.Moderation.ListReports)
	admin.Put("/moderation/reports/:id", h.Moderation.ActionReport)

	ws := api.Group("/ws")
	protected := api.Group("/p", middleware.JWTProtected(cfg), middleware.LoadSession(db))
	for _, p := range plugins {
		p.RegisterRoutes(protected, db, cfg)
		if ap, ok := p.(apps.AdminPlugin); ok {
			ap.RegisterAdminRoutes(admin, db, cfg)
		}
		if sp, ok := p.(apps.StreamPlugin); ok {
			sp.RegisterStream(ws, db, cfg)
		}
	}
}
