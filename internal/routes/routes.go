package routes

import (
	"time"

	"github.com/feriahub/feria-backend/internal/config"
	"github.com/feriahub/feria-backend/internal/handlers"
	"github.com/feriahub/feria-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	publicationHandler *handlers.PublicationHandler,
	moderationHandler *handlers.ModerationHandler,
	appealHandler *handlers.AppealHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (public)
	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Publications — sellers (protected)
	api.Post("/publications", middleware.JWTProtected(cfg), publicationHandler.CreatePublication)
	api.Get("/publications/mine", middleware.JWTProtected(cfg), publicationHandler.ListMyPublications)
	api.Get("/publications/:id", publicationHandler.GetPublication)

	// Reporting and appeals — any authenticated user / the publication owner
	api.Post("/reports", middleware.JWTProtected(cfg), moderationHandler.CreateReport)
	api.Post("/incidences/:id/appeal", middleware.JWTProtected(cfg), appealHandler.FileAppeal)

	// Moderator panel (protected + moderator role)
	moderation := api.Group("/moderation", middleware.JWTProtected(cfg), middleware.ModeratorRequired(db, cfg))
	moderation.Get("/incidences", moderationHandler.ListIncidences)
	moderation.Get("/incidences/:id", moderationHandler.GetIncidence)
	moderation.Post("/incidences/:id/claim", moderationHandler.ClaimIncidence)
	moderation.Post("/incidences/:id/decision", moderationHandler.DecideIncidence)
	moderation.Get("/appeals", appealHandler.ListAppeals)
	moderation.Put("/appeals/:id/decision", appealHandler.DecideAppeal)

	// Admin (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/moderation/workloads", moderationHandler.Workloads)
	admin.Post("/moderators/:id/release", moderationHandler.ReleaseModerator)
}
