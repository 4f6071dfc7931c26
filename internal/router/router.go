package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/liuwy-dev/tuimian-go-api/internal/config"
	"github.com/liuwy-dev/tuimian-go-api/internal/handler"
	"github.com/liuwy-dev/tuimian-go-api/internal/middleware"
	"github.com/liuwy-dev/tuimian-go-api/internal/models"
	"github.com/liuwy-dev/tuimian-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AchievementHandler    *handler.AchievementHandler
	ReviewHandler         *handler.ReviewHandler
	EligibilityHandler    *handler.EligibilityHandler
	AcademicRecordHandler *handler.AcademicRecordHandler
	ApplicationHandler    *handler.ApplicationHandler
	CatalogHandler        *handler.CatalogHandler
	RankingHandler        *handler.RankingHandler
	UploadHandler         *handler.UploadHandler
	PDFImportHandler      *handler.PDFImportHandler
	JWTMiddleware         fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Catalog is readable by any authenticated account.
	if deps.CatalogHandler != nil {
		deps.CatalogHandler.Register(api.Group("/catalog", jwtMiddleware))
	}

	// Student surface.
	if deps.AchievementHandler != nil {
		deps.AchievementHandler.Register(api.Group("/achievements", jwtMiddleware, middleware.RequireRole(models.RoleStudent)))
	}
	if deps.EligibilityHandler != nil {
		deps.EligibilityHandler.Register(api.Group("/eligibility", jwtMiddleware, middleware.RequireRole(models.RoleStudent)))
	}
	if deps.AcademicRecordHandler != nil {
		deps.AcademicRecordHandler.Register(api.Group("/academic-record", jwtMiddleware, middleware.RequireRole(models.RoleStudent)))
	}
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.Register(api.Group("/application", jwtMiddleware, middleware.RequireRole(models.RoleStudent)))
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.Register(api.Group("/uploads", jwtMiddleware, middleware.RequireRole(models.RoleStudent)))
	}
	if deps.PDFImportHandler != nil {
		deps.PDFImportHandler.Register(api.Group("/pdf-import", jwtMiddleware, middleware.RequireRole(models.RoleStudent)))
	}

	// Reviewer surface.
	if deps.ReviewHandler != nil {
		deps.ReviewHandler.Register(api.Group("/reviews", jwtMiddleware, middleware.RequireRole(models.RoleReviewer)))
	}
	if deps.RankingHandler != nil {
		deps.RankingHandler.Register(api.Group("/ranking", jwtMiddleware, middleware.RequireRole(models.RoleReviewer)))
	}
}
