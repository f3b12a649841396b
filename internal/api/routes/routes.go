package routes

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"job-hunt-agent/internal/api/handlers"
	"job-hunt-agent/internal/api/middleware"
	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/logging/types"
	"job-hunt-agent/internal/scraper"
	"job-hunt-agent/internal/scraper/engines/firecrawl"
	"job-hunt-agent/internal/session"
)

// Dependencies are the services the routes are wired to
type Dependencies struct {
	Config     *config.Config
	Registry   *session.Registry
	Previewers handlers.PreviewerFactory
	Logger     types.Logger
}

// FirecrawlPreviewers returns the default previewer factory
func FirecrawlPreviewers(cfg *config.Config, logger types.Logger) handlers.PreviewerFactory {
	return func(apiKey string) (scraper.Previewer, error) {
		previewer, err := firecrawl.NewFirecrawlPreviewer(cfg, apiKey, logger)
		if err != nil {
			return nil, err
		}
		return previewer, nil
	}
}

// SetupRoutes configures the UI, API and health routes
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	cfg := deps.Config
	registry := deps.Registry

	previewers := deps.Previewers
	if previewers == nil {
		previewers = FirecrawlPreviewers(cfg, deps.Logger)
	}

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestValidation())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(middleware.CORSConfig())
	e.Use(middleware.TimeoutConfig(cfg.Server.RequestTimeout))

	searchMiddleware := []echo.MiddlewareFunc{}
	if cfg.RateLimit.Enabled {
		searchMiddleware = append(searchMiddleware, middleware.NewRateLimiter(cfg, registry, deps.Logger).Middleware())
	}

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(registry))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Web UI
	e.GET("/", handlers.IndexHandler(cfg, registry))
	e.POST("/session", handlers.SaveCredentialsFormHandler(cfg, registry))
	e.POST("/search", handlers.SearchFormHandler(cfg, registry), searchMiddleware...)

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		sessions := v1.Group("/session")
		{
			sessions.PUT("", handlers.SaveSessionHandler(cfg, registry))
			sessions.GET("", handlers.GetSessionHandler(cfg, registry))
			sessions.DELETE("", handlers.DeleteSessionHandler(cfg, registry))
		}

		v1.POST("/search", handlers.SearchHandler(cfg, registry), searchMiddleware...)
		v1.POST("/jobs/search", handlers.JobSearchHandler(cfg, registry), searchMiddleware...)
		v1.POST("/industry/trends", handlers.IndustryTrendsHandler(cfg, registry), searchMiddleware...)

		v1.GET("/categories", handlers.CategoriesHandler)

		sources := v1.Group("/sources")
		{
			sources.POST("", handlers.SourcesHandler())
			sources.POST("/preview", handlers.PreviewHandler(cfg, registry, previewers), searchMiddleware...)
		}
	}
}
