// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"docpress/internal/domain/document"
	"docpress/internal/infrastructure/http/v1/handlers"
	"docpress/internal/infrastructure/http/v1/middleware"
	"docpress/internal/render"
	"docpress/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Pool is the optional Postgres pool, used by readiness checks.
	Pool *pgxpool.Pool

	// DocumentService drives the document lifecycle.
	DocumentService *document.Service

	// Renderer produces PDF artifacts.
	Renderer *render.Renderer

	// TaxPolicy is the server-wide default applied to drafts.
	TaxPolicy document.TaxPolicy
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	docHandler := handlers.NewDocumentHandler(cfg.DocumentService, cfg.TaxPolicy)
	renderHandler := handlers.NewRenderHandler(cfg.DocumentService, cfg.Renderer)

	api := router.Group("/api/v1")
	{
		docs := api.Group("/documents")
		{
			docs.POST("", docHandler.Create)
			docs.GET("", docHandler.List)
			docs.GET("/:id", docHandler.Get)
			docs.PUT("/:id", docHandler.Update)
			docs.POST("/:id/finalize", docHandler.Finalize)
			docs.POST("/:id/convert", docHandler.Convert)
			docs.POST("/:id/render", renderHandler.Render)
		}

		api.GET("/sequences/:type/peek", docHandler.PeekNumber)
	}

	return router
}
