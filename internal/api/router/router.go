package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/denisAlshanov/stickerGallery/internal/api/handlers"
	"github.com/denisAlshanov/stickerGallery/internal/api/middleware"
	"github.com/denisAlshanov/stickerGallery/internal/config"
	"github.com/denisAlshanov/stickerGallery/internal/services/auth"
)

type Router struct {
	engine *gin.Engine
	config *config.Config
	server *http.Server
}

func NewRouter(cfg *config.Config, galleryHandler *handlers.GalleryHandler, adminHandler *handlers.AdminHandler, healthHandler *handlers.HealthHandler, jwtService *auth.JWTService) *Router {
	// Set Gin mode
	if cfg.Server.Host == "0.0.0.0" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.CorrelationIDMiddleware())
	engine.Use(middleware.MetricsMiddleware())

	engine.SetHTMLTemplate(handlers.GalleryTemplate())

	// Health endpoints
	health := engine.Group("/")
	{
		health.GET("/health", healthHandler.Health)
		health.GET("/ready", healthHandler.Readiness)
		health.GET("/live", healthHandler.Liveness)
	}

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// One submission budget per client across the form and the JSON API
	submitLimit := middleware.RateLimitMiddleware(&cfg.API)

	// HTML gallery
	engine.GET("/", galleryHandler.Index)
	engine.GET(handlers.PlaceholderPath, galleryHandler.Placeholder)
	engine.POST("/submit", submitLimit, galleryHandler.SubmitForm)

	api := engine.Group("/api/v1")
	{
		packs := api.Group("/packs")
		{
			packs.GET("", galleryHandler.ListPacks)                 // /api/v1/packs
			packs.POST("", submitLimit, galleryHandler.CreatePack) // /api/v1/packs
			packs.GET("/:id", galleryHandler.GetPack)               // /api/v1/packs/{id}
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware(jwtService))
		{
			admin.POST("/packs/:id/refresh", adminHandler.RefreshPack) // /api/v1/admin/packs/{id}/refresh
			admin.POST("/backfill", adminHandler.StartBackfill)        // /api/v1/admin/backfill
		}
	}

	return &Router{
		engine: engine,
		config: cfg,
		server: &http.Server{
			Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
			Handler: engine,
		},
	}
}

// Start serves until Shutdown is called.
func (r *Router) Start() error {
	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *Router) Shutdown(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
