package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/beatsync/beatsync-api/internal/api/handlers"
	apimiddleware "github.com/beatsync/beatsync-api/internal/api/middleware"
	"github.com/beatsync/beatsync-api/internal/config"
	"github.com/beatsync/beatsync-api/internal/services"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, chartService *services.ChartService, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Health check
	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.HealthCheck)

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": version})
	})

	// API routes v1
	v1 := router.Group("/api/v1")
	{
		chartsHandler := handlers.NewChartsHandler(chartService)
		v1.GET("/difficulties", chartsHandler.ListDifficulties)
		v1.POST("/charts/generate", chartsHandler.Generate)
		v1.GET("/charts/:id", chartsHandler.Get)
	}

	return router
}
