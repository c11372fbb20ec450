package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports service health
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a health handler; db may be nil when persistence
// is disabled.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "disabled"
	if h.db != nil {
		dbStatus = "connected"
		if sqlDB, err := h.db.DB(); err != nil {
			dbStatus = "error"
		} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			dbStatus = "error"
		}
	}

	status := http.StatusOK
	if dbStatus == "error" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status": "healthy",
		"database": gin.H{
			"status": dbStatus,
		},
	})
}
