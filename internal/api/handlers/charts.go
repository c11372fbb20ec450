package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beatsync/beatsync-api/internal/chart"
	"github.com/beatsync/beatsync-api/internal/logger"
	"github.com/beatsync/beatsync-api/internal/models"
	"github.com/beatsync/beatsync-api/internal/services"
)

// ChartsHandler serves chart generation and retrieval
type ChartsHandler struct {
	service *services.ChartService
}

// NewChartsHandler creates a charts handler
func NewChartsHandler(service *services.ChartService) *ChartsHandler {
	return &ChartsHandler{service: service}
}

// Generate handles POST /api/v1/charts/generate
func (h *ChartsHandler) Generate(c *gin.Context) {
	var req models.GenerateChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := chart.GetDifficultyConfig(req.Difficulty); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Strategy != "" && req.Strategy != models.StrategyAlgorithmic && req.Strategy != models.StrategyLLM {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid strategy, allowed: algorithmic, llm",
		})
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), &req, c.GetString("request_id"))
	if err != nil {
		logger.Error("Chart generation failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chart generation failed"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/v1/charts/:id
func (h *ChartsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chart id"})
		return
	}

	export, record, err := h.service.GetChart(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chart not found"})
			return
		}
		logger.Error("Failed to load chart", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chart"})
		return
	}

	c.JSON(http.StatusOK, models.GenerateChartResponse{
		ID:       record.ID.String(),
		Strategy: record.Strategy,
		Chart:    export,
	})
}

// ListDifficulties handles GET /api/v1/difficulties
func (h *ChartsHandler) ListDifficulties(c *gin.Context) {
	descriptions := map[string]string{
		"beginner":     "Sparse downbeat steps, single arrows only",
		"intermediate": "All beat types with jumps, holds and crossovers",
		"expert":       "Dense 16th-note patterns with streams and long holds",
	}

	var infos []models.DifficultyInfo
	for _, name := range chart.DifficultyNames() {
		cfg, err := chart.GetDifficultyConfig(name)
		if err != nil {
			continue
		}
		infos = append(infos, models.DifficultyInfo{
			Name:        cfg.Name,
			MinDensity:  cfg.MinDensity,
			MaxDensity:  cfg.MaxDensity,
			AllowHolds:  cfg.AllowHolds,
			AllowJumps:  cfg.AllowDoubles,
			Description: descriptions[name],
		})
	}

	c.JSON(http.StatusOK, gin.H{"difficulties": infos})
}
