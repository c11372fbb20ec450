package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatsync/beatsync-api/internal/chart"
	"github.com/beatsync/beatsync-api/internal/config"
	"github.com/beatsync/beatsync-api/internal/models"
	"github.com/beatsync/beatsync-api/internal/services"
)

func setupChartsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Environment: "test", LLMModel: "gpt-5-mini"}
	service := services.NewChartService(cfg, nil, nil)
	h := NewChartsHandler(service)

	router := gin.New()
	router.GET("/api/v1/difficulties", h.ListDifficulties)
	router.POST("/api/v1/charts/generate", h.Generate)
	router.GET("/api/v1/charts/:id", h.Get)
	return router
}

func generationAnalysis() *chart.Analysis {
	var beats []chart.Beat
	for i := 0; i < 60; i++ {
		beatType := chart.BeatOffbeat
		switch i % 4 {
		case 0:
			beatType = chart.BeatDownbeat
		case 2:
			beatType = chart.BeatUpbeat
		}
		beats = append(beats, chart.Beat{
			Time: float64(i) * 0.5, Strength: 0.6, BeatType: beatType,
		})
	}

	return &chart.Analysis{
		Tempo: 120,
		Beats: beats,
		EnergySections: []chart.EnergySection{
			{StartTime: 0, EndTime: 30, EnergyLevel: 0.6, Intensity: chart.IntensityMedium},
		},
		Structure: chart.SongStructure{TotalDuration: 30},
	}
}

func TestListDifficulties(t *testing.T) {
	router := setupChartsRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/difficulties", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Difficulties []models.DifficultyInfo `json:"difficulties"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Difficulties, 3)

	var names []string
	for _, d := range body.Difficulties {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"beginner", "expert", "intermediate"}, names)
}

func TestGenerateChart(t *testing.T) {
	router := setupChartsRouter(t)

	payload, err := json.Marshal(models.GenerateChartRequest{
		Difficulty: "intermediate",
		Analysis:   generationAnalysis(),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/charts/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.GenerateChartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StrategyAlgorithmic, resp.Strategy)
	require.NotNil(t, resp.Chart)
	assert.Equal(t, "intermediate", resp.Chart.Difficulty)
	assert.NotEmpty(t, resp.Chart.Steps)
}

func TestGenerateChartBadRequests(t *testing.T) {
	router := setupChartsRouter(t)

	analysisJSON, err := json.Marshal(generationAnalysis())
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
	}{
		{
			name: "empty body",
			body: "",
		},
		{
			name: "missing analysis",
			body: `{"difficulty": "beginner"}`,
		},
		{
			name: "unknown difficulty",
			body: fmt.Sprintf(`{"difficulty": "impossible", "analysis": %s}`, analysisJSON),
		},
		{
			name: "invalid strategy",
			body: fmt.Sprintf(`{"difficulty": "beginner", "strategy": "oracle", "analysis": %s}`, analysisJSON),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/charts/generate", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetChart(t *testing.T) {
	router := setupChartsRouter(t)

	t.Run("invalid id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/charts/not-a-uuid", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found without persistence", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/charts/7a2b3c4d-5e6f-4a1b-8c9d-0e1f2a3b4c5d", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
