package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beatsync/beatsync-api/internal/chart"
	"github.com/beatsync/beatsync-api/internal/config"
	"github.com/beatsync/beatsync-api/internal/engine"
	"github.com/beatsync/beatsync-api/internal/llm"
	"github.com/beatsync/beatsync-api/internal/logger"
	"github.com/beatsync/beatsync-api/internal/metrics"
	"github.com/beatsync/beatsync-api/internal/models"
)

const chartSystemPrompt = `You are a rhythm game chart designer. Given a song analysis ` +
	`(beats, energy sections, drum hits, melody notes), produce a playable four-lane ` +
	`step chart. Steps must be sorted by time, use one to four of the lanes ` +
	`left/down/up/right, and respect the requested difficulty's pacing. Holds carry a ` +
	`positive hold_duration; taps omit it.`

// ChartService generates charts and optionally persists them. The db may be
// nil; persistence is then skipped and GetChart returns not-found.
type ChartService struct {
	cfg        *config.Config
	db         *gorm.DB
	factory    *llm.ProviderFactory
	sentry     *metrics.SentryMetrics
	cloudwatch *metrics.Client
}

// NewChartService creates the chart generation service
func NewChartService(cfg *config.Config, db *gorm.DB, cloudwatch *metrics.Client) *ChartService {
	return &ChartService{
		cfg:        cfg,
		db:         db,
		factory:    llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey),
		sentry:     metrics.NewSentryMetrics(),
		cloudwatch: cloudwatch,
	}
}

// Generate runs one chart generation request end to end: strategy selection,
// generation, export, optional persistence. The LLM strategy falls back to
// the algorithmic pipeline when the provider fails.
func (s *ChartService) Generate(ctx context.Context, req *models.GenerateChartRequest, requestID string) (*models.GenerateChartResponse, error) {
	startTime := time.Now()

	if _, err := chart.GetDifficultyConfig(req.Difficulty); err != nil {
		return nil, err
	}
	if req.Analysis == nil {
		return nil, fmt.Errorf("analysis is required")
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = models.StrategyAlgorithmic
		if s.cfg.UseAIGeneration {
			strategy = models.StrategyLLM
		}
	}

	var generated *chart.Chart
	var err error

	if strategy == models.StrategyLLM {
		generated, err = s.generateWithLLM(ctx, req)
		if err != nil {
			logger.Warn("LLM chart generation failed, falling back to algorithmic", logger.Fields{
				"request_id": requestID,
				"difficulty": req.Difficulty,
				"error":      err.Error(),
			})
			strategy = models.StrategyAlgorithmic
			generated = nil
		}
	}

	if generated == nil {
		generator, genErr := engine.NewForDifficulty(req.Difficulty)
		if genErr != nil {
			return nil, genErr
		}
		generated, err = generator.Generate(req.Analysis)
		if err != nil {
			return nil, err
		}
	}

	export := generated.Export()
	duration := time.Since(startTime)

	logger.LogChartGeneration(req.Difficulty, strategy, len(export.Steps), duration, logger.Fields{
		"request_id": requestID,
	})
	s.sentry.RecordChartGeneration(ctx, req.Difficulty, strategy, len(export.Steps), duration)
	if s.cloudwatch != nil {
		s.cloudwatch.RecordChartGeneration(req.Difficulty, strategy, len(export.Steps), duration)
	}

	resp := &models.GenerateChartResponse{
		Strategy: strategy,
		Chart:    export,
	}

	if s.db != nil {
		record, saveErr := s.saveChart(export, strategy)
		if saveErr != nil {
			logger.Error("Failed to persist chart", saveErr, logger.Fields{
				"request_id": requestID,
				"difficulty": req.Difficulty,
			})
		} else {
			resp.ID = record.ID.String()
		}
	}

	return resp, nil
}

// GetChart loads a persisted chart's exported record by ID
func (s *ChartService) GetChart(id uuid.UUID) (*chart.Export, *models.ChartRecord, error) {
	if s.db == nil {
		return nil, nil, gorm.ErrRecordNotFound
	}

	var record models.ChartRecord
	if err := s.db.First(&record, "id = ?", id).Error; err != nil {
		return nil, nil, err
	}

	var export chart.Export
	if err := json.Unmarshal(record.Payload, &export); err != nil {
		return nil, nil, fmt.Errorf("failed to decode stored chart %s: %w", id, err)
	}
	return &export, &record, nil
}

func (s *ChartService) saveChart(export *chart.Export, strategy string) (*models.ChartRecord, error) {
	payload, err := json.Marshal(export)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}

	record := &models.ChartRecord{
		Difficulty: export.Difficulty,
		Strategy:   strategy,
		Tempo:      export.Tempo,
		Duration:   export.Duration,
		StepCount:  export.Stats.TotalSteps,
		Payload:    payload,
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// generateWithLLM asks an LLM provider for a step list and normalizes it
// through the same validation pass as the algorithmic pipeline.
func (s *ChartService) generateWithLLM(ctx context.Context, req *models.GenerateChartRequest) (*chart.Chart, error) {
	model := req.Model
	if model == "" {
		model = s.cfg.LLMModel
	}

	provider, err := s.factory.GetProvider(ctx, model, "")
	if err != nil {
		return nil, err
	}

	analysisJSON, err := json.Marshal(req.Analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}

	resp, err := provider.Generate(ctx, &llm.GenerationRequest{
		Model:        model,
		SystemPrompt: chartSystemPrompt,
		InputArray: []map[string]any{
			{
				"role": "user",
				"content": fmt.Sprintf("Difficulty: %s\nSong analysis:\n%s",
					req.Difficulty, string(analysisJSON)),
			},
		},
		OutputSchema: &llm.OutputSchema{
			Name:        "chart_steps",
			Description: "Four-lane rhythm game step chart",
			Schema:      llm.GetChartOutputSchema(),
		},
	})
	if err != nil {
		return nil, err
	}

	steps, err := stepsFromExports(resp.OutputParsed.Steps)
	if err != nil {
		return nil, err
	}

	cfg, err := chart.GetDifficultyConfig(req.Difficulty)
	if err != nil {
		return nil, err
	}

	return &chart.Chart{
		Steps:      engine.Normalize(steps, cfg),
		Difficulty: req.Difficulty,
		Tempo:      req.Analysis.Tempo,
		Duration:   req.Analysis.Structure.TotalDuration,
	}, nil
}

// stepsFromExports converts wire-format steps back to engine steps
func stepsFromExports(exports []chart.StepExport) ([]chart.Step, error) {
	valid := map[string]chart.Direction{
		"left":  chart.Left,
		"down":  chart.Down,
		"up":    chart.Up,
		"right": chart.Right,
	}

	var steps []chart.Step
	for i, se := range exports {
		var arrows []chart.Direction
		for _, a := range se.Arrows {
			dir, ok := valid[a]
			if !ok {
				return nil, fmt.Errorf("step %d has unknown lane %q", i, a)
			}
			arrows = append(arrows, dir)
		}
		if len(arrows) == 0 {
			continue
		}

		switch se.Type {
		case string(chart.Hold):
			if se.HoldDuration == nil || *se.HoldDuration <= 0 {
				// A hold without a duration degrades to a tap.
				steps = append(steps, chart.NewTap(se.Time, arrows...))
				continue
			}
			hold, err := chart.NewHold(se.Time, arrows[0], *se.HoldDuration)
			if err != nil {
				return nil, err
			}
			steps = append(steps, hold)
		default:
			steps = append(steps, chart.NewTap(se.Time, arrows...))
		}
	}
	return steps, nil
}
