package models

import "github.com/beatsync/beatsync-api/internal/chart"

// Generation strategies
const (
	StrategyAlgorithmic = "algorithmic"
	StrategyLLM         = "llm"
)

// GenerateChartRequest is the POST body for chart generation. The analysis
// is the feature extractor's output, produced upstream; this service never
// touches audio.
type GenerateChartRequest struct {
	Difficulty string          `json:"difficulty" binding:"required"`
	Strategy   string          `json:"strategy"` // "algorithmic" (default) or "llm"
	Model      string          `json:"model"`    // LLM model override, llm strategy only
	Analysis   *chart.Analysis `json:"analysis" binding:"required"`
}

// GenerateChartResponse wraps the exported chart for clients
type GenerateChartResponse struct {
	ID       string        `json:"id,omitempty"` // Set when the chart was persisted
	Strategy string        `json:"strategy"`
	Chart    *chart.Export `json:"chart"`
}

// DifficultyInfo describes one difficulty preset for clients
type DifficultyInfo struct {
	Name        string  `json:"name"`
	MinDensity  float64 `json:"min_density"`
	MaxDensity  float64 `json:"max_density"`
	AllowHolds  bool    `json:"allow_holds"`
	AllowJumps  bool    `json:"allow_jumps"`
	Description string  `json:"description"`
}
