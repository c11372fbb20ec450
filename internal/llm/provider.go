package llm

import (
	"context"

	"github.com/beatsync/beatsync-api/internal/chart"
)

// Provider defines the interface for LLM providers
// All providers MUST support structured output (JSON Schema) so the chart
// response parses reliably.
type Provider interface {
	// Generate produces a chart step list from the analysis prompt with
	// structured output enforced by OutputSchema.
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// GenerationRequest contains all parameters needed for generation
type GenerationRequest struct {
	Model         string
	InputArray    []map[string]any
	ReasoningMode string
	SystemPrompt  string
	// Structured output schema - REQUIRED for reliable JSON parsing
	OutputSchema *OutputSchema
}

// OutputSchema defines the expected JSON output structure
type OutputSchema struct {
	Name        string
	Description string
	Schema      map[string]any // JSON Schema object
}

// ChartOutput is the parsed structured output of a chart generation
type ChartOutput struct {
	Steps []chart.StepExport `json:"steps"`
}

// GenerationResponse contains the result from the LLM
type GenerationResponse struct {
	OutputParsed ChartOutput `json:"output_parsed"`
	RawOutput    string      `json:"-"` // Raw JSON text output
	Usage        any         `json:"usage"`
}
