package llm

const (
	holdDurationMin = 0.01
	maxLanes        = 4
)

// GetChartOutputSchema returns the JSON schema for chart output. The shape
// mirrors the exported chart record so LLM and algorithmic charts serialize
// identically.
func GetChartOutputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"steps": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"time": map[string]any{"type": "number", "minimum": 0},
						"arrows": map[string]any{
							"type":     "array",
							"minItems": 1,
							"maxItems": maxLanes,
							"items": map[string]any{
								"type": "string",
								"enum": []string{"left", "down", "up", "right"},
							},
						},
						"type": map[string]any{
							"type": "string",
							"enum": []string{"tap", "hold"},
						},
						"hold_duration": map[string]any{"type": "number", "minimum": holdDurationMin},
					},
					"required":             []string{"time", "arrows", "type"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"steps"},
		"additionalProperties": false,
	}
}
