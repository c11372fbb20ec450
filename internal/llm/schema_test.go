package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetChartOutputSchema(t *testing.T) {
	schema := GetChartOutputSchema()

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"steps"}, schema["required"])
	assert.Equal(t, false, schema["additionalProperties"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	steps, ok := props["steps"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "array", steps["type"])

	items, ok := steps["items"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"time", "arrows", "type"}, items["required"])

	itemProps, ok := items["properties"].(map[string]any)
	require.True(t, ok)

	arrows, ok := itemProps["arrows"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, arrows["minItems"])
	assert.Equal(t, 4, arrows["maxItems"])

	lanes, ok := arrows["items"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"left", "down", "up", "right"}, lanes["enum"])

	stepType, ok := itemProps["type"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"tap", "hold"}, stepType["enum"])
}
