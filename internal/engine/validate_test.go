package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatsync/beatsync-api/internal/chart"
)

func TestValidateStepsDropsDuplicates(t *testing.T) {
	cfg, err := chart.GetDifficultyConfig("expert")
	require.NoError(t, err)

	steps := []chart.Step{
		chart.NewTap(1.0, chart.Left),
		chart.NewTap(1.005, chart.Right),
		chart.NewTap(2.0, chart.Up),
	}

	validated := validateSteps(steps, cfg)
	require.Len(t, validated, 2)
	assert.Equal(t, 1.0, validated[0].Time)
	assert.Equal(t, 2.0, validated[1].Time)
}

func TestValidateStepsEnforcesMinGap(t *testing.T) {
	tests := []struct {
		name       string
		difficulty string
		times      []float64
		wantKept   []float64
	}{
		{
			name:       "intermediate drops 0.1s gap",
			difficulty: "intermediate",
			times:      []float64{1.0, 1.1, 1.5},
			wantKept:   []float64{1.0, 1.5},
		},
		{
			name:       "expert keeps 0.1s gap",
			difficulty: "expert",
			times:      []float64{1.0, 1.1, 1.5},
			wantKept:   []float64{1.0, 1.1, 1.5},
		},
		{
			name:       "beginner drops everything under 0.35s",
			difficulty: "beginner",
			times:      []float64{1.0, 1.25, 1.5, 2.0},
			wantKept:   []float64{1.0, 1.5, 2.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := chart.GetDifficultyConfig(tt.difficulty)
			require.NoError(t, err)

			var steps []chart.Step
			for _, tm := range tt.times {
				steps = append(steps, chart.NewTap(tm, chart.Left))
			}

			validated := validateSteps(steps, cfg)
			var kept []float64
			for _, s := range validated {
				kept = append(kept, s.Time)
			}
			assert.Equal(t, tt.wantKept, kept)
		})
	}
}

func TestValidateStepsCapsArrows(t *testing.T) {
	cfg, err := chart.GetDifficultyConfig("expert")
	require.NoError(t, err)

	oversized := chart.Step{
		Time:   1.0,
		Arrows: []chart.Direction{chart.Left, chart.Down, chart.Up, chart.Right, chart.Left},
		Type:   chart.Tap,
	}

	validated := validateSteps([]chart.Step{oversized}, cfg)
	require.Len(t, validated, 1)
	assert.Len(t, validated[0].Arrows, 4)
	// The input step is untouched.
	assert.Len(t, oversized.Arrows, 5)
}

func TestValidateStepsBeginnerSingleArrow(t *testing.T) {
	cfg, err := chart.GetDifficultyConfig("beginner")
	require.NoError(t, err)

	steps := []chart.Step{chart.NewTap(1.0, chart.Left, chart.Right)}
	validated := validateSteps(steps, cfg)
	require.Len(t, validated, 1)
	assert.Equal(t, []chart.Direction{chart.Left}, validated[0].Arrows)
}

func TestValidateStepsRepairsHolds(t *testing.T) {
	cfg, err := chart.GetDifficultyConfig("intermediate")
	require.NoError(t, err)

	short, err := chart.NewHold(1.0, chart.Up, 0.3)
	require.NoError(t, err)
	long, err := chart.NewHold(3.0, chart.Down, 5.0)
	require.NoError(t, err)

	validated := validateSteps([]chart.Step{short, long}, cfg)
	require.Len(t, validated, 2)

	assert.Equal(t, chart.Tap, validated[0].Type)
	assert.Equal(t, 0.0, validated[0].HoldDuration)

	assert.Equal(t, chart.Hold, validated[1].Type)
	assert.Equal(t, cfg.MaxHoldDuration, validated[1].HoldDuration)
}

func TestValidateStepsDropsEmptyArrows(t *testing.T) {
	cfg, err := chart.GetDifficultyConfig("expert")
	require.NoError(t, err)

	steps := []chart.Step{{Time: 1.0, Type: chart.Tap}}
	assert.Empty(t, validateSteps(steps, cfg))
}
