package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatsync/beatsync-api/internal/chart"
)

func intermediateConfig(t *testing.T) chart.DifficultyConfig {
	t.Helper()
	cfg, err := chart.GetDifficultyConfig("intermediate")
	require.NoError(t, err)
	return cfg
}

func TestPlaceHoldsAnchorsOnNearestCandidate(t *testing.T) {
	cfg := intermediateConfig(t)

	notes := []chart.SustainedNote{{StartTime: 2.0, EndTime: 2.9, Pitch: 58, Confidence: 0.9}}
	cands := []chart.StepCandidate{
		{Time: 2.02, Source: chart.SourceKick, Priority: 10},
		{Time: 4.0, Source: chart.SourceKick, Priority: 10},
		{Time: 5.0, Source: chart.SourceKick, Priority: 10},
		{Time: 6.0, Source: chart.SourceKick, Priority: 10},
		{Time: 7.0, Source: chart.SourceKick, Priority: 10},
	}

	holds := placeHolds(notes, cands, cfg)
	require.Len(t, holds, 1)

	hold := holds[0]
	assert.Equal(t, 2.02, hold.Time)
	assert.Equal(t, []chart.Direction{chart.Down}, hold.Arrows)
	assert.Equal(t, chart.Hold, hold.Type)
	assert.InDelta(t, 0.88, hold.HoldDuration, 1e-9)
}

func TestPlaceHoldsSkipsOutOfBoundsDurations(t *testing.T) {
	cfg := intermediateConfig(t)
	cands := []chart.StepCandidate{{Time: 2.0}}

	tests := []struct {
		name string
		note chart.SustainedNote
	}{
		{name: "too short", note: chart.SustainedNote{StartTime: 2.0, EndTime: 2.3, Pitch: 60}},
		{name: "too long", note: chart.SustainedNote{StartTime: 2.0, EndTime: 5.5, Pitch: 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, placeHolds([]chart.SustainedNote{tt.note}, cands, cfg))
		})
	}
}

func TestPlaceHoldsSkipsDistantAnchors(t *testing.T) {
	cfg := intermediateConfig(t)
	notes := []chart.SustainedNote{{StartTime: 2.0, EndTime: 2.9, Pitch: 60}}
	cands := []chart.StepCandidate{{Time: 2.5}}

	assert.Empty(t, placeHolds(notes, cands, cfg))
}

func TestPlaceHoldsPrefersSuggestedArrow(t *testing.T) {
	cfg := intermediateConfig(t)
	notes := []chart.SustainedNote{{StartTime: 2.0, EndTime: 2.9, Pitch: 58}}
	cands := []chart.StepCandidate{{Time: 2.0, SuggestedArrows: []chart.Direction{chart.Up}}}

	holds := placeHolds(notes, cands, cfg)
	require.Len(t, holds, 1)
	assert.Equal(t, []chart.Direction{chart.Up}, holds[0].Arrows)
}

func TestPlaceHoldsCap(t *testing.T) {
	// floor(5 candidates * 20%) = 1 hold, kept in encounter order.
	cfg := intermediateConfig(t)
	notes := []chart.SustainedNote{
		{StartTime: 1.0, EndTime: 1.8, Pitch: 50},
		{StartTime: 3.0, EndTime: 3.8, Pitch: 60},
		{StartTime: 5.0, EndTime: 5.8, Pitch: 72},
	}
	cands := []chart.StepCandidate{{Time: 1.0}, {Time: 3.0}, {Time: 5.0}, {Time: 7.0}, {Time: 9.0}}

	holds := placeHolds(notes, cands, cfg)
	require.Len(t, holds, 1)
	assert.Equal(t, 1.0, holds[0].Time)
	assert.Equal(t, []chart.Direction{chart.Left}, holds[0].Arrows)
}

func TestPlaceHoldsOnTimes(t *testing.T) {
	cfg := intermediateConfig(t)
	notes := []chart.SustainedNote{{StartTime: 2.0, EndTime: 2.9, Pitch: 58}}
	times := []float64{2.0, 4.0, 6.0, 8.0, 10.0}

	holds := placeHoldsOnTimes(notes, times, cfg)
	require.Len(t, holds, 1)
	assert.Equal(t, 2.0, holds[0].Time)
	assert.Equal(t, []chart.Direction{chart.Down}, holds[0].Arrows)
	assert.InDelta(t, 0.9, holds[0].HoldDuration, 1e-9)
}

func TestHeldArrowsAt(t *testing.T) {
	hold, err := chart.NewHold(1.0, chart.Up, 1.0)
	require.NoError(t, err)
	holds := []chart.Step{hold}

	assert.True(t, heldArrowsAt(holds, 1.0)[chart.Up])
	assert.True(t, heldArrowsAt(holds, 1.5)[chart.Up])
	// Inside the 50ms trailing tolerance past the hold's end.
	assert.True(t, heldArrowsAt(holds, 2.04)[chart.Up])
	assert.False(t, heldArrowsAt(holds, 2.1)[chart.Up])
	assert.False(t, heldArrowsAt(holds, 0.9)[chart.Up])
	assert.False(t, heldArrowsAt(holds, 1.5)[chart.Left])
}
