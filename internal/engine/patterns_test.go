package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatsync/beatsync-api/internal/chart"
)

// Test times are chosen so time*100 is exactly representable; the seed
// derivation is then unambiguous.
func TestTimeSeed(t *testing.T) {
	assert.Equal(t, 0, timeSeed(1.0))
	assert.Equal(t, 25, timeSeed(1.25))
	assert.Equal(t, 50, timeSeed(2.5))
	assert.Equal(t, 75, timeSeed(3.75))
	assert.Equal(t, 90, timeSeed(1.90625))
}

func TestChoosePattern(t *testing.T) {
	expert, err := chart.GetDifficultyConfig("expert")
	require.NoError(t, err)
	beginner, err := chart.GetDifficultyConfig("beginner")
	require.NoError(t, err)

	tests := []struct {
		name      string
		time      float64
		intensity chart.Intensity
		cfg       chart.DifficultyConfig
		want      patternKind
	}{
		{name: "climax stream", time: 4.25, intensity: chart.IntensityClimax, cfg: expert, want: patternStream},
		{name: "climax jump", time: 4.5, intensity: chart.IntensityClimax, cfg: expert, want: patternJump},
		{name: "climax single", time: 1.90625, intensity: chart.IntensityClimax, cfg: expert, want: patternSingle},
		{name: "high stream", time: 2.0, intensity: chart.IntensityHigh, cfg: expert, want: patternStream},
		{name: "high jump", time: 2.5, intensity: chart.IntensityHigh, cfg: expert, want: patternJump},
		{name: "high crossover", time: 2.625, intensity: chart.IntensityHigh, cfg: expert, want: patternCrossover},
		{name: "high single", time: 1.90625, intensity: chart.IntensityHigh, cfg: expert, want: patternSingle},
		{name: "medium jump", time: 1.25, intensity: chart.IntensityMedium, cfg: expert, want: patternJump},
		{name: "medium crossover", time: 1.375, intensity: chart.IntensityMedium, cfg: expert, want: patternCrossover},
		{name: "medium single", time: 2.5, intensity: chart.IntensityMedium, cfg: expert, want: patternSingle},
		{name: "low always single", time: 2.0, intensity: chart.IntensityLow, cfg: expert, want: patternSingle},
		{name: "beginner never streams", time: 4.25, intensity: chart.IntensityClimax, cfg: beginner, want: patternSingle},
		{name: "beginner never jumps", time: 1.25, intensity: chart.IntensityMedium, cfg: beginner, want: patternSingle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, choosePattern(tt.time, tt.intensity, tt.cfg))
		})
	}
}

func TestJumpArrows(t *testing.T) {
	noneHeld := map[chart.Direction]bool{}

	// seed 300 % 3 = 0 selects the wide pair.
	assert.Equal(t, []chart.Direction{chart.Left, chart.Right}, jumpArrows(3.0, noneHeld))
	// seed 250 % 3 = 1 selects the vertical pair.
	assert.Equal(t, []chart.Direction{chart.Down, chart.Up}, jumpArrows(2.5, noneHeld))

	// A held lane shifts to the next pair.
	heldLeft := map[chart.Direction]bool{chart.Left: true}
	assert.Equal(t, []chart.Direction{chart.Down, chart.Up}, jumpArrows(3.0, heldLeft))

	// With fewer than two free lanes the caller degrades to a single.
	threeHeld := map[chart.Direction]bool{chart.Left: true, chart.Down: true, chart.Up: true}
	assert.Equal(t, []chart.Direction{chart.Right}, jumpArrows(3.0, threeHeld))

	allHeld := map[chart.Direction]bool{
		chart.Left: true, chart.Down: true, chart.Up: true, chart.Right: true,
	}
	assert.Empty(t, jumpArrows(3.0, allHeld))
}

func TestArrowPickerFirstStep(t *testing.T) {
	p := newArrowPicker()
	assert.Equal(t, chart.Left, p.pick(1.0, nil))

	p = newArrowPicker()
	held := map[chart.Direction]bool{chart.Left: true}
	assert.Equal(t, chart.Down, p.pick(1.0, held))
}

func TestArrowPickerAlternatesFeet(t *testing.T) {
	p := newArrowPicker()
	p.record(chart.Left)
	got := p.pick(2.5, nil)
	assert.Contains(t, []chart.Direction{chart.Up, chart.Right}, got)

	p = newArrowPicker()
	p.record(chart.Up)
	got = p.pick(2.0, nil)
	assert.Contains(t, []chart.Direction{chart.Left, chart.Down}, got)
}

func TestArrowPickerAvoidsHeldLanes(t *testing.T) {
	p := newArrowPicker()
	p.record(chart.Left)

	// The whole opposite foot is held, so the picker stays on the left foot.
	held := map[chart.Direction]bool{chart.Up: true, chart.Right: true}
	got := p.pick(2.0, held)
	assert.Contains(t, []chart.Direction{chart.Left, chart.Down}, got)
}

func TestSynthesizeStream(t *testing.T) {
	// Seed 0 under climax selects a stream over the five evenly spaced
	// candidates, one alternating-lane tap per candidate.
	cfg, err := chart.GetDifficultyConfig("expert")
	require.NoError(t, err)

	times := []float64{1.0, 1.2, 1.4, 1.6, 1.8}
	cands := make([]chart.StepCandidate, len(times))
	for i, tm := range times {
		cands[i] = chart.StepCandidate{Time: tm}
	}

	steps := synthesize(cands, chart.IntensityClimax, nil, cfg, newArrowPicker())
	require.Len(t, steps, len(times))

	leftLanes := map[chart.Direction]bool{chart.Left: true, chart.Down: true}
	for i, s := range steps {
		assert.Equal(t, times[i], s.Time)
		assert.Equal(t, chart.Tap, s.Type)
		require.Len(t, s.Arrows, 1)
		if i > 0 {
			assert.NotEqual(t, leftLanes[steps[i-1].Arrows[0]], leftLanes[s.Arrows[0]],
				"stream members alternate feet")
		}
	}
}

func TestSynthesizeJumpDegradesWhenLanesHeld(t *testing.T) {
	cfg, err := chart.GetDifficultyConfig("expert")
	require.NoError(t, err)

	var holds []chart.Step
	for _, d := range []chart.Direction{chart.Left, chart.Down, chart.Up} {
		h, err := chart.NewHold(4.0, d, 2.0)
		require.NoError(t, err)
		holds = append(holds, h)
	}

	// Seed 50 under climax is a jump, but only one lane is free.
	cands := []chart.StepCandidate{{Time: 4.5}}
	steps := synthesize(cands, chart.IntensityClimax, holds, cfg, newArrowPicker())
	require.Len(t, steps, 1)
	assert.Equal(t, []chart.Direction{chart.Right}, steps[0].Arrows)
}

func TestSynthesizeCrossover(t *testing.T) {
	cfg, err := chart.GetDifficultyConfig("expert")
	require.NoError(t, err)

	// Seed 37 under medium selects a crossover consuming four candidates.
	times := []float64{1.375, 1.875, 2.375, 2.875}
	cands := make([]chart.StepCandidate, len(times))
	for i, tm := range times {
		cands[i] = chart.StepCandidate{Time: tm}
	}

	steps := synthesize(cands, chart.IntensityMedium, nil, cfg, newArrowPicker())
	require.Len(t, steps, 4)

	want := []chart.Direction{chart.Left, chart.Right, chart.Left, chart.Right}
	for i, s := range steps {
		assert.Equal(t, times[i], s.Time)
		assert.Equal(t, []chart.Direction{want[i]}, s.Arrows)
	}
}

func TestEvenlySpaced(t *testing.T) {
	regular := []chart.StepCandidate{
		{Time: 1.0}, {Time: 1.2}, {Time: 1.4}, {Time: 1.6}, {Time: 1.8},
	}
	assert.True(t, evenlySpaced(regular))

	jittered := []chart.StepCandidate{
		{Time: 1.0}, {Time: 1.2}, {Time: 1.4}, {Time: 1.75}, {Time: 1.95},
	}
	assert.False(t, evenlySpaced(jittered))

	assert.False(t, evenlySpaced([]chart.StepCandidate{{Time: 1.0}}))
}
