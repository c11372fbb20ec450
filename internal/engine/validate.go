package engine

import (
	"math"
	"sort"

	"github.com/beatsync/beatsync-api/internal/chart"
)

// Normalize sorts a raw step list and runs the full validation pass over it.
// Used for step lists that did not come out of the synthesis pipeline, such
// as LLM-generated charts.
func Normalize(steps []chart.Step, cfg chart.DifficultyConfig) []chart.Step {
	sorted := make([]chart.Step, len(steps))
	copy(sorted, steps)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	return validateSteps(sorted, cfg)
}

// Steps closer together than this are sub-grid duplicates.
const duplicateWindow = 0.01

// Maximum simultaneous arrows on one step.
const maxArrows = 4

// validateSteps walks the time-sorted step list once and produces the final
// chart steps: sub-grid duplicates and too-soon steps are dropped, arrow
// counts capped, malformed holds repaired. Repairs are pure; input steps are
// never mutated.
func validateSteps(steps []chart.Step, cfg chart.DifficultyConfig) []chart.Step {
	minGap := cfg.MinGap()
	var validated []chart.Step

	for _, step := range steps {
		if len(validated) > 0 {
			gap := step.Time - validated[len(validated)-1].Time
			if math.Abs(gap) < duplicateWindow || gap < minGap {
				continue
			}
		}

		step = repairArrows(step, cfg)
		step = repairHold(step, cfg)
		if len(step.Arrows) == 0 {
			continue
		}
		validated = append(validated, step)
	}
	return validated
}

// repairArrows caps simultaneous arrows at four and forces beginner steps
// down to a single arrow. Returns a new step; the input is untouched.
func repairArrows(s chart.Step, cfg chart.DifficultyConfig) chart.Step {
	limit := maxArrows
	if cfg.Name == "beginner" {
		limit = 1
	}
	if len(s.Arrows) <= limit {
		return s
	}
	arrows := make([]chart.Direction, limit)
	copy(arrows, s.Arrows[:limit])
	s.Arrows = arrows
	return s
}

// repairHold demotes under-length holds to taps and clamps over-length hold
// durations to the difficulty maximum.
func repairHold(s chart.Step, cfg chart.DifficultyConfig) chart.Step {
	if !s.IsHold() {
		return s
	}
	if s.HoldDuration < cfg.MinHoldDuration {
		s.Type = chart.Tap
		s.HoldDuration = 0
		return s
	}
	if s.HoldDuration > cfg.MaxHoldDuration {
		s.HoldDuration = cfg.MaxHoldDuration
	}
	return s
}
