package engine

import (
	"math"

	"github.com/beatsync/beatsync-api/internal/chart"
)

const (
	// A sustained note only becomes a hold if a candidate anchors within
	// this window of its start.
	holdAnchorWindow = 0.2
	// Trailing slack added to a hold's lane reservation.
	holdTailTolerance = 0.05
)

// placeHolds converts qualifying sustained notes into hold steps anchored on
// the nearest candidate. The hold runs from the anchor to the note's end.
// The lane comes from the anchoring candidate's suggested arrow when present,
// otherwise from the pitch map. The number of holds is capped at
// candidateCount * holdPercentage, in encounter order.
func placeHolds(notes []chart.SustainedNote, cands []chart.StepCandidate, cfg chart.DifficultyConfig) []chart.Step {
	var holds []chart.Step

	for _, note := range notes {
		if d := note.EndTime - note.StartTime; d < cfg.MinHoldDuration || d > cfg.MaxHoldDuration {
			continue
		}

		idx := nearestCandidate(cands, note.StartTime)
		if idx < 0 || math.Abs(cands[idx].Time-note.StartTime) >= holdAnchorWindow {
			continue
		}

		anchor := cands[idx]
		arrow := pitchToArrow(note.Pitch)
		if len(anchor.SuggestedArrows) > 0 {
			arrow = anchor.SuggestedArrows[0]
		}

		duration := math.Min(note.EndTime-anchor.Time, cfg.MaxHoldDuration)
		hold, err := chart.NewHold(anchor.Time, arrow, duration)
		if err != nil {
			continue
		}
		holds = append(holds, hold)
	}

	maxHolds := int(float64(len(cands)) * cfg.HoldPercentage)
	if len(holds) > maxHolds {
		holds = holds[:maxHolds]
	}
	return holds
}

// placeHoldsOnTimes is the beat-path variant: anchors are bare times and the
// lane always comes from the pitch map.
func placeHoldsOnTimes(notes []chart.SustainedNote, times []float64, cfg chart.DifficultyConfig) []chart.Step {
	var holds []chart.Step

	for _, note := range notes {
		if d := note.EndTime - note.StartTime; d < cfg.MinHoldDuration || d > cfg.MaxHoldDuration {
			continue
		}

		idx := nearestTime(times, note.StartTime)
		if idx < 0 || math.Abs(times[idx]-note.StartTime) >= holdAnchorWindow {
			continue
		}

		duration := math.Min(note.EndTime-times[idx], cfg.MaxHoldDuration)
		hold, err := chart.NewHold(times[idx], pitchToArrow(note.Pitch), duration)
		if err != nil {
			continue
		}
		holds = append(holds, hold)
	}

	maxHolds := int(float64(len(times)) * cfg.HoldPercentage)
	if len(holds) > maxHolds {
		holds = holds[:maxHolds]
	}
	return holds
}

// heldArrowsAt reports which lanes are occupied by an active hold at time t.
// The reservation runs from the hold's start through its end plus a small
// trailing tolerance.
func heldArrowsAt(holds []chart.Step, t float64) map[chart.Direction]bool {
	held := make(map[chart.Direction]bool)
	for _, h := range holds {
		if !h.IsHold() {
			continue
		}
		if h.Time <= t && t <= h.Time+h.HoldDuration+holdTailTolerance {
			for _, a := range h.Arrows {
				held[a] = true
			}
		}
	}
	return held
}

func nearestCandidate(cands []chart.StepCandidate, t float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, c := range cands {
		if d := math.Abs(c.Time - t); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func nearestTime(times []float64, t float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, ct := range times {
		if d := math.Abs(ct - t); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
