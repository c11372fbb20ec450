package engine

import (
	"math"

	"github.com/beatsync/beatsync-api/internal/chart"
)

// applyStructure thins step density inside the intro and outro windows.
// The keep decision is a deterministic function of the step time, so the
// track edges stay sparse rather than silent.
func applyStructure(steps []chart.Step, structure chart.SongStructure) []chart.Step {
	kept := steps[:0:0]
	for _, s := range steps {
		if structure.Intro.Contains(s.Time) && !keepIntroStep(s.Time) {
			continue
		}
		if structure.Outro.Contains(s.Time) && !keepOutroStep(s.Time) {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

func keepIntroStep(t float64) bool {
	return int(math.Floor(t*100))%10 < 3
}

func keepOutroStep(t float64) bool {
	return int(math.Floor(t*100))%10 < 4
}
