package chart

import "math"

// StepExport is the wire form of a single step
type StepExport struct {
	Time         float64  `json:"time"`
	Arrows       []string `json:"arrows"`
	Type         string   `json:"type"`
	HoldDuration *float64 `json:"hold_duration,omitempty"`
}

// Stats summarizes a chart for clients
type Stats struct {
	TotalSteps  int `json:"total_steps"`
	TotalArrows int `json:"total_arrows"`
	TapNotes    int `json:"tap_notes"`
	HoldNotes   int `json:"hold_notes"`
	Singles     int `json:"singles"`
	Doubles     int `json:"doubles"`
}

// Export is the plain record a chart serializes to. Exporting the same chart
// twice yields identical records.
type Export struct {
	Difficulty string       `json:"difficulty"`
	Tempo      float64      `json:"tempo"`
	Duration   float64      `json:"duration"`
	Steps      []StepExport `json:"steps"`
	Stats      Stats        `json:"stats"`
}

// Export converts the chart to its wire record: times at 3 decimals, tempo
// at 1, duration at 2, hold durations present only on holds.
func (c *Chart) Export() *Export {
	steps := make([]StepExport, 0, len(c.Steps))
	stats := Stats{TotalSteps: len(c.Steps)}

	for _, s := range c.Steps {
		arrows := make([]string, len(s.Arrows))
		for i, a := range s.Arrows {
			arrows[i] = string(a)
		}

		se := StepExport{
			Time:   roundTo(s.Time, 3),
			Arrows: arrows,
			Type:   string(s.Type),
		}
		if s.Type == Hold {
			d := roundTo(s.HoldDuration, 3)
			se.HoldDuration = &d
			stats.HoldNotes++
		} else {
			stats.TapNotes++
		}

		stats.TotalArrows += len(s.Arrows)
		switch len(s.Arrows) {
		case 1:
			stats.Singles++
		case 2:
			stats.Doubles++
		}

		steps = append(steps, se)
	}

	return &Export{
		Difficulty: c.Difficulty,
		Tempo:      roundTo(c.Tempo, 1),
		Duration:   roundTo(c.Duration, 2),
		Steps:      steps,
		Stats:      stats,
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
