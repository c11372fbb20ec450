package engine

import (
	"math"
	"sort"

	"github.com/beatsync/beatsync-api/internal/chart"
)

// Fixed priority ranks per candidate source. Generic onsets carry no rank;
// their strength drives ranking directly.
const (
	priorityKick   = 10
	prioritySnare  = 9
	priorityBass   = 6
	priorityMelody = 5
	priorityHihat  = 3
)

// collisionWindow suppresses bass/hihat candidates that double-count a
// kick/snare transient.
const collisionWindow = 0.05

// BuildCandidates merges the per-source event streams of an analysis into a
// single ascending-time, de-duplicated candidate list, quantized to the
// musical grid. A non-positive tempo disables quantization; empty streams
// simply contribute nothing.
func BuildCandidates(a *chart.Analysis, gridDivision int) []chart.StepCandidate {
	var cands []chart.StepCandidate

	// Kick and snare hits anchor the rhythm and are collected first so the
	// collision pass below can test against them.
	var anchors []float64
	if a.DrumTrack != nil {
		for _, k := range a.DrumTrack.Kicks {
			cands = append(cands, chart.StepCandidate{
				Time: k.Time, Source: chart.SourceKick, Priority: priorityKick, Strength: k.Strength,
			})
			anchors = append(anchors, k.Time)
		}
		for _, s := range a.DrumTrack.Snares {
			cands = append(cands, chart.StepCandidate{
				Time: s.Time, Source: chart.SourceSnare, Priority: prioritySnare, Strength: s.Strength,
			})
			anchors = append(anchors, s.Time)
		}
	}

	if a.BandOnsets != nil {
		for _, t := range a.BandOnsets.Bass {
			if collidesWithAnchor(t, anchors) {
				continue
			}
			cands = append(cands, chart.StepCandidate{
				Time: t, Source: chart.SourceBass, Priority: priorityBass, Strength: 0.5,
			})
		}
	}

	if a.DrumTrack != nil {
		for _, h := range a.DrumTrack.Hihats {
			if collidesWithAnchor(h.Time, anchors) {
				continue
			}
			cands = append(cands, chart.StepCandidate{
				Time: h.Time, Source: chart.SourceHihat, Priority: priorityHihat, Strength: h.Strength,
			})
		}
	}

	for _, m := range a.MelodyNotes {
		cands = append(cands, chart.StepCandidate{
			Time:            m.Time,
			Source:          chart.SourceMelody,
			Priority:        priorityMelody,
			Strength:        m.Confidence,
			SuggestedArrows: []chart.Direction{pitchToArrow(float64(m.MidiNote))},
		})
	}

	for _, o := range a.WeightedOnsets {
		if o.IsDrum {
			// Drum-correlated onsets are already represented through the
			// drum track streams.
			continue
		}
		cands = append(cands, chart.StepCandidate{
			Time: o.Time, Source: chart.SourceOnset, Priority: 0, Strength: o.Strength,
		})
	}
	if a.BandOnsets != nil {
		for _, t := range a.BandOnsets.Mid {
			cands = append(cands, chart.StepCandidate{Time: t, Source: chart.SourceOnset, Strength: 0.5})
		}
		for _, t := range a.BandOnsets.High {
			cands = append(cands, chart.StepCandidate{Time: t, Source: chart.SourceOnset, Strength: 0.4})
		}
	}

	if a.Tempo > 0 {
		grid := (60.0 / a.Tempo) / (float64(gridDivision) / 4.0)
		for i := range cands {
			cands[i].Time = math.Round(cands[i].Time/grid) * grid
		}
	}

	return dedupeCandidates(cands)
}

func collidesWithAnchor(t float64, anchors []float64) bool {
	for _, a := range anchors {
		if math.Abs(t-a) < collisionWindow {
			return true
		}
	}
	return false
}

// dedupeCandidates keeps the highest-priority candidate per rounded time
// (3-decimal precision) and returns the survivors sorted by time.
func dedupeCandidates(cands []chart.StepCandidate) []chart.StepCandidate {
	best := make(map[float64]chart.StepCandidate, len(cands))
	for _, c := range cands {
		key := timeKey(c.Time)
		prev, ok := best[key]
		if !ok || c.Priority > prev.Priority ||
			(c.Priority == prev.Priority && c.Strength > prev.Strength) {
			best[key] = c
		}
	}

	out := make([]chart.StepCandidate, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// timeKey rounds a time to 3 decimals for de-duplication and used-time sets
func timeKey(t float64) float64 {
	return math.Round(t*1000) / 1000
}

// pitchToArrow maps a pitch to a lane deterministically
func pitchToArrow(pitch float64) chart.Direction {
	switch {
	case pitch < 55:
		return chart.Left
	case pitch < 60:
		return chart.Down
	case pitch < 70:
		return chart.Up
	default:
		return chart.Right
	}
}
