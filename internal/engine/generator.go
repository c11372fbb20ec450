package engine

import (
	"fmt"
	"log"
	"sort"

	"github.com/beatsync/beatsync-api/internal/chart"
)

// Strategy produces the pre-validation step list for one chart. Two
// implementations exist: the source-aware path over step candidates and the
// beat-based fallback.
type Strategy interface {
	Steps(a *chart.Analysis) []chart.Step
}

// Generator runs the full synthesis pipeline for one difficulty. It is
// stateless across calls; generating charts for several difficulties or
// tracks concurrently is safe as long as the shared analysis is not mutated.
type Generator struct {
	cfg chart.DifficultyConfig
}

// New creates a generator for an explicit difficulty configuration
func New(cfg chart.DifficultyConfig) *Generator {
	return &Generator{cfg: cfg}
}

// NewForDifficulty creates a generator for a named preset. Unknown names
// fail here, before any stage runs.
func NewForDifficulty(name string) (*Generator, error) {
	cfg, err := chart.GetDifficultyConfig(name)
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// Config returns the active difficulty configuration
func (g *Generator) Config() chart.DifficultyConfig {
	return g.cfg
}

// Generate runs the pipeline over a feature-extractor analysis and returns
// the validated chart. The same analysis and difficulty always produce the
// identical chart.
func (g *Generator) Generate(a *chart.Analysis) (*chart.Chart, error) {
	if a == nil {
		return nil, fmt.Errorf("generate: nil analysis")
	}

	candidates := a.StepCandidates
	if len(candidates) == 0 && hasSourceStreams(a) {
		candidates = BuildCandidates(a, g.cfg.GridDivision())
	}

	var strategy Strategy
	if len(candidates) > 0 {
		log.Printf("chart generation: source-aware path, %d candidates", len(candidates))
		strategy = &sourceStrategy{cfg: g.cfg, candidates: candidates}
	} else {
		log.Printf("chart generation: beat-based path, %d beats", len(a.Beats))
		strategy = &beatStrategy{cfg: g.cfg}
	}

	steps := strategy.Steps(a)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Time < steps[j].Time })

	beforeStructure := len(steps)
	steps = applyStructure(steps, a.Structure)
	beforeValidate := len(steps)
	steps = validateSteps(steps, g.cfg)
	log.Printf("chart generation: structure %d -> %d, validation %d -> %d steps",
		beforeStructure, beforeValidate, beforeValidate, len(steps))

	return &chart.Chart{
		Steps:      steps,
		Difficulty: g.cfg.Name,
		Tempo:      a.Tempo,
		Duration:   a.Structure.TotalDuration,
	}, nil
}

// hasSourceStreams reports whether the analysis carries enough per-source
// material for the candidate builder to work from.
func hasSourceStreams(a *chart.Analysis) bool {
	if a.DrumTrack != nil && (len(a.DrumTrack.Kicks) > 0 || len(a.DrumTrack.Snares) > 0 || len(a.DrumTrack.Hihats) > 0) {
		return true
	}
	if len(a.WeightedOnsets) > 0 || len(a.MelodyNotes) > 0 {
		return true
	}
	if a.BandOnsets != nil && (len(a.BandOnsets.Bass) > 0 || len(a.BandOnsets.Mid) > 0 || len(a.BandOnsets.High) > 0) {
		return true
	}
	return false
}

// sourceStrategy generates from prioritized step candidates: holds first,
// then jump promotions (energy peaks before snares), then the per-window
// density budget and pattern synthesis.
type sourceStrategy struct {
	cfg        chart.DifficultyConfig
	candidates []chart.StepCandidate
}

func (s *sourceStrategy) Steps(a *chart.Analysis) []chart.Step {
	used := make(map[float64]bool)
	var steps []chart.Step
	var holds []chart.Step

	if s.cfg.AllowHolds && len(a.SustainedNotes) > 0 {
		holds = placeHolds(a.SustainedNotes, s.candidates, s.cfg)
		for _, h := range holds {
			used[timeKey(h.Time)] = true
		}
		steps = append(steps, holds...)
	}

	if s.cfg.AllowDoubles {
		peaks := detectEnergyPeaks(a.EnergySections)
		steps = append(steps, promoteJumps(peaks, peakAnchorWindow, s.candidates, used, holds, -1)...)
		steps = append(steps, promoteJumps(snareAnchors(a.DrumTrack), snareAnchorWindow, s.candidates, used, holds, maxSnareJumps)...)
	}

	for _, w := range selectByEnergy(s.candidates, a.EnergySections, a.DrumTrack, used, s.cfg) {
		picker := newArrowPicker()
		steps = append(steps, synthesize(w.candidates, w.intensity, holds, s.cfg, picker)...)
	}
	return steps
}

// beatStrategy is the fallback when no candidate material exists: it works
// from difficulty-filtered beats (or raw onsets in onset mode) plus
// subdivisions.
type beatStrategy struct {
	cfg chart.DifficultyConfig
}

func (s *beatStrategy) Steps(a *chart.Analysis) []chart.Step {
	times := s.availableTimes(a)
	var steps []chart.Step
	var holds []chart.Step

	if s.cfg.AllowHolds && len(a.SustainedNotes) > 0 {
		holds = placeHoldsOnTimes(a.SustainedNotes, times, s.cfg)
		times = removeTimes(times, holds)
		steps = append(steps, holds...)
	}

	if s.cfg.AllowDoubles {
		for _, peak := range detectEnergyPeaks(a.EnergySections) {
			idx := nearestTime(times, peak)
			if idx < 0 || times[idx]-peak >= peakAnchorWindow || peak-times[idx] >= peakAnchorWindow {
				continue
			}
			t := times[idx]
			arrows := jumpArrows(t, heldArrowsAt(holds, t))
			if len(arrows) < 2 {
				continue
			}
			steps = append(steps, chart.NewTap(t, arrows...))
			times = append(times[:idx], times[idx+1:]...)
		}
	}

	strengths := make(map[float64]float64, len(a.Beats))
	for _, b := range a.Beats {
		strengths[timeKey(b.Time)] = b.Strength
	}

	for _, section := range a.EnergySections {
		var inWindow []float64
		for _, t := range times {
			if section.StartTime <= t && t <= section.EndTime {
				inWindow = append(inWindow, t)
			}
		}
		if len(inWindow) == 0 {
			continue
		}

		target := targetCount(len(inWindow), section.EnergyLevel, s.cfg)
		selected := s.selectTimes(inWindow, strengths, target)
		if len(selected) == 0 {
			continue
		}

		cands := make([]chart.StepCandidate, len(selected))
		for i, t := range selected {
			cands[i] = chart.StepCandidate{Time: t, Source: chart.SourceOnset, Strength: strengths[timeKey(t)]}
		}

		picker := newArrowPicker()
		steps = append(steps, synthesize(cands, section.Intensity, holds, s.cfg, picker)...)
	}
	return steps
}

// availableTimes derives the candidate times for the beat path: raw onsets
// in onset mode, otherwise beats filtered by the difficulty's beat-type
// flags, extended with subdivisions when 8th/16th notes are enabled.
func (s *beatStrategy) availableTimes(a *chart.Analysis) []float64 {
	var times []float64
	if s.cfg.UseOnsets && len(a.OnsetTimes) > 0 {
		times = append(times, a.OnsetTimes...)
	} else {
		for _, b := range a.Beats {
			switch b.BeatType {
			case chart.BeatDownbeat:
				if s.cfg.UseDownbeats {
					times = append(times, b.Time)
				}
			case chart.BeatUpbeat:
				if s.cfg.UseUpbeats {
					times = append(times, b.Time)
				}
			case chart.BeatOffbeat:
				if s.cfg.UseOffbeats {
					times = append(times, b.Time)
				}
			}
		}
	}

	if s.cfg.Use8thNotes || s.cfg.Use16thNotes {
		times = append(times, a.SubdivisionTimes...)
	}

	seen := make(map[float64]bool, len(times))
	unique := times[:0:0]
	for _, t := range times {
		key := timeKey(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, t)
	}
	sort.Float64s(unique)
	return unique
}

// selectTimes keeps the strongest target beats from a window. In onset mode
// onsets are pre-filtered by threshold, so the earliest ones are kept as-is.
func (s *beatStrategy) selectTimes(window []float64, strengths map[float64]float64, target int) []float64 {
	if target > len(window) {
		target = len(window)
	}
	if target <= 0 {
		return nil
	}

	selected := make([]float64, len(window))
	copy(selected, window)
	if !s.cfg.UseOnsets {
		sort.SliceStable(selected, func(i, j int) bool {
			return strengths[timeKey(selected[i])] > strengths[timeKey(selected[j])]
		})
	}
	selected = selected[:target]
	sort.Float64s(selected)
	return selected
}

func removeTimes(times []float64, holds []chart.Step) []float64 {
	holdTimes := make(map[float64]bool, len(holds))
	for _, h := range holds {
		holdTimes[timeKey(h.Time)] = true
	}
	kept := times[:0:0]
	for _, t := range times {
		if !holdTimes[timeKey(t)] {
			kept = append(kept, t)
		}
	}
	return kept
}
