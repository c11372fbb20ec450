package engine

import (
	"math"
	"sort"

	"github.com/beatsync/beatsync-api/internal/chart"
)

const (
	// Energy sections at or above this level qualify as peaks.
	peakHeight = 0.7
	// Minimum index distance between accepted peaks.
	peakDistance = 4
	// A peak promotes the nearest candidate within this window to a jump.
	peakAnchorWindow = 0.1

	// Snare-driven jump promotion parameters.
	snareAnchorWindow = 0.05
	snareMinStrength  = 0.5
	maxSnareJumps     = 10

	// Flat ranking bonus for candidates that correlate with a drum hit.
	drumCorrelationBonus  = 0.2
	drumCorrelationWindow = 0.05
)

// windowSelection is the per-energy-window outcome of selection: the kept
// candidates, time-ordered, tagged with the window's intensity.
type windowSelection struct {
	intensity  chart.Intensity
	candidates []chart.StepCandidate
}

// detectEnergyPeaks finds peak energy moments: local maxima at or above
// peakHeight, at least peakDistance sections apart. Higher peaks win when
// two candidates are too close.
func detectEnergyPeaks(sections []chart.EnergySection) []float64 {
	type peak struct {
		idx    int
		energy float64
	}
	var peaks []peak
	for i := 1; i < len(sections)-1; i++ {
		e := sections[i].EnergyLevel
		if e >= peakHeight && e > sections[i-1].EnergyLevel && e > sections[i+1].EnergyLevel {
			peaks = append(peaks, peak{idx: i, energy: e})
		}
	}

	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].energy > peaks[j].energy })

	var accepted []peak
	for _, p := range peaks {
		ok := true
		for _, a := range accepted {
			if abs(p.idx-a.idx) < peakDistance {
				ok = false
				break
			}
		}
		if ok {
			accepted = append(accepted, p)
		}
	}

	if len(accepted) == 0 {
		return nil
	}
	sort.SliceStable(accepted, func(i, j int) bool { return accepted[i].idx < accepted[j].idx })
	times := make([]float64, len(accepted))
	for i, p := range accepted {
		times[i] = sections[p.idx].StartTime
	}
	return times
}

// promoteJumps converts the nearest still-available candidate to each
// anchor time into a two-arrow jump, marking its time as used. limit < 0
// means unlimited. Promotions run before window budgeting, so they never
// compete with it.
func promoteJumps(anchors []float64, window float64, pool []chart.StepCandidate,
	used map[float64]bool, holds []chart.Step, limit int) []chart.Step {

	var jumps []chart.Step
	for _, anchor := range anchors {
		if limit >= 0 && len(jumps) >= limit {
			break
		}

		best := -1
		bestDist := math.Inf(1)
		for i, c := range pool {
			if used[timeKey(c.Time)] {
				continue
			}
			if d := math.Abs(c.Time - anchor); d < bestDist {
				best, bestDist = i, d
			}
		}
		if best < 0 || bestDist >= window {
			continue
		}

		t := pool[best].Time
		arrows := jumpArrows(t, heldArrowsAt(holds, t))
		if len(arrows) < 2 {
			continue
		}
		jumps = append(jumps, chart.NewTap(t, arrows...))
		used[timeKey(t)] = true
	}
	return jumps
}

// snareAnchors returns the times of snare hits strong enough to drive a jump
func snareAnchors(drums *chart.DrumTrack) []float64 {
	if drums == nil {
		return nil
	}
	var anchors []float64
	for _, s := range drums.Snares {
		if s.Strength >= snareMinStrength {
			anchors = append(anchors, s.Time)
		}
	}
	return anchors
}

// selectByEnergy applies the per-window density budget: for each energy
// section, the not-yet-used candidates inside it are ranked and the top
// targetCount kept. Kept times are marked used so later windows cannot
// re-select them.
func selectByEnergy(pool []chart.StepCandidate, sections []chart.EnergySection,
	drums *chart.DrumTrack, used map[float64]bool, cfg chart.DifficultyConfig) []windowSelection {

	drumTimes := allDrumTimes(drums)
	var windows []windowSelection

	for _, section := range sections {
		var inWindow []chart.StepCandidate
		for _, c := range pool {
			if section.StartTime <= c.Time && c.Time <= section.EndTime && !used[timeKey(c.Time)] {
				inWindow = append(inWindow, c)
			}
		}
		if len(inWindow) == 0 {
			continue
		}

		target := targetCount(len(inWindow), section.EnergyLevel, cfg)
		if target <= 0 {
			continue
		}

		ranked := make([]chart.StepCandidate, len(inWindow))
		copy(ranked, inWindow)
		sort.SliceStable(ranked, func(i, j int) bool {
			return rankScore(ranked[i], drumTimes) > rankScore(ranked[j], drumTimes)
		})
		if target > len(ranked) {
			target = len(ranked)
		}
		selected := ranked[:target]

		for _, c := range selected {
			used[timeKey(c.Time)] = true
		}
		sort.SliceStable(selected, func(i, j int) bool { return selected[i].Time < selected[j].Time })

		windows = append(windows, windowSelection{
			intensity:  section.Intensity,
			candidates: selected,
		})
	}
	return windows
}

// targetCount computes the step budget for a window. The onset-driven mode
// assumes near-complete onset coverage; the energy-scaled mode assumes
// sparse beat coverage. The two formulas are deliberately kept separate.
func targetCount(count int, energy float64, cfg chart.DifficultyConfig) int {
	if cfg.UseOnsets {
		return int(float64(count) * (0.8 + 0.2*energy))
	}
	target := int(float64(count) * (1.0 + (energy-0.5)*cfg.EnergyScaleFactor))
	if target > count {
		target = count
	}
	if target < 0 {
		target = 0
	}
	return target
}

func rankScore(c chart.StepCandidate, drumTimes []float64) float64 {
	score := float64(c.Priority) + c.Strength
	for _, dt := range drumTimes {
		if math.Abs(c.Time-dt) < drumCorrelationWindow {
			score += drumCorrelationBonus
			break
		}
	}
	return score
}

func allDrumTimes(drums *chart.DrumTrack) []float64 {
	if drums == nil {
		return nil
	}
	events := drums.AllEvents()
	times := make([]float64, len(events))
	for i, e := range events {
		times[i] = e.Time
	}
	return times
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
