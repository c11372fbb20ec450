package engine

import (
	"math"

	"github.com/beatsync/beatsync-api/internal/chart"
)

// The engine's only source of variety: a deterministic hash of the step
// time. Never replace this with a real random generator; identical inputs
// must always reproduce the identical chart.
func timeSeed(t float64) int {
	return int(math.Floor(t*100)) % 100
}

// Stream members must be evenly spaced within this interval variance.
const streamEvenness = 0.05

type patternKind int

const (
	patternSingle patternKind = iota
	patternJump
	patternStream
	patternCrossover
)

// choosePattern picks the pattern for a candidate from its time seed and the
// window's intensity, gated by what the difficulty allows.
func choosePattern(t float64, intensity chart.Intensity, cfg chart.DifficultyConfig) patternKind {
	seed := timeSeed(t)

	switch intensity {
	case chart.IntensityClimax:
		if seed < 40 && cfg.MaxStreamLength > 0 {
			return patternStream
		}
		if seed < 90 && cfg.AllowDoubles {
			return patternJump
		}
	case chart.IntensityHigh:
		if seed < 25 && cfg.MaxStreamLength > 0 {
			return patternStream
		}
		if seed < 60 && cfg.AllowDoubles {
			return patternJump
		}
		if seed < 80 && cfg.AllowCrossovers {
			return patternCrossover
		}
	case chart.IntensityMedium:
		if seed < 30 && cfg.AllowDoubles {
			return patternJump
		}
		if seed < 50 && cfg.AllowCrossovers {
			return patternCrossover
		}
	}
	return patternSingle
}

var (
	leftFoot  = []chart.Direction{chart.Left, chart.Down}
	rightFoot = []chart.Direction{chart.Up, chart.Right}
)

// Canonical jump pairs: wide, vertical, diagonal.
var jumpPairs = [][2]chart.Direction{
	{chart.Left, chart.Right},
	{chart.Down, chart.Up},
	{chart.Left, chart.Up},
}

// jumpArrows picks a jump pair by time seed, down-shifting to the next pair
// when one of its lanes is held. With fewer than two free lanes it returns
// whatever is free; callers degrade to a single tap.
func jumpArrows(t float64, held map[chart.Direction]bool) []chart.Direction {
	seed := int(math.Floor(t*100)) % 3
	for i := 0; i < len(jumpPairs); i++ {
		pair := jumpPairs[(seed+i)%len(jumpPairs)]
		if !held[pair[0]] && !held[pair[1]] {
			return []chart.Direction{pair[0], pair[1]}
		}
	}

	var free []chart.Direction
	for _, d := range chart.AllDirections {
		if !held[d] {
			free = append(free, d)
		}
	}
	if len(free) > 2 {
		free = free[:2]
	}
	return free
}

// arrowPicker carries the pattern walk's state: the last emitted lane and
// per-lane usage counts. Selection alternates feet (left foot: left/down,
// right foot: up/right), avoids held lanes, and spreads usage across each
// foot's two lanes with a time-seeded tiebreak.
type arrowPicker struct {
	prev    chart.Direction
	hasPrev bool
	counts  map[chart.Direction]int
}

func newArrowPicker() *arrowPicker {
	return &arrowPicker{counts: make(map[chart.Direction]int)}
}

func (p *arrowPicker) pick(t float64, held map[chart.Direction]bool) chart.Direction {
	if !p.hasPrev {
		if !held[chart.Left] {
			return chart.Left
		}
		for _, d := range chart.AllDirections {
			if !held[d] {
				return d
			}
		}
		return chart.Left
	}

	lastWasLeft := p.prev == chart.Left || p.prev == chart.Down
	options := freeLanes(rightFoot, held)
	if !lastWasLeft {
		options = freeLanes(leftFoot, held)
	}

	// No free lane on the opposite foot: fall back to the same foot, then
	// to any free lane, then to any lane at all.
	if len(options) == 0 {
		if lastWasLeft {
			options = freeLanes(leftFoot, held)
		} else {
			options = freeLanes(rightFoot, held)
		}
	}
	if len(options) == 0 {
		options = freeLanes(chart.AllDirections, held)
	}
	if len(options) == 0 {
		options = chart.AllDirections
	}

	if len(options) == 1 {
		return options[0]
	}

	seed := timeSeed(t)
	a, b := options[0], options[1]
	switch {
	case p.counts[a] < p.counts[b]:
		if seed < 70 {
			return a
		}
		return b
	case p.counts[b] < p.counts[a]:
		if seed < 70 {
			return b
		}
		return a
	default:
		if seed < 50 {
			return a
		}
		return b
	}
}

func (p *arrowPicker) record(arrow chart.Direction) {
	p.prev = arrow
	p.hasPrev = true
	p.counts[arrow]++
}

func freeLanes(lanes []chart.Direction, held map[chart.Direction]bool) []chart.Direction {
	var free []chart.Direction
	for _, d := range lanes {
		if !held[d] {
			free = append(free, d)
		}
	}
	return free
}

// synthesize walks a window's selected candidates in time order and emits
// concrete steps: singles, jumps, streams and crossovers per the intensity
// tables, always avoiding lanes occupied by an active hold.
func synthesize(cands []chart.StepCandidate, intensity chart.Intensity,
	holds []chart.Step, cfg chart.DifficultyConfig, picker *arrowPicker) []chart.Step {

	var steps []chart.Step
	i := 0
	for i < len(cands) {
		t := cands[i].Time
		held := heldArrowsAt(holds, t)

		switch choosePattern(t, intensity, cfg) {
		case patternStream:
			if i+4 < len(cands) && evenlySpaced(cands[i:]) {
				length := cfg.MaxStreamLength
				if remaining := len(cands) - i; length > remaining {
					length = remaining
				}
				for j := 0; j < length; j++ {
					st := cands[i+j].Time
					arrow := picker.pick(st, heldArrowsAt(holds, st))
					picker.record(arrow)
					steps = append(steps, chart.NewTap(st, arrow))
				}
				i += length
				continue
			}
			steps = append(steps, singleTap(t, held, picker))
			i++

		case patternJump:
			arrows := jumpArrows(t, held)
			if len(arrows) < 2 {
				steps = append(steps, singleTap(t, held, picker))
				i++
				continue
			}
			steps = append(steps, chart.NewTap(t, arrows...))
			for _, a := range arrows {
				picker.counts[a]++
			}
			picker.prev = arrows[len(arrows)-1]
			picker.hasPrev = true
			i++

		case patternCrossover:
			if i+3 < len(cands) {
				pattern := []chart.Direction{chart.Left, chart.Right, chart.Left, chart.Right}
				for j, arrow := range pattern {
					st := cands[i+j].Time
					if h := heldArrowsAt(holds, st); h[arrow] {
						arrow = picker.pick(st, h)
					}
					steps = append(steps, chart.NewTap(st, arrow))
					picker.record(arrow)
				}
				i += 4
				continue
			}
			steps = append(steps, singleTap(t, held, picker))
			i++

		default:
			steps = append(steps, singleTap(t, held, picker))
			i++
		}
	}
	return steps
}

func singleTap(t float64, held map[chart.Direction]bool, picker *arrowPicker) chart.Step {
	arrow := picker.pick(t, held)
	picker.record(arrow)
	return chart.NewTap(t, arrow)
}

// evenlySpaced checks whether the next up-to-4 intervals are regular enough
// to count as a stream.
func evenlySpaced(cands []chart.StepCandidate) bool {
	n := len(cands) - 1
	if n > 4 {
		n = 4
	}
	if n < 1 {
		return false
	}

	minIv, maxIv := math.Inf(1), math.Inf(-1)
	for j := 0; j < n; j++ {
		iv := cands[j+1].Time - cands[j].Time
		if iv < minIv {
			minIv = iv
		}
		if iv > maxIv {
			maxIv = iv
		}
	}
	return maxIv-minIv < streamEvenness
}
