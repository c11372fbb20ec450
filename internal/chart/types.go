package chart

import (
	"fmt"
	"sort"
)

// Direction is one of the four arrow lanes
type Direction string

const (
	Left  Direction = "left"
	Down  Direction = "down"
	Up    Direction = "up"
	Right Direction = "right"
)

// AllDirections lists the lanes in panel order (left to right)
var AllDirections = []Direction{Left, Down, Up, Right}

// StepType distinguishes instantaneous taps from sustained holds
type StepType string

const (
	Tap  StepType = "tap"
	Hold StepType = "hold"
)

// Intensity is the coarse loudness class of an energy section
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
	IntensityClimax Intensity = "climax"
)

// Beat type within a 4/4 measure
const (
	BeatDownbeat = "downbeat"
	BeatUpbeat   = "upbeat"
	BeatOffbeat  = "offbeat"
)

// Beat is a single classified beat from the feature extractor
type Beat struct {
	Time            float64 `json:"time"`
	Strength        float64 `json:"strength"`
	BeatType        string  `json:"beat_type"`
	MeasurePosition int     `json:"measure_position"`
	IsStrong        bool    `json:"is_strong"`
}

// EnergySection is an energy level over a time range. Sections tile the
// track: contiguous and non-overlapping.
type EnergySection struct {
	StartTime   float64   `json:"start_time"`
	EndTime     float64   `json:"end_time"`
	EnergyLevel float64   `json:"energy_level"`
	Intensity   Intensity `json:"intensity"`
}

// SustainedNote is a sustained melodic note, a candidate for hold placement
type SustainedNote struct {
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Pitch      float64 `json:"pitch"`
	Confidence float64 `json:"confidence"`
}

// Drum types
type DrumType string

const (
	DrumKick  DrumType = "kick"
	DrumSnare DrumType = "snare"
	DrumHihat DrumType = "hihat"
)

// DrumEvent is a detected drum hit
type DrumEvent struct {
	Time     float64  `json:"time"`
	DrumType DrumType `json:"drum_type"`
	Strength float64  `json:"strength"`
}

// DrumTrack groups drum events by type
type DrumTrack struct {
	Kicks  []DrumEvent `json:"kicks"`
	Snares []DrumEvent `json:"snares"`
	Hihats []DrumEvent `json:"hihats"`
}

// AllEvents returns every drum event sorted by time
func (d *DrumTrack) AllEvents() []DrumEvent {
	all := make([]DrumEvent, 0, len(d.Kicks)+len(d.Snares)+len(d.Hihats))
	all = append(all, d.Kicks...)
	all = append(all, d.Snares...)
	all = append(all, d.Hihats...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Time < all[j].Time })
	return all
}

// WeightedOnset is an onset with its prominence score
type WeightedOnset struct {
	Time     float64  `json:"time"`
	Strength float64  `json:"strength"`
	IsDrum   bool     `json:"is_drum"`
	DrumType DrumType `json:"drum_type,omitempty"`
}

// MelodyNote is a melodic-line onset with pitch information
type MelodyNote struct {
	Time       float64 `json:"time"`
	Pitch      float64 `json:"pitch"`
	MidiNote   int     `json:"midi_note"`
	Confidence float64 `json:"confidence"`
}

// BandOnsets holds per-frequency-band onset times from multiband analysis
type BandOnsets struct {
	Bass []float64 `json:"bass,omitempty"`
	Mid  []float64 `json:"mid,omitempty"`
	High []float64 `json:"high,omitempty"`
}

// TimeRange is a [start, end] window in track seconds
type TimeRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Contains reports whether t lies inside the range (inclusive)
func (r TimeRange) Contains(t float64) bool {
	return r.Start <= t && t <= r.End
}

// SongStructure is the coarse section layout of the track. Windows may be
// disjoint and non-exhaustive; intro and outro never overlap.
type SongStructure struct {
	Intro         TimeRange   `json:"intro"`
	Verses        []TimeRange `json:"verses"`
	Choruses      []TimeRange `json:"choruses"`
	Bridge        TimeRange   `json:"bridge"`
	Outro         TimeRange   `json:"outro"`
	TotalDuration float64     `json:"total_duration"`
}

// Candidate sources, ordered by the priority rank they carry
type Source string

const (
	SourceKick   Source = "kick"
	SourceSnare  Source = "snare"
	SourceBass   Source = "bass"
	SourceHihat  Source = "hihat"
	SourceMelody Source = "melody"
	SourceOnset  Source = "onset"
)

// StepCandidate is a time-stamped, source-tagged proposal for where a step
// might go. Produced by the candidate builder, consumed during selection,
// never persisted past generation.
type StepCandidate struct {
	Time            float64     `json:"time"`
	Source          Source      `json:"source"`
	Priority        int         `json:"priority"`
	Strength        float64     `json:"strength"`
	SuggestedArrows []Direction `json:"suggested_arrows,omitempty"`
}

// Step is a single chart entry: one to four lanes, tap or hold.
// HoldDuration is meaningful only when Type is Hold; use NewTap/NewHold so
// the pairing cannot be constructed inconsistently.
type Step struct {
	Time         float64     `json:"time"`
	Arrows       []Direction `json:"arrows"`
	Type         StepType    `json:"type"`
	HoldDuration float64     `json:"hold_duration,omitempty"`
}

// NewTap builds a tap step
func NewTap(time float64, arrows ...Direction) Step {
	return Step{Time: time, Arrows: arrows, Type: Tap}
}

// NewHold builds a hold step. The duration must be positive; a hold without
// a duration is a construction error, not a runtime state.
func NewHold(time float64, arrow Direction, duration float64) (Step, error) {
	if duration <= 0 {
		return Step{}, fmt.Errorf("hold step at %.3f requires a positive duration, got %.3f", time, duration)
	}
	return Step{Time: time, Arrows: []Direction{arrow}, Type: Hold, HoldDuration: duration}, nil
}

// IsHold reports whether the step is a hold
func (s Step) IsHold() bool { return s.Type == Hold }

// Validate checks the type/duration co-constraint
func (s Step) Validate() error {
	if len(s.Arrows) == 0 {
		return fmt.Errorf("step at %.3f has no arrows", s.Time)
	}
	if s.Type == Hold && s.HoldDuration <= 0 {
		return fmt.Errorf("hold step at %.3f has no duration", s.Time)
	}
	if s.Type == Tap && s.HoldDuration != 0 {
		return fmt.Errorf("tap step at %.3f carries a hold duration", s.Time)
	}
	return nil
}

// Chart is the final generated chart. Immutable once returned by the engine:
// steps are sorted ascending by time and respect the difficulty's minimum gap.
type Chart struct {
	Steps      []Step  `json:"steps"`
	Difficulty string  `json:"difficulty"`
	Tempo      float64 `json:"tempo"`
	Duration   float64 `json:"duration"`
}

// Taps returns only the tap steps
func (c *Chart) Taps() []Step {
	var taps []Step
	for _, s := range c.Steps {
		if s.Type == Tap {
			taps = append(taps, s)
		}
	}
	return taps
}

// Holds returns only the hold steps
func (c *Chart) Holds() []Step {
	var holds []Step
	for _, s := range c.Steps {
		if s.Type == Hold {
			holds = append(holds, s)
		}
	}
	return holds
}

// Analysis is the read-only feature extractor output a generation runs over.
// StepCandidates, when supplied, switch the engine to the source-aware path
// instead of re-deriving candidates from beats.
type Analysis struct {
	Beats            []Beat          `json:"beats"`
	SubdivisionTimes []float64       `json:"subdivision_times,omitempty"`
	EnergySections   []EnergySection `json:"energy_sections"`
	SustainedNotes   []SustainedNote `json:"sustained_notes,omitempty"`
	Structure        SongStructure   `json:"structure"`
	Tempo            float64         `json:"tempo"`
	OnsetTimes       []float64       `json:"onset_times,omitempty"`
	DrumTrack        *DrumTrack      `json:"drum_track,omitempty"`
	WeightedOnsets   []WeightedOnset `json:"weighted_onsets,omitempty"`
	MelodyNotes      []MelodyNote    `json:"melody_notes,omitempty"`
	BandOnsets       *BandOnsets     `json:"band_onsets,omitempty"`
	StepCandidates   []StepCandidate `json:"step_candidates,omitempty"`
}
