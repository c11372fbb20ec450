package chart

import (
	"fmt"
	"sort"
	"strings"
)

// DifficultyConfig is the parameter record every generation stage reads.
// The preset set is closed: beginner, intermediate and expert. Configs are
// never mutated after lookup.
type DifficultyConfig struct {
	Name                string  `json:"name"`
	MinDensity          float64 `json:"min_density"`
	MaxDensity          float64 `json:"max_density"`
	AllowSingles        bool    `json:"allow_singles"`
	AllowDoubles        bool    `json:"allow_doubles"`
	AllowHolds          bool    `json:"allow_holds"`
	HoldPercentage      float64 `json:"hold_percentage"`
	MinHoldDuration     float64 `json:"min_hold_duration"`
	MaxHoldDuration     float64 `json:"max_hold_duration"`
	UseDownbeats        bool    `json:"use_downbeats"`
	UseUpbeats          bool    `json:"use_upbeats"`
	UseOffbeats         bool    `json:"use_offbeats"`
	Use8thNotes         bool    `json:"use_8th_notes"`
	Use16thNotes        bool    `json:"use_16th_notes"`
	UseOnsets           bool    `json:"use_onsets"`
	OnsetThreshold      float64 `json:"onset_threshold"`
	MaxConsecutiveJumps int     `json:"max_consecutive_jumps"`
	MaxStreamLength     int     `json:"max_stream_length"`
	AllowCrossovers     bool    `json:"allow_crossovers"`
	AllowBrackets       bool    `json:"allow_brackets"`
	EnergyScaleFactor   float64 `json:"energy_scale_factor"`
}

// MinGap is the minimum time between consecutive steps the validator enforces
func (c DifficultyConfig) MinGap() float64 {
	switch c.Name {
	case "beginner":
		return 0.35
	case "intermediate":
		return 0.15
	case "expert":
		return 0.08
	default:
		return 0.15
	}
}

// GridDivision is the quantization grid the candidate builder snaps to
func (c DifficultyConfig) GridDivision() int {
	if c.Use16thNotes {
		return 16
	}
	return 8
}

var difficultyPresets = map[string]DifficultyConfig{
	"beginner": {
		Name:                "beginner",
		MinDensity:          0.6,
		MaxDensity:          1.2,
		AllowSingles:        true,
		AllowDoubles:        false,
		AllowHolds:          true,
		HoldPercentage:      0.15,
		MinHoldDuration:     0.8,
		MaxHoldDuration:     2.0,
		UseDownbeats:        true,
		UseUpbeats:          false,
		UseOffbeats:         false,
		Use8thNotes:         false,
		Use16thNotes:        false,
		UseOnsets:           false,
		OnsetThreshold:      0.3,
		MaxConsecutiveJumps: 0,
		MaxStreamLength:     0,
		AllowCrossovers:     false,
		AllowBrackets:       false,
		EnergyScaleFactor:   0.3,
	},
	"intermediate": {
		Name:                "intermediate",
		MinDensity:          1.3,
		MaxDensity:          2.3,
		AllowSingles:        true,
		AllowDoubles:        true,
		AllowHolds:          true,
		HoldPercentage:      0.20,
		MinHoldDuration:     0.6,
		MaxHoldDuration:     3.0,
		UseDownbeats:        true,
		UseUpbeats:          true,
		UseOffbeats:         true,
		Use8thNotes:         true,
		Use16thNotes:        false,
		UseOnsets:           false,
		OnsetThreshold:      0.3,
		MaxConsecutiveJumps: 2,
		MaxStreamLength:     6,
		AllowCrossovers:     true,
		AllowBrackets:       false,
		EnergyScaleFactor:   0.6,
	},
	"expert": {
		Name:                "expert",
		MinDensity:          2.2,
		MaxDensity:          4.0,
		AllowSingles:        true,
		AllowDoubles:        true,
		AllowHolds:          true,
		HoldPercentage:      0.25,
		MinHoldDuration:     0.5,
		MaxHoldDuration:     4.0,
		UseDownbeats:        true,
		UseUpbeats:          true,
		UseOffbeats:         true,
		Use8thNotes:         true,
		Use16thNotes:        true,
		UseOnsets:           false,
		OnsetThreshold:      0.3,
		MaxConsecutiveJumps: 4,
		MaxStreamLength:     16,
		AllowCrossovers:     true,
		AllowBrackets:       true,
		EnergyScaleFactor:   1.0,
	},
}

// DifficultyNames returns the preset names in a stable order
func DifficultyNames() []string {
	names := make([]string, 0, len(difficultyPresets))
	for name := range difficultyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetDifficultyConfig looks up a preset by name. An unknown name is a
// configuration error: generation must abort before any stage runs.
func GetDifficultyConfig(name string) (DifficultyConfig, error) {
	cfg, ok := difficultyPresets[name]
	if !ok {
		return DifficultyConfig{}, fmt.Errorf("unknown difficulty %q (available: %s)",
			name, strings.Join(DifficultyNames(), ", "))
	}
	return cfg, nil
}
