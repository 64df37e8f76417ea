package mapview

import "math"

const (
	MinPitch  = 0
	MaxPitch  = 85
	PitchStep = 5
)

// PitchPreset is a named camera tilt.
type PitchPreset struct {
	Label string  `json:"label"`
	Pitch float64 `json:"pitch"`
}

// PitchPresets are the quick-select tilts.
var PitchPresets = []PitchPreset{
	{Label: "Flat", Pitch: 0},
	{Label: "Low", Pitch: 30},
	{Label: "Med", Pitch: 50},
	{Label: "High", Pitch: 70},
}

// ClampPitch snaps p to the nearest step inside the allowed range.
func ClampPitch(p float64) float64 {
	if math.IsNaN(p) {
		return VerdeStation.Pitch
	}
	p = math.Round(p/PitchStep) * PitchStep
	return math.Max(MinPitch, math.Min(MaxPitch, p))
}
