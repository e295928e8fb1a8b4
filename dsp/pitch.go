package dsp

import (
	"math"

	"github.com/lixenwraith/signal-collider/parameter"
)

// MaxPitch is the highest pitch reachable from single-digit octave and note literals
const MaxPitch = parameter.Octave*parameter.MaxLiteral + parameter.MaxLiteral

// PitchFrequencies contains precomputed frequencies for pitches 0..MaxPitch
// ReferenceRoot = ReferenceTone Hz, equal temperament
var PitchFrequencies [MaxPitch + 1]float64

func init() {
	for i := range PitchFrequencies {
		PitchFrequencies[i] = PitchHz(float64(i))
	}
}

// PitchHz converts a (fractional) pitch number to Hz
func PitchHz(pitch float64) float64 {
	return parameter.ReferenceTone * math.Pow(2, (pitch-parameter.ReferenceRoot)/parameter.Octave)
}

// PitchFreq returns the tabled frequency, pitches out of range clamp to the table ends
func PitchFreq(pitch int) float64 {
	if pitch < 0 {
		pitch = 0
	} else if pitch > MaxPitch {
		pitch = MaxPitch
	}
	return PitchFrequencies[pitch]
}
