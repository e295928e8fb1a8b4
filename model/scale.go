package model

import (
	"github.com/lixenwraith/signal-collider/parameter"
)

// Scale tables as semitone offsets within one octave, indexed by literal mod ScaleCount
var scales = [parameter.ScaleCount][]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, // chromatic
	{0, 2, 4, 5, 7, 9, 11},                 // major
	{0, 2, 3, 5, 7, 8, 10},                 // natural minor
	{0, 2, 4, 7, 9},                        // major pentatonic
	{0, 3, 5, 7, 10},                       // minor pentatonic
	{0, 2, 3, 5, 7, 9, 10},                 // dorian
	{0, 2, 4, 5, 7, 9, 10},                 // mixolydian
	{0, 2, 3, 5, 7, 8, 11},                 // harmonic minor
	{0, 3, 5, 6, 7, 10},                    // blues
	{0, 2, 4, 6, 8, 10},                    // whole tone
}

// Quantize snaps note to the nearest member of scale table within note's octave
// Ties resolve downwards
func Quantize(note, table int) int {
	if note < 0 {
		note = 0
	}
	members := scales[((table%parameter.ScaleCount)+parameter.ScaleCount)%parameter.ScaleCount]
	octave := note / parameter.Octave
	degree := note % parameter.Octave

	best, bestDist := members[0], parameter.Octave
	for _, m := range members {
		if d := abs(degree - m); d < bestDist {
			best, bestDist = m, d
		}
	}
	return octave*parameter.Octave + best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
