package palette

import (
	"github.com/lixenwraith/signal-collider/parameter"
)

// Sound is one decoded sample buffer, interleaved stereo at the engine rate
type Sound struct {
	Path       string
	Channels   int // Channel count of the source file
	SampleRate int // Sample rate of the source file
	Frames     int
	Samples    []float32 // len == Frames*AudioChannels
}

// Empty reports whether the entry holds no audio
func (s *Sound) Empty() bool {
	return s == nil || s.Frames == 0
}

// Bank is a fixed-capacity set of sounds indexed by literal
// A bank is immutable once handed to the audio thread
type Bank struct {
	Sounds [parameter.PaletteSounds]Sound
}

// Sound returns entry i, nil when the bank is nil, i is out of range or the entry is empty
func (b *Bank) Sound(i int) *Sound {
	if b == nil || i < 0 || i >= len(b.Sounds) {
		return nil
	}
	s := &b.Sounds[i]
	if s.Empty() {
		return nil
	}
	return s
}

// Populated counts non-empty entries
func (b *Bank) Populated() int {
	if b == nil {
		return 0
	}
	n := 0
	for i := range b.Sounds {
		if !b.Sounds[i].Empty() {
			n++
		}
	}
	return n
}
