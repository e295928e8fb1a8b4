package output

import (
	"github.com/lixenwraith/signal-collider/parameter"
)

// Streamer adapts a Renderer to beep.Streamer
type Streamer struct {
	r   Renderer
	buf []float32
}

func NewStreamer(r Renderer) *Streamer {
	return &Streamer{
		r:   r,
		buf: make([]float32, parameter.AudioMaxBlockFrames*parameter.AudioChannels),
	}
}

// Stream implements beep.Streamer; it never drains
func (s *Streamer) Stream(samples [][2]float64) (int, bool) {
	n := len(samples)
	if n == 0 {
		return 0, true
	}
	if len(s.buf) < n*parameter.AudioChannels {
		s.buf = make([]float32, n*parameter.AudioChannels)
	}
	buf := s.buf[:n*parameter.AudioChannels]
	s.r.Step(buf, n)

	for i := range samples {
		samples[i][0] = float64(buf[2*i])
		samples[i][1] = float64(buf[2*i+1])
	}
	return n, true
}

// Err implements beep.Streamer
func (s *Streamer) Err() error {
	return nil
}
