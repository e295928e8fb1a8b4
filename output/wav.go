package output

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/signal-collider/parameter"
)

// RenderOptions describes an offline render
type RenderOptions struct {
	SampleRate int
	Frames     int
	Precision  int     // Bytes per sample: 2 or 3
	Gain       float64 // Linear output gain, 1 = unchanged
}

// RenderWAV pulls opts.Frames frames from r and encodes them as WAV
func RenderWAV(w io.WriteSeeker, r Renderer, opts RenderOptions) error {
	if opts.Precision == 0 {
		opts.Precision = 2
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(opts.SampleRate),
		NumChannels: parameter.AudioChannels,
		Precision:   opts.Precision,
	}

	var s beep.Streamer = beep.Take(opts.Frames, NewStreamer(r))
	if opts.Gain != 1 && opts.Gain != 0 {
		s = newVolume(s, opts.Gain)
	}

	if err := wav.Encode(w, s, format); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}

// RenderWAVFile renders into a new file at path
func RenderWAVFile(path string, r Renderer, opts RenderOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := RenderWAV(f, r, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// newVolume wraps s in a linear gain; negative gain is silence
func newVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain), Silent: false}
}
