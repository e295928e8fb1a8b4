package palette

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/signal-collider/parameter"
)

// Sentinel errors
var (
	ErrEmptySound = errors.New("sound has no frames")
	ErrDecode     = errors.New("decode failed")
)

// Decode reads a WAV file and converts it to the engine sample rate
func Decode(path string, sampleRate int) (Sound, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sound{}, err
	}
	defer f.Close()

	s, err := DecodeReader(f, sampleRate)
	if err != nil {
		return Sound{}, fmt.Errorf("%s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// DecodeReader decodes WAV data from r
// Mono sources are duplicated to both channels by the decoder
func DecodeReader(r io.Reader, sampleRate int) (Sound, error) {
	stream, format, err := wav.Decode(r)
	if err != nil {
		return Sound{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer stream.Close()

	var src beep.Streamer = stream
	target := beep.SampleRate(sampleRate)
	if format.SampleRate != target {
		src = beep.Resample(parameter.PaletteResampleQuality, format.SampleRate, target, stream)
	}

	capacity := 0
	if n := stream.Len(); n > 0 {
		capacity = int(float64(n)*float64(target)/float64(format.SampleRate)) + 1
	}
	samples := make([]float32, 0, capacity*parameter.AudioChannels)

	scale := pcmScale(format.Precision)
	chunk := make([][2]float64, parameter.PaletteDecodeChunk)
	for {
		n, ok := src.Stream(chunk)
		for _, frame := range chunk[:n] {
			samples = append(samples, float32(frame[0]*scale), float32(frame[1]*scale))
		}
		if !ok || n == 0 {
			break
		}
	}
	if err := src.Err(); err != nil {
		return Sound{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	frames := len(samples) / parameter.AudioChannels
	if frames == 0 {
		return Sound{}, ErrEmptySound
	}

	return Sound{
		Channels:   format.NumChannels,
		SampleRate: int(format.SampleRate),
		Frames:     frames,
		Samples:    samples,
	}, nil
}

// pcmScale restores full scale for signed PCM
// The wav decoder divides 16 and 24 bit samples by 2^bits-1 instead of 2^(bits-1)
func pcmScale(precision int) float64 {
	switch precision {
	case 2:
		return float64(1<<16-1) / (1 << 15)
	case 3:
		return float64(1<<24-1) / (1 << 23)
	default:
		return 1
	}
}

// LoadPaths decodes each entry into the matching bank slot
// Empty and failing entries leave their slot empty; failures are logged
func LoadPaths(paths []string, sampleRate int) *Bank {
	b := &Bank{}
	for i, p := range paths {
		if i >= len(b.Sounds) {
			break
		}
		if p == "" {
			continue
		}
		s, err := Decode(p, sampleRate)
		if err != nil {
			log.Printf("palette: slot %d skipped: %v", i, err)
			continue
		}
		b.Sounds[i] = s
	}
	return b
}

// Load reads a palette list file and decodes every entry
// Only an unreadable list is an error
func Load(listPath string, sampleRate int) (*Bank, error) {
	paths, err := ReadListFile(listPath)
	if err != nil {
		return nil, err
	}
	return LoadPaths(paths, sampleRate), nil
}
