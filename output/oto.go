package output

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/lixenwraith/signal-collider/parameter"
)

// OtoBackend plays through an oto context; oto pulls bytes via Read
type OtoBackend struct {
	r          Renderer
	sampleRate int

	ctx       *oto.Context
	player    *oto.Player
	sampleBuf []float32 // Pre-allocated, grown only if oto asks for more
	started   bool
	mutex     sync.Mutex // Setup/control only, Read is lock-free
}

func NewOto(r Renderer, sampleRate int) *OtoBackend {
	return &OtoBackend{
		r:          r,
		sampleRate: sampleRate,
		sampleBuf:  make([]float32, parameter.AudioMaxBlockFrames*parameter.AudioChannels),
	}
}

func (b *OtoBackend) Name() string {
	return BackendOto
}

func (b *OtoBackend) Start() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.started {
		return nil
	}

	if b.ctx == nil {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   b.sampleRate,
			ChannelCount: parameter.AudioChannels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   parameter.AudioBufferDuration,
		})
		if err != nil {
			return fmt.Errorf("%w: oto: %v", ErrBackendFailed, err)
		}
		<-ready
		b.ctx = ctx
	}

	b.player = b.ctx.NewPlayer(b)
	b.player.Play()
	b.started = true
	return nil
}

func (b *OtoBackend) Stop() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if !b.started {
		return nil
	}
	b.started = false
	if err := b.player.Close(); err != nil {
		return fmt.Errorf("%w: oto: %v", ErrBackendFailed, err)
	}
	b.player = nil
	return nil
}

// Read implements io.Reader for the oto player
func (b *OtoBackend) Read(p []byte) (int, error) {
	frames := len(p) / parameter.AudioBytesPerFrame
	if frames == 0 {
		clear(p)
		return len(p), nil
	}

	n := frames * parameter.AudioChannels
	if len(b.sampleBuf) < n {
		b.sampleBuf = make([]float32, n)
	}
	samples := b.sampleBuf[:n]
	b.r.Step(samples, frames)

	encodeFloat32LE(p, samples)
	clear(p[n*parameter.AudioBytesPerFloat:])
	return len(p), nil
}

// encodeFloat32LE writes samples as little-endian IEEE 754 into out
func encodeFloat32LE(out []byte, samples []float32) {
	for i, v := range samples {
		binary.LittleEndian.PutUint32(out[i*parameter.AudioBytesPerFloat:], math.Float32bits(v))
	}
}
