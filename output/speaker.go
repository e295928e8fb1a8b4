package output

import (
	"fmt"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/signal-collider/parameter"
)

// SpeakerBackend plays through beep's speaker package
type SpeakerBackend struct {
	r          Renderer
	sampleRate int

	ctrl    *beep.Ctrl
	started bool
	mu      sync.Mutex
}

func NewSpeaker(r Renderer, sampleRate int) *SpeakerBackend {
	return &SpeakerBackend{r: r, sampleRate: sampleRate}
}

func (b *SpeakerBackend) Name() string {
	return BackendSpeaker
}

func (b *SpeakerBackend) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return nil
	}

	sr := beep.SampleRate(b.sampleRate)
	if err := speaker.Init(sr, sr.N(parameter.AudioBufferDuration)); err != nil {
		return fmt.Errorf("%w: speaker: %v", ErrBackendFailed, err)
	}

	b.ctrl = &beep.Ctrl{Streamer: NewStreamer(b.r)}
	speaker.Play(b.ctrl)
	b.started = true
	return nil
}

func (b *SpeakerBackend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.started {
		return nil
	}
	b.started = false

	speaker.Lock()
	b.ctrl.Paused = true
	speaker.Unlock()

	speaker.Clear()
	speaker.Close()
	return nil
}
