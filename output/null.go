package output

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/signal-collider/parameter"
)

// NullBackend discards audio while pumping the renderer at real-time pace
// Used headless and as the fallback when no device is available
type NullBackend struct {
	r          Renderer
	sampleRate int
	block      int

	frames   atomic.Uint64
	running  atomic.Bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewNull(r Renderer, sampleRate int) *NullBackend {
	return &NullBackend{
		r:          r,
		sampleRate: sampleRate,
		block:      parameter.AudioBlockFrames,
	}
}

func (b *NullBackend) Name() string {
	return BackendNull
}

func (b *NullBackend) Start() error {
	if b.running.Swap(true) {
		return nil
	}
	b.stopChan = make(chan struct{})
	b.wg.Add(1)
	go b.loop(b.stopChan)
	return nil
}

func (b *NullBackend) Stop() error {
	if !b.running.Swap(false) {
		return nil
	}
	close(b.stopChan)
	b.wg.Wait()
	return nil
}

// Frames returns the number of frames rendered so far
func (b *NullBackend) Frames() uint64 {
	return b.frames.Load()
}

func (b *NullBackend) loop(stop <-chan struct{}) {
	defer b.wg.Done()

	interval := time.Duration(b.block) * time.Second / time.Duration(b.sampleRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	buf := make([]float32, b.block*parameter.AudioChannels)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			b.r.Step(buf, b.block)
			b.frames.Add(uint64(b.block))
		}
	}
}
