package engine

import (
	"github.com/lixenwraith/signal-collider/dsp"
	"github.com/lixenwraith/signal-collider/model"
	"github.com/lixenwraith/signal-collider/palette"
	"github.com/lixenwraith/signal-collider/parameter"
)

// Config holds engine construction parameters
type Config struct {
	SampleRate int
	TickFrames int     // Frames between lattice evaluations
	Volume     float64 // Master gain, 0.0-1.0
	Reverb     bool
	Stopped    bool // Start with the transport stopped
}

// DefaultConfig returns the engine defaults
func DefaultConfig() Config {
	return Config{
		SampleRate: parameter.AudioSampleRate,
		TickFrames: parameter.TickFrames,
		Volume:     parameter.DefaultMasterVolume,
	}
}

// Engine renders a Model into interleaved stereo audio
// Owned by the audio thread: no method is safe for concurrent use
type Engine struct {
	sampleRate int
	period     uint64
	volume     float32

	bank     *palette.Bank
	reverb   *dsp.Reverb
	reverbOn bool
	playing  bool
}

// New creates an engine, all buffers are allocated here
func New(cfg Config) *Engine {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = parameter.AudioSampleRate
	}
	if cfg.TickFrames <= 0 {
		cfg.TickFrames = parameter.TickFrames
	}
	return &Engine{
		sampleRate: cfg.SampleRate,
		period:     uint64(cfg.TickFrames),
		volume:     float32(min(max(cfg.Volume, 0), 1)),
		reverb:     dsp.NewReverb(cfg.SampleRate),
		reverbOn:   cfg.Reverb,
		playing:    !cfg.Stopped,
	}
}

func (e *Engine) SampleRate() int {
	return e.sampleRate
}

// SetPalette swaps the sound bank; voices referencing missing entries go silent
func (e *Engine) SetPalette(b *palette.Bank) {
	e.bank = b
}

func (e *Engine) Palette() *palette.Bank {
	return e.bank
}

// SetReverb toggles the reverb; enabling starts from an empty tail
func (e *Engine) SetReverb(on bool) {
	if on && !e.reverbOn {
		e.reverb.Reset()
	}
	e.reverbOn = on
}

func (e *Engine) Reverb() bool {
	return e.reverbOn
}

// SetPlaying starts or stops the transport
// A stopped engine outputs silence and leaves the model untouched
func (e *Engine) SetPlaying(on bool) {
	e.playing = on
}

func (e *Engine) Playing() bool {
	return e.playing
}

// Step advances m by frames and writes frames*AudioChannels samples to out
// The block is split at tick boundaries so output does not depend on block size
func (e *Engine) Step(m *model.Model, out []float32, frames int) {
	if frames <= 0 {
		return
	}
	if limit := len(out) / parameter.AudioChannels; frames > limit {
		frames = limit
	}
	out = out[:frames*parameter.AudioChannels]
	clear(out)

	if !e.playing {
		return
	}

	done := 0
	for done < frames {
		if m.Frame%e.period == 0 {
			e.tick(m)
		}
		untilTick := int(e.period - m.Frame%e.period)
		n := min(frames-done, untilTick)
		e.render(m, out[done*parameter.AudioChannels:(done+n)*parameter.AudioChannels])
		done += n
		m.Frame += uint64(n)
	}

	if e.reverbOn {
		e.reverb.Apply(out, parameter.ReverbWet)
	}
	dsp.Master(out, e.volume)
}

// tick evaluates the lattice, then lets audio operators read their parameters
func (e *Engine) tick(m *model.Model) {
	m.Tick()
	for y := range m.Cells {
		for x := range m.Cells[y] {
			c := &m.Cells[y][x]
			p := model.Point{X: x, Y: y}
			switch c.Value.Tag {
			case model.TagSynth:
				e.updateSynth(m, p, &c.State.Osc)
			case model.TagSampler:
				if m.Banged(p) {
					e.triggerSampler(m, p, &c.State.Voice)
				}
			}
		}
	}
}

// render mixes every running voice into buf
func (e *Engine) render(m *model.Model, buf []float32) {
	for y := range m.Cells {
		for x := range m.Cells[y] {
			c := &m.Cells[y][x]
			switch c.Value.Tag {
			case model.TagSynth:
				e.renderSynth(&c.State.Osc, buf)
			case model.TagSampler:
				if c.State.Voice.Active {
					e.renderSampler(&c.State.Voice, buf)
				}
			}
		}
	}
}
