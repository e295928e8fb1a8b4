package engine

import (
	"github.com/lixenwraith/signal-collider/dsp"
	"github.com/lixenwraith/signal-collider/model"
	"github.com/lixenwraith/signal-collider/parameter"
)

// Sampler parameters, counted east of the operator
const (
	samplerSound = iota + 1
	samplerOffset
	samplerVelocity
	samplerReverse
	samplerAttack
	samplerHold
	samplerRelease
)

// triggerSampler (re)starts the voice from the current parameters
// A missing bank, empty slot or absent index leaves the voice untouched
func (e *Engine) triggerSampler(m *model.Model, p model.Point, v *model.Voice) {
	index := m.Literal(p.East(samplerSound), -1)
	snd := e.bank.Sound(index)
	if snd == nil {
		return
	}

	offset := m.Literal(p.East(samplerOffset), 0)
	velocity := m.Literal(p.East(samplerVelocity), parameter.SamplerDefaultVelocity)
	reverse := m.Literal(p.East(samplerReverse), 0) != 0
	attack := dsp.CurveFrames(m.Literal(p.East(samplerAttack), 0), e.sampleRate)
	release := dsp.CurveFrames(m.Literal(p.East(samplerRelease), 0), e.sampleRate)
	hold := dsp.Sustain
	if h := m.Literal(p.East(samplerHold), -1); h >= 0 {
		hold = dsp.CurveFrames(h, e.sampleRate)
	}

	start := offset * snd.Frames / parameter.Radix
	if reverse {
		start = snd.Frames - 1 - start
	}

	*v = model.Voice{
		Active:  true,
		Sound:   index,
		Cursor:  start,
		Reverse: reverse,
		Gain:    float32(velocity) / parameter.Radix,
	}
	v.Env.Start(attack, hold, release)
}

// renderSampler plays until the buffer edge or the envelope end, never wrapping
func (e *Engine) renderSampler(v *model.Voice, buf []float32) {
	snd := e.bank.Sound(v.Sound)
	if snd == nil {
		v.Active = false
		return
	}

	step := 1
	if v.Reverse {
		step = -1
	}
	for i := 0; i+1 < len(buf); i += 2 {
		if v.Cursor < 0 || v.Cursor >= snd.Frames || !v.Env.Active() {
			v.Active = false
			return
		}
		g := v.Env.Next() * v.Gain
		buf[i] += snd.Samples[2*v.Cursor] * g
		buf[i+1] += snd.Samples[2*v.Cursor+1] * g
		v.Cursor += step
	}
}
