package engine

import (
	"math"

	"github.com/lixenwraith/signal-collider/dsp"
	"github.com/lixenwraith/signal-collider/model"
	"github.com/lixenwraith/signal-collider/parameter"
)

// Synth parameters, counted east of the operator
const (
	synthNote = iota + 1
	synthOctave
	synthVelocity
	synthAttack
	synthHold
	synthRelease
)

func (e *Engine) updateSynth(m *model.Model, p model.Point, osc *model.Oscillator) {
	note := m.Literal(p.East(synthNote), parameter.SynthDefaultNote)
	octave := m.Literal(p.East(synthOctave), parameter.SynthDefaultOctave)
	velocity := m.Literal(p.East(synthVelocity), parameter.SynthDefaultVelocity)

	osc.Freq = dsp.PitchFreq(octave*parameter.Octave + note)
	osc.Target = float32(velocity) / parameter.Radix

	// Any envelope literal turns the drone into a triggered voice
	osc.Gated = false
	for i := synthAttack; i <= synthRelease; i++ {
		if m.Get(p.East(i)).IsLiteral() {
			osc.Gated = true
		}
	}

	if !m.Banged(p) {
		return
	}
	osc.Phase = 0
	if osc.Gated {
		osc.Amp = osc.Target
		osc.Env.Start(
			dsp.CurveFrames(m.Literal(p.East(synthAttack), 0), e.sampleRate),
			dsp.CurveFrames(m.Literal(p.East(synthHold), 0), e.sampleRate),
			dsp.CurveFrames(m.Literal(p.East(synthRelease), 0), e.sampleRate),
		)
	}
}

func (e *Engine) renderSynth(osc *model.Oscillator, buf []float32) {
	if osc.Target == 0 && osc.Amp == 0 {
		return
	}
	if osc.Gated && !osc.Env.Active() {
		return
	}
	inc := osc.Freq / float64(e.sampleRate)
	for i := 0; i+1 < len(buf); i += 2 {
		osc.Amp += (osc.Target - osc.Amp) * parameter.SynthSlew
		g := osc.Amp
		if osc.Gated {
			if !osc.Env.Active() {
				return
			}
			g *= osc.Env.Next()
		}
		v := float32(math.Sin(2*math.Pi*osc.Phase)) * g
		buf[i] += v
		buf[i+1] += v

		osc.Phase += inc
		if osc.Phase >= 1 {
			osc.Phase -= 1
		}
	}
	if osc.Target == 0 && osc.Amp < 1e-6 {
		osc.Amp = 0
	}
}
