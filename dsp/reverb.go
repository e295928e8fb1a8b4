package dsp

import (
	"github.com/lixenwraith/signal-collider/parameter"
)

// Comb and allpass delays in frames at 44.1kHz, scaled to the running rate
var (
	combTuning    = [...]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	allpassTuning = [...]int{556, 441, 341, 225}
)

const (
	reverbInputGain = 0.015
	allpassFeedback = 0.5
	tuningRate      = 44100
)

type comb struct {
	buf    []float32
	pos    int
	store  float32
	fb     float32
	damp   float32
	undamp float32
}

func (c *comb) process(in float32) float32 {
	out := c.buf[c.pos]
	c.store = out*c.undamp + c.store*c.damp
	c.buf[c.pos] = in + c.store*c.fb
	if c.pos++; c.pos == len(c.buf) {
		c.pos = 0
	}
	return out
}

type allpass struct {
	buf []float32
	pos int
}

func (a *allpass) process(in float32) float32 {
	delayed := a.buf[a.pos]
	a.buf[a.pos] = in + delayed*allpassFeedback
	if a.pos++; a.pos == len(a.buf) {
		a.pos = 0
	}
	return delayed - in
}

type reverbChannel struct {
	combs     [len(combTuning)]comb
	allpasses [len(allpassTuning)]allpass
}

func (ch *reverbChannel) process(in float32) float32 {
	var acc float32
	for i := range ch.combs {
		acc += ch.combs[i].process(in)
	}
	for i := range ch.allpasses {
		acc = ch.allpasses[i].process(acc)
	}
	return acc
}

// Reverb is a stereo Schroeder-style reverberator with all delay lines
// preallocated at construction. Process never allocates
type Reverb struct {
	left, right reverbChannel
}

// NewReverb builds a reverb tuned for sampleRate
func NewReverb(sampleRate int) *Reverb {
	r := &Reverb{}
	scale := func(n int) int {
		return max(1, n*sampleRate/tuningRate)
	}
	for i, n := range combTuning {
		r.left.combs[i] = newComb(scale(n))
		r.right.combs[i] = newComb(scale(n + parameter.ReverbSpread))
	}
	for i, n := range allpassTuning {
		r.left.allpasses[i] = allpass{buf: make([]float32, scale(n))}
		r.right.allpasses[i] = allpass{buf: make([]float32, scale(n+parameter.ReverbSpread))}
	}
	return r
}

func newComb(size int) comb {
	return comb{
		buf:    make([]float32, size),
		fb:     parameter.ReverbFeedback,
		damp:   parameter.ReverbDamping,
		undamp: 1 - parameter.ReverbDamping,
	}
}

// Process returns the wet signal for one stereo frame
func (r *Reverb) Process(l, rt float32) (float32, float32) {
	in := (l + rt) * reverbInputGain
	return r.left.process(in), r.right.process(in)
}

// Apply mixes the wet signal into an interleaved stereo buffer in place
func (r *Reverb) Apply(buf []float32, wet float32) {
	for i := 0; i+1 < len(buf); i += 2 {
		wl, wr := r.Process(buf[i], buf[i+1])
		buf[i] += wl * wet
		buf[i+1] += wr * wet
	}
}

// Reset silences the tail without reallocating
func (r *Reverb) Reset() {
	r.left.reset()
	r.right.reset()
}

func (ch *reverbChannel) reset() {
	for i := range ch.combs {
		clear(ch.combs[i].buf)
		ch.combs[i].pos, ch.combs[i].store = 0, 0
	}
	for i := range ch.allpasses {
		clear(ch.allpasses[i].buf)
		ch.allpasses[i].pos = 0
	}
}
