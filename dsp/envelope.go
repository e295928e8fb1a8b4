package dsp

import (
	"math"

	"github.com/lixenwraith/signal-collider/parameter"
)

// Stage is the current segment of an attack-hold-release envelope
type Stage uint8

const (
	StageIdle Stage = iota
	StageAttack
	StageHold
	StageRelease
)

// Sustain as a hold length keeps the envelope open until the voice ends
const Sustain = -1

// Envelope is a linear attack-hold-release gain ramp measured in frames
// Zero value is idle. Pointer-free, copied by value with its owner
type Envelope struct {
	Stage   Stage
	Pos     int
	Attack  int
	Hold    int
	Release int
}

// CurveSeconds maps a literal to a duration on the exponential parameter curve
func CurveSeconds(v int) float64 {
	return parameter.EnvelopeCoefficient * math.Exp(parameter.EnvelopePower*float64(v))
}

// CurveFrames maps a literal to a frame count at the given sample rate
func CurveFrames(v, sampleRate int) int {
	return int(CurveSeconds(v) * float64(sampleRate))
}

// Start restarts the envelope from silence
func (e *Envelope) Start(attack, hold, release int) {
	*e = Envelope{
		Stage:   StageAttack,
		Attack:  max(attack, 0),
		Hold:    hold,
		Release: max(release, 0),
	}
}

// Active reports whether the envelope still produces gain
func (e *Envelope) Active() bool {
	return e.Stage != StageIdle
}

// Next returns the gain for the current frame and advances one frame
func (e *Envelope) Next() float32 {
	for {
		switch e.Stage {
		case StageAttack:
			if e.Pos < e.Attack {
				g := float32(e.Pos) / float32(e.Attack)
				e.Pos++
				return g
			}
			e.Stage, e.Pos = StageHold, 0
		case StageHold:
			if e.Hold == Sustain || e.Pos < e.Hold {
				e.Pos++
				return 1
			}
			e.Stage, e.Pos = StageRelease, 0
		case StageRelease:
			if e.Pos < e.Release {
				g := 1 - float32(e.Pos)/float32(e.Release)
				e.Pos++
				return g
			}
			e.Stage, e.Pos = StageIdle, 0
		default:
			return 0
		}
	}
}
