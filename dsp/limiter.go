package dsp

import (
	"github.com/lixenwraith/signal-collider/parameter"
)

// SoftClip applies a soft knee above LimiterKnee and a hard clip at unity
func SoftClip(v float32) float32 {
	const knee = parameter.LimiterKnee
	const headroom = 1 - knee

	if v > knee {
		v = knee + headroom*(1-1/(1+(v-knee)*5))
	} else if v < -knee {
		v = -knee - headroom*(1-1/(1+(-v-knee)*5))
	}

	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return v
}

// Master scales an interleaved buffer by gain and limits every sample
func Master(buf []float32, gain float32) {
	for i, v := range buf {
		buf[i] = SoftClip(v * gain)
	}
}
