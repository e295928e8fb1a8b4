package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate    = 48000
	AudioChannels      = 2
	AudioBytesPerFloat = 4
	AudioBytesPerFrame = AudioChannels * AudioBytesPerFloat // 8 bytes, float32 LE stereo
)

// Audio Backend Timing
const (
	// AudioBufferDuration is the device buffer requested from the backend
	AudioBufferDuration = 40 * time.Millisecond

	// AudioBlockFrames is the block size used by the null backend pump
	AudioBlockFrames = 512

	// AudioMaxBlockFrames bounds the preallocated conversion buffers
	// Backends asking for more grow the buffer once, off the steady state
	AudioMaxBlockFrames = 8192
)

// Pitch
const (
	// ReferenceTone is the frequency of ReferenceRoot in Hz
	ReferenceTone = 440.0

	// ReferenceRoot is the pitch number that sounds at ReferenceTone
	ReferenceRoot = 33

	// Octave is semitones per octave
	Octave = 12
)

// Synth Operator Defaults
const (
	SynthDefaultNote     = 0
	SynthDefaultOctave   = 2
	SynthDefaultVelocity = 12

	// SynthSlew is the per-sample amplitude smoothing coefficient
	SynthSlew = 0.002
)

// Sampler Operator Defaults
const (
	SamplerDefaultVelocity = 35
)

// Envelope curve: seconds = EnvelopeCoefficient * e^(EnvelopePower * literal)
const (
	EnvelopeCoefficient = 0.0001
	EnvelopePower       = 0.3
)

// Reverb
const (
	ReverbWet      = 0.12
	ReverbFeedback = 0.84
	ReverbDamping  = 0.2
	ReverbSpread   = 23
)

// Master Output
const (
	DefaultMasterVolume = 0.8

	// LimiterKnee is where the soft limiter starts compressing
	LimiterKnee = 0.8
)
