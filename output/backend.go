package output

import (
	"errors"
	"fmt"
)

// Renderer fills out with frames of interleaved stereo float32 audio
// Called from a single backend goroutine
type Renderer interface {
	Step(out []float32, frames int)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(out []float32, frames int)

func (f RendererFunc) Step(out []float32, frames int) {
	f(out, frames)
}

// Backend pulls audio from a Renderer and delivers it somewhere
type Backend interface {
	Name() string
	Start() error
	Stop() error
}

// Backend names
const (
	BackendOto     = "oto"
	BackendSpeaker = "speaker"
	BackendNull    = "null"
)

// Sentinel errors
var (
	ErrUnknownBackend = errors.New("unknown audio backend")
	ErrBackendFailed  = errors.New("audio backend failed")
)

// NewBackend constructs the named backend without starting it
func NewBackend(name string, r Renderer, sampleRate int) (Backend, error) {
	switch name {
	case BackendOto, "":
		return NewOto(r, sampleRate), nil
	case BackendSpeaker:
		return NewSpeaker(r, sampleRate), nil
	case BackendNull:
		return NewNull(r, sampleRate), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}
