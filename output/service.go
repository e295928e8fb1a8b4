package output

import (
	"log"
	"sync/atomic"
)

// Service wraps a Backend as a Service
// Handles graceful degradation: a failing device falls back to the null backend
type Service struct {
	name       string
	r          Renderer
	sampleRate int

	backend  Backend
	degraded atomic.Bool
}

// NewService creates an audio service for the named backend
func NewService(backend string, r Renderer, sampleRate int) *Service {
	return &Service{name: backend, r: r, sampleRate: sampleRate}
}

// Name implements Service
func (s *Service) Name() string {
	return "audio"
}

// Dependencies implements Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements Service
// Unknown backends degrade to null (no error returned)
func (s *Service) Init(args ...any) error {
	b, err := NewBackend(s.name, s.r, s.sampleRate)
	if err != nil {
		log.Printf("audio: %v, using null backend", err)
		b = NewNull(s.r, s.sampleRate)
		s.degraded.Store(true)
	}
	s.backend = b
	return nil
}

// Start implements Service
// Device failures degrade to null (no error returned)
func (s *Service) Start() error {
	if s.backend == nil {
		s.Init()
	}
	if err := s.backend.Start(); err != nil {
		log.Printf("audio: %v, using null backend", err)
		s.backend = NewNull(s.r, s.sampleRate)
		s.degraded.Store(true)
		return s.backend.Start()
	}
	log.Printf("audio: %s backend at %d Hz", s.backend.Name(), s.sampleRate)
	return nil
}

// Stop implements Service
func (s *Service) Stop() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Stop()
}

// Backend returns the active backend name
func (s *Service) Backend() string {
	if s.backend == nil {
		return ""
	}
	return s.backend.Name()
}

// IsDegraded reports whether the requested backend was replaced by null
func (s *Service) IsDegraded() bool {
	return s.degraded.Load()
}
