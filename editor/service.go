package editor

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/signal-collider/sim"
)

// Service owns the terminal screen and runs the editor loop
type Service struct {
	host   *sim.Host
	loader Loader

	screen tcell.Screen
	editor *Editor

	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	finiOnce sync.Once
	started  bool
}

// NewService creates the editor service; screen may be nil to open the terminal on Init
func NewService(screen tcell.Screen, host *sim.Host, loader Loader) *Service {
	return &Service{
		host:     host,
		loader:   loader,
		screen:   screen,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Name implements Service
func (s *Service) Name() string {
	return "editor"
}

// Dependencies implements Service
func (s *Service) Dependencies() []string {
	return []string{"audio", "palette"}
}

// Init implements Service
// Opens and initialises the terminal screen
func (s *Service) Init(args ...any) error {
	if s.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		s.screen = screen
	}
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	s.screen.SetStyle(tcell.StyleDefault)
	s.editor = New(s.screen, s.host, s.loader)
	return nil
}

// Start implements Service
func (s *Service) Start() error {
	if s.editor == nil {
		return fmt.Errorf("editor not initialised")
	}
	s.started = true
	go func() {
		defer close(s.done)
		defer func() {
			if r := recover(); r != nil {
				s.HandleCrash(r)
			}
		}()
		s.editor.Run(s.stopChan)
	}()
	return nil
}

// Stop implements Service
func (s *Service) Stop() error {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	if s.started {
		<-s.done
	}
	s.fini()
	return nil
}

// Done is closed when the editor loop exits, e.g. on quit
func (s *Service) Done() <-chan struct{} {
	return s.done
}

// Editor returns the running editor, nil before Init
func (s *Service) Editor() *Editor {
	return s.editor
}

func (s *Service) fini() {
	s.finiOnce.Do(func() {
		if s.screen != nil {
			s.screen.Fini()
		}
	})
}

// HandleCrash restores the terminal, prints the panic with its stack trace and exits
func (s *Service) HandleCrash(r any) {
	if r == nil {
		return
	}
	s.fini()

	fmt.Fprintf(os.Stderr, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
	os.Exit(1)
}
