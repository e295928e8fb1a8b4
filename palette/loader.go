package palette

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/signal-collider/parameter"
)

// ErrLoaderBusy is returned when the request backlog is full
var ErrLoaderBusy = errors.New("palette loader busy")

// Publisher hands a finished bank to the audio thread
// Implementations are single-producer: only the loader goroutine calls it
type Publisher interface {
	SetPalette(b *Bank) bool
}

// Result reports the outcome of one load request
type Result struct {
	Path      string
	Populated int
	Err       error
}

// Loader decodes palettes off the real-time path and publishes them
// It is the sole producer of the palette queue
type Loader struct {
	pub        Publisher
	sampleRate int

	requests chan string
	results  chan Result
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  atomic.Bool
	stopOnce sync.Once
}

// NewLoader creates a loader publishing through pub
func NewLoader(pub Publisher, sampleRate int) *Loader {
	return &Loader{
		pub:        pub,
		sampleRate: sampleRate,
		requests:   make(chan string, parameter.LoaderRequestQueue),
		results:    make(chan Result, parameter.LoaderRequestQueue),
		stopChan:   make(chan struct{}),
	}
}

// Name implements Service
func (l *Loader) Name() string {
	return "palette"
}

// Dependencies implements Service
func (l *Loader) Dependencies() []string {
	return nil
}

// Init implements Service
func (l *Loader) Init(args ...any) error {
	return nil
}

// Start implements Service
func (l *Loader) Start() error {
	if l.running.Swap(true) {
		return nil
	}
	l.wg.Add(1)
	go l.loop()
	return nil
}

// Stop implements Service
func (l *Loader) Stop() error {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
	l.wg.Wait()
	l.running.Store(false)
	return nil
}

// Request queues a palette list for loading without blocking
func (l *Loader) Request(listPath string) error {
	select {
	case l.requests <- listPath:
		return nil
	default:
		return ErrLoaderBusy
	}
}

// Results delivers load outcomes; unread results are dropped
func (l *Loader) Results() <-chan Result {
	return l.results
}

func (l *Loader) loop() {
	defer l.wg.Done()
	for {
		select {
		case <-l.stopChan:
			return
		case path := <-l.requests:
			l.report(l.load(path))
		}
	}
}

func (l *Loader) load(path string) Result {
	bank, err := Load(path, l.sampleRate)
	if err != nil {
		log.Printf("palette: %v", err)
		return Result{Path: path, Err: err}
	}

	res := Result{Path: path, Populated: bank.Populated()}
	if !l.pub.SetPalette(bank) {
		res.Err = ErrLoaderBusy
		log.Printf("palette: %s not delivered, audio queue full", path)
		return res
	}
	log.Printf("palette: %s loaded, %d sounds", path, res.Populated)
	return res
}

func (l *Loader) report(r Result) {
	select {
	case l.results <- r:
	default:
	}
}
