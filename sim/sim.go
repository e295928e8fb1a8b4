package sim

import (
	"sync/atomic"

	"github.com/lixenwraith/signal-collider/engine"
	"github.com/lixenwraith/signal-collider/message"
	"github.com/lixenwraith/signal-collider/model"
	"github.com/lixenwraith/signal-collider/palette"
	"github.com/lixenwraith/signal-collider/parameter"
)

// Config tunes the render-side history
type Config struct {
	// HistoryDepth is how many older snapshots Host retains besides the current one
	HistoryDepth int
}

// Stats are protocol counters, readable from any goroutine
type Stats struct {
	Blocks    uint64 // Step calls that rendered audio
	Published uint64 // Snapshots handed to the render side
	Starved   uint64 // Publishes skipped for lack of a free slot
	Dropped   uint64 // Render-side messages lost to full queues

	// Audio-side state as of the last block
	Playing bool
	Reverb  bool
	Sounds  int // Populated palette entries
}

// Sim is the audio-side coordinator
// Step must only be called from the audio thread; it never blocks, allocates or logs
type Sim struct {
	pool   *Pool
	q      *Queues
	engine *engine.Engine

	current int // Slot exclusively owned and mutated by the audio thread, -1 before first Step
	free    [parameter.HistorySlots]int
	nfree   int

	blocks    atomic.Uint64
	published atomic.Uint64
	starved   atomic.Uint64
	dropped   *atomic.Uint64

	playing atomic.Bool
	reverb  atomic.Bool
	sounds  atomic.Int32
}

// Init builds the slot pool and both endpoints
// Slot 0 is initialised and published; the rest are handed to the audio side
func Init(e *engine.Engine, cfg Config) (*Sim, *Host) {
	pool := new(Pool)
	q := newQueues()

	pool.Slot(0).Init()
	pool.ledger.set(0, OwnerPublished)
	q.Publish.Push(message.Alloc(0))

	for i := 1; i < parameter.HistorySlots; i++ {
		pool.ledger.set(i, OwnerFreed)
		q.Free.Push(message.Free(i))
	}

	depth := min(max(cfg.HistoryDepth, 0), parameter.MaxHistoryDepth)
	h := &Host{
		pool:     pool,
		q:        q,
		shown:    -1,
		depth:    depth,
		retained: make([]int, 0, depth+1),
	}
	s := &Sim{
		pool:    pool,
		q:       q,
		engine:  e,
		current: -1,
		dropped: &h.dropped,
	}
	s.playing.Store(e.Playing())
	s.reverb.Store(e.Reverb())
	s.sounds.Store(int32(e.Palette().Populated()))
	h.stats = s.Stats
	return s, h
}

// Engine returns the audio engine driven by this coordinator
func (s *Sim) Engine() *engine.Engine {
	return s.engine
}

// Step processes pending messages, renders one block and publishes a snapshot
func (s *Sim) Step(out []float32, frames int) {
	if frames <= 0 {
		return
	}

	s.drainFree()
	m := s.claim()
	if m == nil {
		// Every slot is held elsewhere; keep the device fed
		clear(out[:min(len(out), frames*parameter.AudioChannels)])
		s.starved.Add(1)
		return
	}

	s.drainPalette()
	s.drainControl(m)
	s.drainInput(m)

	s.engine.Step(m, out, frames)
	s.blocks.Add(1)

	s.publish(m)
}

// Stats returns a snapshot of the protocol counters
func (s *Sim) Stats() Stats {
	return Stats{
		Blocks:    s.blocks.Load(),
		Published: s.published.Load(),
		Starved:   s.starved.Load(),
		Dropped:   s.dropped.Load(),
		Playing:   s.playing.Load(),
		Reverb:    s.reverb.Load(),
		Sounds:    int(s.sounds.Load()),
	}
}

func (s *Sim) drainFree() {
	for {
		msg, ok := s.q.Free.Pop()
		if !ok {
			return
		}
		s.pool.ledger.transfer(msg.Index, OwnerFreed, OwnerAudio)
		s.free[s.nfree] = msg.Index
		s.nfree++
	}
}

// claim returns the working model, taking the first free slot on first use
func (s *Sim) claim() *model.Model {
	if s.current < 0 {
		if s.nfree == 0 {
			return nil
		}
		s.nfree--
		s.current = s.free[s.nfree]
		s.pool.Slot(s.current).Init()
	}
	return s.pool.Slot(s.current)
}

func (s *Sim) drainPalette() {
	for {
		msg, ok := s.q.Palette.Pop()
		if !ok {
			return
		}
		if b, ok := msg.Pointer.(*palette.Bank); ok && msg.Tag == message.TagPointer {
			s.engine.SetPalette(b)
			s.sounds.Store(int32(b.Populated()))
		}
	}
}

func (s *Sim) drainControl(m *model.Model) {
	for {
		msg, ok := s.q.Control.Pop()
		if !ok {
			return
		}
		switch msg.Tag {
		case message.TagReverb:
			s.engine.SetReverb(msg.Flag)
			s.reverb.Store(s.engine.Reverb())
		case message.TagTransport:
			s.engine.SetPlaying(msg.Flag)
			s.playing.Store(s.engine.Playing())
		case message.TagPointer:
			if g, ok := msg.Pointer.(*model.Grid); ok {
				m.Load(g)
			}
		}
	}
}

func (s *Sim) drainInput(m *model.Model) {
	for {
		msg, ok := s.q.Input.Pop()
		if !ok {
			return
		}
		if msg.Tag == message.TagWrite {
			m.Set(msg.Point, msg.Value)
		}
	}
}

// publish copies the working model into a free slot and hands it to the render side
func (s *Sim) publish(m *model.Model) {
	if s.nfree == 0 {
		s.starved.Add(1)
		return
	}
	s.nfree--
	idx := s.free[s.nfree]

	*s.pool.Slot(idx) = *m
	s.pool.ledger.transfer(idx, OwnerAudio, OwnerPublished)
	if !s.q.Publish.Push(message.Alloc(idx)) {
		s.pool.ledger.transfer(idx, OwnerPublished, OwnerAudio)
		s.free[s.nfree] = idx
		s.nfree++
		s.starved.Add(1)
		return
	}
	s.published.Add(1)
}
