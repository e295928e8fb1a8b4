package sim

import (
	"sync/atomic"

	"github.com/lixenwraith/signal-collider/message"
	"github.com/lixenwraith/signal-collider/model"
	"github.com/lixenwraith/signal-collider/palette"
)

// Host is the render-side endpoint
// All methods except SetPalette belong to one render goroutine;
// SetPalette belongs to the single palette producer
type Host struct {
	pool *Pool
	q    *Queues

	shown    int   // Slot on display, -1 before the first Refresh
	retained []int // Older displayed slots, oldest first
	depth    int

	dropped atomic.Uint64
	stats   func() Stats
}

// Write sends an edit to the audio side
// Invalid edits and edits hitting a full queue are dropped
func (h *Host) Write(p model.Point, v model.Value) bool {
	if !p.Valid() || !v.Valid() {
		return false
	}
	return h.send(h.q.Input, message.Write(p, v))
}

// Clear empties the cell at p
func (h *Host) Clear(p model.Point) bool {
	return h.Write(p, model.None)
}

func (h *Host) SetReverb(on bool) bool {
	return h.send(h.q.Control, message.Reverb(on))
}

func (h *Host) SetTransport(playing bool) bool {
	return h.send(h.q.Control, message.Transport(playing))
}

// Load replaces the whole grid; g must not be modified afterwards
func (h *Host) Load(g *model.Grid) bool {
	if g == nil {
		return false
	}
	return h.send(h.q.Control, message.Pointer(g))
}

// SetPalette hands a bank to the audio side; b must not be modified afterwards
func (h *Host) SetPalette(b *palette.Bank) bool {
	if b == nil {
		return false
	}
	return h.send(h.q.Palette, message.Pointer(b))
}

func (h *Host) send(q *message.Queue, m message.Message) bool {
	if !q.Push(m) {
		h.dropped.Add(1)
		return false
	}
	return true
}

// Refresh takes every published snapshot, keeps the newest on display and
// up to depth older ones, and returns the rest to the audio side
func (h *Host) Refresh() *model.Model {
	for {
		msg, ok := h.q.Publish.Pop()
		if !ok {
			break
		}
		h.pool.ledger.transfer(msg.Index, OwnerPublished, OwnerRender)
		if h.shown >= 0 {
			h.retained = append(h.retained, h.shown)
		}
		h.shown = msg.Index

		for len(h.retained) > h.depth {
			h.release(h.retained[0])
			h.retained = append(h.retained[:0], h.retained[1:]...)
		}
	}
	return h.Model()
}

func (h *Host) release(idx int) {
	h.pool.ledger.transfer(idx, OwnerRender, OwnerFreed)
	if !h.q.Free.Push(message.Free(idx)) {
		// Queue capacity exceeds the slot count, a full free queue means a protocol bug
		panic(ErrOwnership)
	}
}

// Model returns the snapshot on display, nil before the first Refresh
func (h *Host) Model() *model.Model {
	if h.shown < 0 {
		return nil
	}
	return h.pool.Slot(h.shown)
}

// History returns retained snapshots, newest first, excluding the one on display
func (h *Host) History() []*model.Model {
	out := make([]*model.Model, 0, len(h.retained))
	for i := len(h.retained) - 1; i >= 0; i-- {
		out = append(out, h.pool.Slot(h.retained[i]))
	}
	return out
}

// Shown returns the slot index on display, -1 before the first Refresh
func (h *Host) Shown() int {
	return h.shown
}

// Ledger exposes slot ownership for diagnostics
func (h *Host) Ledger() *Ledger {
	return &h.pool.ledger
}

// Stats returns the shared protocol counters
func (h *Host) Stats() Stats {
	return h.stats()
}
