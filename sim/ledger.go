package sim

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/lixenwraith/signal-collider/model"
	"github.com/lixenwraith/signal-collider/parameter"
)

// ErrOwnership is the panic value cause when a slot hand-off breaks protocol
var ErrOwnership = errors.New("slot ownership violation")

// Owner is the side currently holding a slot
type Owner uint32

const (
	OwnerAudio     Owner = iota // Held by the audio thread
	OwnerPublished              // In the publish queue
	OwnerRender                 // Held by the render thread
	OwnerFreed                  // In the free queue
)

var ownerNames = [...]string{
	OwnerAudio:     "audio",
	OwnerPublished: "published",
	OwnerRender:    "render",
	OwnerFreed:     "freed",
}

func (o Owner) String() string {
	if int(o) < len(ownerNames) {
		return ownerNames[o]
	}
	return "unknown"
}

// Ledger records the owner of every slot
// Each transfer is a compare-and-swap from the expected owner
type Ledger struct {
	owners [parameter.HistorySlots]atomic.Uint32
}

// Owner returns the current owner of slot i
func (l *Ledger) Owner(i int) Owner {
	return Owner(l.owners[i].Load())
}

// set assigns an owner outside the hand-off protocol, during Init only
func (l *Ledger) set(i int, o Owner) {
	l.owners[i].Store(uint32(o))
}

// transfer moves slot i from one owner to the next, panicking on violation
func (l *Ledger) transfer(i int, from, to Owner) {
	if i < 0 || i >= len(l.owners) {
		panic(fmt.Errorf("%w: slot %d out of range", ErrOwnership, i))
	}
	if !l.owners[i].CompareAndSwap(uint32(from), uint32(to)) {
		panic(fmt.Errorf("%w: slot %d is %s, expected %s", ErrOwnership, i, l.Owner(i), from))
	}
}

// Pool is the fixed set of model slots shared by both sides
// Allocated once; only the ledger's current owner may touch a slot
type Pool struct {
	slots  [parameter.HistorySlots]model.Model
	ledger Ledger
}

// Slot returns the model in slot i
func (p *Pool) Slot(i int) *model.Model {
	return &p.slots[i]
}

func (p *Pool) Ledger() *Ledger {
	return &p.ledger
}
