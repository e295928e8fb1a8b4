package sim

import (
	"fmt"

	"github.com/lixenwraith/signal-collider/message"
	"github.com/lixenwraith/signal-collider/parameter"
)

// Queues are the five one-way channels between the render and audio sides
type Queues struct {
	Input   *message.Queue // Write: render -> audio
	Control *message.Queue // Reverb, Transport, Pointer(*model.Grid): render -> audio
	Palette *message.Queue // Pointer(*palette.Bank): loader -> audio
	Publish *message.Queue // Alloc: audio -> render
	Free    *message.Queue // Free: render -> audio
}

func newQueues() *Queues {
	q := &Queues{
		Input:   message.NewQueue(parameter.QueueCapacity),
		Control: message.NewQueue(parameter.QueueCapacity),
		Palette: message.NewQueue(parameter.QueueCapacity),
		Publish: message.NewQueue(parameter.QueueCapacity),
		Free:    message.NewQueue(parameter.QueueCapacity),
	}
	// Slot hand-off pushes must never fail: each slot queue holds every index
	if q.Publish.Cap() < parameter.HistorySlots || q.Free.Cap() < parameter.HistorySlots {
		panic(fmt.Errorf("%w: slot queues smaller than %d slots", ErrOwnership, parameter.HistorySlots))
	}
	return q
}
