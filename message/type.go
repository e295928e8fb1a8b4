package message

import (
	"github.com/lixenwraith/signal-collider/model"
)

// Tag identifies the payload carried by a Message
type Tag uint8

const (
	TagNone      Tag = iota
	TagWrite         // Point + Value, editor edit
	TagAlloc         // Index, slot handed to the render side
	TagFree          // Index, slot handed back to the audio side
	TagPointer       // Pointer, opaque heap payload (palette bank, decoded grid)
	TagReverb        // Flag, reverb on/off
	TagTransport     // Flag, play/stop
)

var tagNames = [...]string{
	TagNone:      "none",
	TagWrite:     "write",
	TagAlloc:     "alloc",
	TagFree:      "free",
	TagPointer:   "pointer",
	TagReverb:    "reverb",
	TagTransport: "transport",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "unknown"
}

// Message is a fixed-size record exchanged between the audio and render sides
// Only the fields relevant to Tag are meaningful
type Message struct {
	Tag     Tag
	Flag    bool
	Index   int
	Point   model.Point
	Value   model.Value
	Pointer any
}

// Write requests that the cell at p be set to v
func Write(p model.Point, v model.Value) Message {
	return Message{Tag: TagWrite, Point: p, Value: v}
}

// Alloc transfers slot index to the render side
func Alloc(index int) Message {
	return Message{Tag: TagAlloc, Index: index}
}

// Free transfers slot index back to the audio side
func Free(index int) Message {
	return Message{Tag: TagFree, Index: index}
}

// Pointer carries a heap object whose ownership moves with the message
func Pointer(p any) Message {
	return Message{Tag: TagPointer, Pointer: p}
}

func Reverb(on bool) Message {
	return Message{Tag: TagReverb, Flag: on}
}

func Transport(playing bool) Message {
	return Message{Tag: TagTransport, Flag: playing}
}
