package parameter

import "time"

// Lattice
const (
	// GridWidth and GridHeight are fixed for the process lifetime
	GridWidth  = 32
	GridHeight = 18

	// Radix is the base of the literal numeral system
	Radix = 36

	// MaxLiteral is the largest single-digit literal
	MaxLiteral = Radix - 1

	// DelayLength is the ring size of a Delay cell
	DelayLength = Radix

	// ScaleCount is the number of built-in scale tables
	ScaleCount = 10
)

// Simulation Timing
const (
	// TickFrames is the number of audio frames between lattice evaluations
	TickFrames = 4500
)

// Slot Pool & Queues
const (
	// HistorySlots is the fixed number of preallocated model snapshots
	HistorySlots = 32

	// QueueCapacity is the default ring size of every message queue
	// Must be a power of two and at least HistorySlots
	QueueCapacity = 256

	// MaxHistoryDepth bounds how many older snapshots the render side may retain
	// Leaves room for the audio slot, the displayed slot and one in flight
	MaxHistoryDepth = HistorySlots - 4
)

// Palette
const (
	// PaletteSounds is the fixed capacity of a palette bank, one per literal
	PaletteSounds = Radix

	// PaletteResampleQuality is passed to beep.Resample
	PaletteResampleQuality = 4

	// PaletteDecodeChunk is frames pulled per Stream call while decoding
	PaletteDecodeChunk = 1024
)

// Editor
const (
	// FrameUpdateInterval is the editor redraw interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// EventChannelSize buffers terminal events between poll goroutine and loop
	EventChannelSize = 100

	// ConsoleBuffer is the maximum console line length
	ConsoleBuffer = 256

	// LoaderRequestQueue is the palette loader request backlog
	LoaderRequestQueue = 4
)
