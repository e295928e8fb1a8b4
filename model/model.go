package model

import (
	"math/rand/v2"

	"github.com/lixenwraith/signal-collider/dsp"
	"github.com/lixenwraith/signal-collider/parameter"
)

// Seeds of the lattice random stream, fixed so identical edits replay identically
const (
	rngSeed1 = 0x5ca1ab1e
	rngSeed2 = 0xc011de57
)

// DelayEntry is one recorded tick of a Delay cell
// Value holds literal+1, zero means nothing was recorded
type DelayEntry struct {
	Value uint8
	Bang  bool
}

// Oscillator is the running voice of a Synth cell
type Oscillator struct {
	Phase  float64 // Cycles, [0,1)
	Freq   float64 // Hz
	Amp    float32 // Current gain, slewed toward Target
	Target float32
	Gated  bool         // Envelope parameters present: sound only after a bang
	Env    dsp.Envelope // Gate for Gated oscillators
}

// Voice is the running playback of a Sampler cell
type Voice struct {
	Active  bool
	Sound   int
	Cursor  int // Frame index into the sound
	Reverse bool
	Gain    float32
	Env     dsp.Envelope
}

// State is the per-cell operator memory, reset whenever the cell's tag changes
type State struct {
	Phase int // Clock
	Held  int // Random
	Head  int // Delay ring write position
	Ring  [parameter.DelayLength]DelayEntry
	Osc   Oscillator
	Voice Voice
}

// Cell is one grid position
type Cell struct {
	Value Value
	State State
}

// Grid is a plain value layout used to load whole patches
type Grid [parameter.GridHeight][parameter.GridWidth]Value

// Model is one complete lattice snapshot. It holds no pointers, so a copy is a
// plain assignment and two models compare with ==
type Model struct {
	Cells [parameter.GridHeight][parameter.GridWidth]Cell
	Bangs [parameter.GridHeight][parameter.GridWidth]bool
	Frame uint64 // Audio frames rendered
	Ticks uint64 // Lattice evaluations
	rng   rand.PCG
}

// Init resets m to an empty lattice
func (m *Model) Init() {
	*m = Model{}
	m.rng.Seed(rngSeed1, rngSeed2)
}

// Cell returns the cell at p, nil when p is outside the grid
func (m *Model) Cell(p Point) *Cell {
	if !p.Valid() {
		return nil
	}
	return &m.Cells[p.Y][p.X]
}

// Get returns the value at p, None outside the grid
func (m *Model) Get(p Point) Value {
	if !p.Valid() {
		return None
	}
	return m.Cells[p.Y][p.X].Value
}

// Set stores v at p, rejecting out-of-range points and values
// The cell's state is cleared when the tag changes
func (m *Model) Set(p Point, v Value) bool {
	if !p.Valid() || !v.Valid() {
		return false
	}
	c := &m.Cells[p.Y][p.X]
	if c.Value.Tag != v.Tag {
		c.State = State{}
	}
	c.Value = v
	return true
}

// Load replaces every cell value from g, clearing all operator state
func (m *Model) Load(g *Grid) {
	for y := range m.Cells {
		for x := range m.Cells[y] {
			v := g[y][x]
			if !v.Valid() {
				v = None
			}
			m.Cells[y][x] = Cell{Value: v}
		}
	}
	m.Bangs = [parameter.GridHeight][parameter.GridWidth]bool{}
}

// Values copies the grid values out of m
func (m *Model) Values() Grid {
	var g Grid
	for y := range m.Cells {
		for x := range m.Cells[y] {
			g[y][x] = m.Cells[y][x].Value
		}
	}
	return g
}

// Literal returns the literal at p, or def when p holds anything else
func (m *Model) Literal(p Point, def int) int {
	v := m.Get(p)
	if v.Tag != TagLiteral {
		return def
	}
	return int(v.Literal)
}

// Banged reports whether p received a trigger during the current tick
func (m *Model) Banged(p Point) bool {
	if !p.Valid() {
		return false
	}
	return m.Bangs[p.Y][p.X]
}

// Truthy reports whether p holds a non-zero literal or was banged
func (m *Model) Truthy(p Point) bool {
	if m.Banged(p) {
		return true
	}
	v := m.Get(p)
	return v.Tag == TagLiteral && v.Literal != 0
}

// Count returns the number of non-empty cells
func (m *Model) Count() int {
	n := 0
	for y := range m.Cells {
		for x := range m.Cells[y] {
			if m.Cells[y][x].Value.Tag != TagNone {
				n++
			}
		}
	}
	return n
}
