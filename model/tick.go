package model

import (
	"github.com/lixenwraith/signal-collider/parameter"
)

// Tick evaluates every operator once in reading order
// Outputs go south, so values and bangs cascade downwards within one tick
func (m *Model) Tick() {
	m.Bangs = [parameter.GridHeight][parameter.GridWidth]bool{}
	for y := 0; y < parameter.GridHeight; y++ {
		for x := 0; x < parameter.GridWidth; x++ {
			m.evaluate(Point{x, y})
		}
	}
	m.Ticks++
}

func (m *Model) evaluate(p Point) {
	c := &m.Cells[p.Y][p.X]
	west := p.Step(DirectionWest)
	east := p.Step(DirectionEast)
	south := p.Step(DirectionSouth)

	switch c.Value.Tag {
	case TagAdd:
		m.emit(south, wrap(m.Literal(west, 0)+m.Literal(east, 0)))

	case TagSub:
		m.emit(south, wrap(m.Literal(west, 0)-m.Literal(east, 0)))

	case TagMul:
		m.emit(south, wrap(m.Literal(west, 0)*m.Literal(east, 0)))

	case TagIf:
		src := east
		if m.Truthy(p.Step(DirectionNorth)) {
			src = west
		}
		if v := m.Get(src); v.Tag == TagLiteral {
			m.emit(south, int(v.Literal))
		}
		if m.Banged(src) {
			m.bang(south)
		}

	case TagClock:
		rate := m.Literal(west, 1)
		if rate == 0 {
			return
		}
		c.State.Phase++
		if c.State.Phase >= rate {
			c.State.Phase = 0
			m.bang(south)
		}

	case TagDelay:
		length := min(max(m.Literal(east, 1), 0), parameter.DelayLength-1)
		in := DelayEntry{Bang: m.Banged(west)}
		if v := m.Get(west); v.Tag == TagLiteral {
			in.Value = uint8(v.Literal) + 1
		}
		head := c.State.Head
		c.State.Ring[head] = in
		out := c.State.Ring[(head-length+parameter.DelayLength)%parameter.DelayLength]
		c.State.Head = (head + 1) % parameter.DelayLength
		if out.Value > 0 {
			m.emit(south, int(out.Value)-1)
		}
		if out.Bang {
			m.bang(south)
		}

	case TagRandom:
		lo, hi := m.Literal(west, 0), m.Literal(east, parameter.MaxLiteral)
		if lo > hi {
			lo, hi = hi, lo
		}
		if m.Banged(p) {
			c.State.Held = lo + int(m.rng.Uint64()%uint64(hi-lo+1))
		}
		m.emit(south, min(max(c.State.Held, lo), hi))

	case TagGenerate:
		if m.Banged(p) || m.Literal(west, 0) != 0 {
			m.bang(south)
		}

	case TagScale:
		if v := m.Get(west); v.Tag == TagLiteral {
			m.emit(south, Quantize(int(v.Literal), m.Literal(east, 0)))
		}
	}
}

// emit writes a literal to p unless p holds an operator
func (m *Model) emit(p Point, n int) {
	if !p.Valid() {
		return
	}
	c := &m.Cells[p.Y][p.X]
	switch c.Value.Tag {
	case TagNone, TagLiteral:
		c.Value = Lit(n)
	}
}

func (m *Model) bang(p Point) {
	if p.Valid() {
		m.Bangs[p.Y][p.X] = true
	}
}

func wrap(n int) int {
	return ((n % parameter.Radix) + parameter.Radix) % parameter.Radix
}
