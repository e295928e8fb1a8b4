package model

import (
	"testing"

	"github.com/lixenwraith/signal-collider/parameter"
)

func newModel() *Model {
	m := &Model{}
	m.Init()
	return m
}

// place writes a row of glyphs starting at (x, y)
func place(t *testing.T, m *Model, x, y int, glyphs string) {
	t.Helper()
	for i, r := range glyphs {
		v, ok := ParseGlyph(r)
		if !ok {
			t.Fatalf("bad glyph %q", r)
		}
		if !m.Set(Point{x + i, y}, v) {
			t.Fatalf("Set(%d,%d) failed", x+i, y)
		}
	}
}

func TestGlyphRoundTrip(t *testing.T) {
	for _, r := range ".0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ=~cdr!#+-*$" {
		v, ok := ParseGlyph(r)
		if !ok {
			t.Errorf("ParseGlyph(%q) failed", r)
			continue
		}
		if v.Glyph() != r {
			t.Errorf("Expected glyph %q, got %q", r, v.Glyph())
		}
	}

	for _, r := range "abxyz /?@" {
		if _, ok := ParseGlyph(r); ok {
			t.Errorf("ParseGlyph(%q) should fail", r)
		}
	}
}

func TestSetValidation(t *testing.T) {
	m := newModel()

	tests := []struct {
		name string
		p    Point
		v    Value
		ok   bool
	}{
		{"origin", Point{0, 0}, Lit(5), true},
		{"far corner", Point{parameter.GridWidth - 1, parameter.GridHeight - 1}, Op(TagSynth), true},
		{"negative x", Point{-1, 0}, Lit(1), false},
		{"past width", Point{parameter.GridWidth, 0}, Lit(1), false},
		{"past height", Point{0, parameter.GridHeight}, Lit(1), false},
		{"literal too large", Point{1, 1}, Lit(parameter.Radix), false},
		{"negative literal", Point{1, 1}, Lit(-1), false},
		{"unknown tag", Point{1, 1}, Value{Tag: tagCount}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Set(tt.p, tt.v); got != tt.ok {
				t.Errorf("Set(%v, %v) = %v, want %v", tt.p, tt.v, got, tt.ok)
			}
		})
	}

	if m.Get(Point{1, 1}) != None {
		t.Error("Rejected writes must not modify the grid")
	}
}

func TestSetResetsStateOnTagChange(t *testing.T) {
	m := newModel()
	p := Point{4, 4}

	m.Set(p, Op(TagClock))
	m.Cell(p).State.Phase = 7

	m.Set(p, Op(TagClock))
	if m.Cell(p).State.Phase != 7 {
		t.Error("Rewriting the same operator should keep its state")
	}

	m.Set(p, Op(TagDelay))
	if m.Cell(p).State != (State{}) {
		t.Error("Changing operator should reset state")
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want int
	}{
		{"add", "2+5", 7},
		{"add wraps", "Z+2", 1},
		{"sub", "9-4", 5},
		{"sub wraps non-negative", "2-5", 33},
		{"mul", "3*4", 12},
		{"mul wraps", "7*6", 6},
		{"missing operands default to zero", ".+.", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel()
			place(t, m, 0, 0, tt.row)
			m.Tick()
			if got := m.Literal(Point{1, 1}, -1); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCascadeWithinTick(t *testing.T) {
	m := newModel()
	place(t, m, 0, 0, "2+3")
	place(t, m, 2, 1, "+1")

	m.Tick()

	if got := m.Literal(Point{1, 1}, -1); got != 5 {
		t.Fatalf("Expected 5 at (1,1), got %d", got)
	}
	if got := m.Literal(Point{2, 2}, -1); got != 6 {
		t.Errorf("Expected downstream add to see 5 in the same tick, got %d", got)
	}
}

func TestOutputNeverClobbersOperator(t *testing.T) {
	m := newModel()
	place(t, m, 0, 0, "2+3")
	place(t, m, 1, 1, "c")

	m.Tick()

	if m.Get(Point{1, 1}) != Op(TagClock) {
		t.Errorf("Operator south of Add was overwritten: %v", m.Get(Point{1, 1}))
	}
}

func TestIf(t *testing.T) {
	tests := []struct {
		name string
		cond string
		want int
	}{
		{"truthy takes west", "1", 4},
		{"zero takes east", "0", 9},
		{"empty takes east", ".", 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel()
			place(t, m, 1, 0, tt.cond)
			place(t, m, 0, 1, "4=9")
			m.Tick()
			if got := m.Literal(Point{1, 2}, -1); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestIfForwardsBang(t *testing.T) {
	m := newModel()
	// Clock at (0,0) bangs (0,1), the west input of the If at (1,1)
	place(t, m, 0, 0, "c")
	place(t, m, 1, 0, "1")
	place(t, m, 1, 1, "=")

	m.Tick()

	if !m.Banged(Point{1, 2}) {
		t.Error("If should forward the bang of the selected side")
	}
}

func TestClock(t *testing.T) {
	m := newModel()
	place(t, m, 0, 0, "3c")

	var fired []int
	for tick := 1; tick <= 9; tick++ {
		m.Tick()
		if m.Banged(Point{1, 1}) {
			fired = append(fired, tick)
		}
	}

	want := []int{3, 6, 9}
	if len(fired) != len(want) {
		t.Fatalf("Expected bangs at %v, got %v", want, fired)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("Expected bangs at %v, got %v", want, fired)
		}
	}
}

func TestClockDefaultsAndHalt(t *testing.T) {
	m := newModel()
	place(t, m, 1, 0, "c")
	place(t, m, 3, 0, "0c")

	for i := 0; i < 4; i++ {
		m.Tick()
		if !m.Banged(Point{1, 1}) {
			t.Errorf("tick %d: default-rate clock should bang every tick", i)
		}
		if m.Banged(Point{4, 1}) {
			t.Errorf("tick %d: zero-rate clock should be halted", i)
		}
	}
}

func TestDelayLiteral(t *testing.T) {
	m := newModel()
	place(t, m, 0, 0, "9d2")

	m.Tick()
	m.Tick()
	if m.Get(Point{1, 1}) != None {
		t.Fatalf("Delay emitted early: %v", m.Get(Point{1, 1}))
	}

	m.Tick()
	if got := m.Literal(Point{1, 1}, -1); got != 9 {
		t.Errorf("Expected delayed 9, got %d", got)
	}
}

func TestDelayZeroLengthPassesThrough(t *testing.T) {
	m := newModel()
	place(t, m, 0, 0, "7d0")

	m.Tick()
	if got := m.Literal(Point{1, 1}, -1); got != 7 {
		t.Errorf("Expected immediate 7, got %d", got)
	}
}

func TestDelayBang(t *testing.T) {
	m := newModel()
	// Generate at (1,0) bangs (1,1), the west input of the Delay at (2,1)
	place(t, m, 0, 0, "1!")
	place(t, m, 2, 1, "d1")

	m.Tick()
	if m.Banged(Point{2, 2}) {
		t.Fatal("Delayed bang arrived on the first tick")
	}
	m.Tick()
	if !m.Banged(Point{2, 2}) {
		t.Error("Expected delayed bang one tick later")
	}
}

func TestRandom(t *testing.T) {
	m := newModel()
	place(t, m, 0, 1, "3r5")

	m.Tick()
	if got := m.Literal(Point{1, 2}, -1); got != 3 {
		t.Fatalf("Unbanged random should hold its minimum, got %d", got)
	}

	// Trigger every tick through a generator above the random cell
	place(t, m, 0, 0, "1!")
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		m.Tick()
		got := m.Literal(Point{1, 2}, -1)
		if got < 3 || got > 5 {
			t.Fatalf("Random value %d out of range [3,5]", got)
		}
		seen[got] = true
	}
	if len(seen) != 3 {
		t.Errorf("Expected all of 3..5 over 200 draws, got %v", seen)
	}
}

func TestRandomDeterministic(t *testing.T) {
	run := func() []int {
		m := newModel()
		place(t, m, 0, 0, "1!")
		place(t, m, 1, 1, "r")
		out := make([]int, 50)
		for i := range out {
			m.Tick()
			out[i] = m.Literal(Point{1, 2}, -1)
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Random stream diverged at %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestGenerate(t *testing.T) {
	m := newModel()
	place(t, m, 0, 0, "1!")
	place(t, m, 3, 0, "0!")

	m.Tick()
	if !m.Banged(Point{1, 1}) {
		t.Error("Generate with non-zero west should bang")
	}
	if m.Banged(Point{4, 1}) {
		t.Error("Generate with zero west should not bang")
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		note, table, want int
	}{
		{13, 0, 13}, // chromatic is identity
		{13, 1, 12}, // major: 1 ties between 0 and 2, resolves down
		{18, 1, 17}, // major: 6 ties between 5 and 7
		{23, 1, 23}, // major: 11 is a member
		{16, 3, 16}, // major pentatonic: 4 is a member
		{17, 3, 16}, // major pentatonic: 5 nearest 4
		{13, 11, 12},
	}

	for _, tt := range tests {
		if got := Quantize(tt.note, tt.table); got != tt.want {
			t.Errorf("Quantize(%d, %d) = %d, want %d", tt.note, tt.table, got, tt.want)
		}
	}

	m := newModel()
	place(t, m, 0, 0, "D#1")
	m.Tick()
	if got := m.Literal(Point{1, 1}, -1); got != 12 {
		t.Errorf("Expected scale operator to emit 12, got %d", got)
	}
}

func TestModelCopyIsIndependent(t *testing.T) {
	m := newModel()
	place(t, m, 0, 0, "3c")
	m.Tick()

	snapshot := *m
	if snapshot != *m {
		t.Fatal("Copy should compare equal")
	}

	m.Set(Point{5, 5}, Lit(1))
	m.Tick()
	if snapshot == *m {
		t.Error("Mutating the original changed the copy")
	}
	if snapshot.Get(Point{5, 5}) != None {
		t.Error("Copy shares cell storage with original")
	}
}

func TestLoadClearsState(t *testing.T) {
	m := newModel()
	place(t, m, 0, 0, "3c")
	m.Tick()
	ticks := m.Ticks

	var g Grid
	g[2][2] = Lit(4)
	m.Load(&g)

	if m.Get(Point{1, 0}) != None || m.Literal(Point{2, 2}, -1) != 4 {
		t.Error("Load did not replace grid values")
	}
	if m.Ticks != ticks {
		t.Error("Load should keep counters")
	}
	if m.Count() != 1 {
		t.Errorf("Expected 1 cell, got %d", m.Count())
	}
}
