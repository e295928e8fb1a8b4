package sim

import (
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/lixenwraith/signal-collider/engine"
	"github.com/lixenwraith/signal-collider/model"
	"github.com/lixenwraith/signal-collider/palette"
	"github.com/lixenwraith/signal-collider/parameter"
)

const block = 256

func newSim(t *testing.T, depth int) (*Sim, *Host) {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.Volume = 1
	return Init(engine.New(cfg), Config{HistoryDepth: depth})
}

func step(s *Sim, frames int) []float32 {
	out := make([]float32, frames*parameter.AudioChannels)
	s.Step(out, frames)
	return out
}

func TestInitSeedsPool(t *testing.T) {
	_, h := newSim(t, 0)

	if h.Model() != nil {
		t.Fatal("No snapshot should be shown before Refresh")
	}

	m := h.Refresh()
	if m == nil || h.Shown() != 0 {
		t.Fatalf("Expected slot 0 on first Refresh, got %d", h.Shown())
	}
	if m.Ticks != 0 || m.Count() != 0 {
		t.Error("Slot 0 should be an empty, untouched model")
	}

	l := h.Ledger()
	if l.Owner(0) != OwnerRender {
		t.Errorf("Expected slot 0 owned by render, got %s", l.Owner(0))
	}
	for i := 1; i < parameter.HistorySlots; i++ {
		if l.Owner(i) != OwnerFreed {
			t.Errorf("Expected slot %d freed, got %s", i, l.Owner(i))
		}
	}
}

func TestEditReachesSnapshot(t *testing.T) {
	s, h := newSim(t, 0)
	p := model.Point{X: 3, Y: 2}

	if !h.Write(p, model.Lit(9)) {
		t.Fatal("Write rejected")
	}
	step(s, block)

	m := h.Refresh()
	if got := m.Literal(p, -1); got != 9 {
		t.Errorf("Expected 9 in published snapshot, got %d", got)
	}
	if m.Frame != block {
		t.Errorf("Expected frame %d, got %d", block, m.Frame)
	}

	h.Clear(p)
	step(s, block)
	if h.Refresh().Get(p) != model.None {
		t.Error("Clear did not reach the snapshot")
	}
}

func TestWriteRejectsInvalid(t *testing.T) {
	_, h := newSim(t, 0)

	if h.Write(model.Point{X: -1, Y: 0}, model.Lit(1)) {
		t.Error("Out-of-bounds write accepted")
	}
	if h.Write(model.Point{X: 0, Y: parameter.GridHeight}, model.Lit(1)) {
		t.Error("Out-of-bounds write accepted")
	}
	if h.Write(model.Point{X: 0, Y: 0}, model.Lit(parameter.Radix)) {
		t.Error("Out-of-range literal accepted")
	}
	if h.Stats().Dropped != 0 {
		t.Error("Rejected writes are not queue drops")
	}
}

func TestStepZeroIsIdempotent(t *testing.T) {
	s, h := newSim(t, 0)
	step(s, block)
	before := s.Stats()

	s.Step(nil, 0)
	s.Step(make([]float32, 8), -1)

	if s.Stats() != before {
		t.Errorf("Step(0) changed stats: %+v -> %+v", before, s.Stats())
	}
	h.Refresh()
	if h.Model().Frame != block {
		t.Errorf("Step(0) advanced the model to frame %d", h.Model().Frame)
	}
}

func TestBatchEquivalence(t *testing.T) {
	run := func(blocks int) ([]float32, model.Model) {
		s, h := newSim(t, 0)
		h.Write(model.Point{X: 0, Y: 0}, model.Op(model.TagClock))
		h.Write(model.Point{X: 0, Y: 1}, model.Op(model.TagSynth))
		h.Write(model.Point{X: 1, Y: 1}, model.Lit(7))

		const total = parameter.TickFrames * 3
		out := make([]float32, 0, total*parameter.AudioChannels)
		size := total / blocks
		for i := 0; i < blocks; i++ {
			out = append(out, step(s, size)...)
			h.Refresh()
		}
		return out, *h.Model()
	}

	oneOut, oneModel := run(1)
	for _, blocks := range []int{9, 27, 250} {
		out, m := run(blocks)
		if m != oneModel {
			t.Errorf("%d blocks: final snapshot differs from single block", blocks)
		}
		for i := range out {
			if out[i] != oneOut[i] {
				t.Errorf("%d blocks: sample %d differs", blocks, i)
				break
			}
		}
	}
}

func TestWriteDrainGranularity(t *testing.T) {
	a, b := model.Point{X: 5, Y: 5}, model.Point{X: 6, Y: 5}
	writes := []struct {
		at model.Point
		v  model.Value
	}{
		{a, model.Lit(3)},
		{b, model.Lit(9)},
		{a, model.Lit(7)},
		{b, model.None},
	}

	// All writes land in a single Step
	batched, hb := newSim(t, 0)
	for _, w := range writes {
		hb.Write(w.at, w.v)
	}
	for range writes {
		step(batched, block)
		hb.Refresh()
	}

	// One write per Step
	single, hs := newSim(t, 0)
	for _, w := range writes {
		hs.Write(w.at, w.v)
		step(single, block)
		hs.Refresh()
	}

	mb, ms := hb.Model(), hs.Model()
	if *mb != *ms {
		t.Error("Batched and per-step writes produced different snapshots")
	}
	if v := mb.Get(a); v != model.Lit(7) {
		t.Errorf("Expected last write to win at %v, got %v", a, v)
	}
	if v := mb.Get(b); !v.IsNone() {
		t.Errorf("Expected %v cleared, got %v", b, v)
	}
}

func TestLedgerCirculation(t *testing.T) {
	s, h := newSim(t, 2)

	var lastFrame uint64
	for i := 0; i < 200; i++ {
		step(s, block)
		m := h.Refresh()
		if m.Frame <= lastFrame && i > 0 {
			t.Fatalf("iteration %d: snapshot frame went from %d to %d", i, lastFrame, m.Frame)
		}
		lastFrame = m.Frame
	}

	l := h.Ledger()
	counts := map[Owner]int{}
	for i := 0; i < parameter.HistorySlots; i++ {
		counts[l.Owner(i)]++
	}
	// Shown plus two retained
	if counts[OwnerRender] != 3 {
		t.Errorf("Expected 3 render-owned slots, got %d", counts[OwnerRender])
	}
	if counts[OwnerPublished] != 0 {
		t.Errorf("Expected no slot in flight after Refresh, got %d", counts[OwnerPublished])
	}
	if counts[OwnerAudio]+counts[OwnerFreed] != parameter.HistorySlots-3 {
		t.Errorf("Slots leaked: %v", counts)
	}
	if st := s.Stats(); st.Published != 200 || st.Starved != 0 {
		t.Errorf("Expected 200 publishes without starvation, got %+v", st)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	s, h := newSim(t, 3)
	for i := 0; i < 10; i++ {
		step(s, block)
		h.Refresh()
	}

	hist := h.History()
	if len(hist) != 3 {
		t.Fatalf("Expected 3 retained snapshots, got %d", len(hist))
	}
	prev := h.Model().Frame
	for i, m := range hist {
		if m.Frame >= prev {
			t.Errorf("history %d: frame %d not older than %d", i, m.Frame, prev)
		}
		prev = m.Frame
	}
}

func TestStarvationKeepsAudioRunning(t *testing.T) {
	s, h := newSim(t, 0)
	h.Write(model.Point{X: 0, Y: 0}, model.Op(model.TagSynth))

	// No Refresh: the render side never returns slots
	const steps = 40
	var last []float32
	for i := 0; i < steps; i++ {
		last = step(s, block)
	}

	st := s.Stats()
	free := parameter.HistorySlots - 2 // one shown at init, one held by audio
	if st.Published != uint64(free) {
		t.Errorf("Expected %d publishes, got %d", free, st.Published)
	}
	if st.Starved != uint64(steps-free) {
		t.Errorf("Expected %d starved publishes, got %d", steps-free, st.Starved)
	}
	if st.Blocks != steps {
		t.Errorf("Expected %d rendered blocks, got %d", steps, st.Blocks)
	}

	nonzero := false
	for _, v := range last {
		if v != 0 {
			nonzero = true
			break
		}
	}
	if !nonzero {
		t.Error("Audio stopped while starved")
	}

	// Recovery once the render side catches up
	h.Refresh()
	step(s, block)
	if s.Stats().Published != uint64(free)+1 {
		t.Error("Publishing did not resume after Refresh")
	}
}

func TestControlMessages(t *testing.T) {
	s, h := newSim(t, 0)
	h.Write(model.Point{X: 0, Y: 0}, model.Op(model.TagSynth))

	h.SetTransport(false)
	out := step(s, block)
	for _, v := range out {
		if v != 0 {
			t.Fatal("Stopped transport should be silent")
		}
	}
	if s.Engine().Playing() {
		t.Error("Transport flag not applied")
	}

	h.SetReverb(true)
	h.SetTransport(true)
	step(s, block)
	if !s.Engine().Reverb() || !s.Engine().Playing() {
		t.Error("Control flags not applied")
	}
	if st := h.Stats(); !st.Reverb || !st.Playing {
		t.Errorf("Expected stats to report reverb and playing, got %+v", st)
	}

	h.SetTransport(false)
	step(s, block)
	if h.Stats().Playing {
		t.Error("Expected stats to report the stopped transport")
	}
}

func TestLoadReplacesGrid(t *testing.T) {
	s, h := newSim(t, 0)
	h.Write(model.Point{X: 5, Y: 5}, model.Lit(1))
	step(s, block)

	g := &model.Grid{}
	g[0][0] = model.Op(model.TagClock)
	h.Load(g)
	step(s, block)

	m := h.Refresh()
	if m.Get(model.Point{X: 5, Y: 5}) != model.None {
		t.Error("Load should replace existing cells")
	}
	if m.Get(model.Point{X: 0, Y: 0}) != model.Op(model.TagClock) {
		t.Error("Loaded cell missing")
	}
}

func TestPaletteHandoff(t *testing.T) {
	s, h := newSim(t, 0)
	bank := &palette.Bank{}
	bank.Sounds[3] = palette.Sound{Channels: 1, SampleRate: 48000, Frames: 1, Samples: make([]float32, 2)}

	if !h.SetPalette(bank) {
		t.Fatal("SetPalette rejected")
	}
	if s.Engine().Palette() != nil {
		t.Fatal("Palette applied before the audio side ran")
	}
	step(s, block)
	if s.Engine().Palette() != bank {
		t.Error("Palette not applied by Step")
	}
	if n := h.Stats().Sounds; n != 1 {
		t.Errorf("Expected 1 populated sound in stats, got %d", n)
	}

	if h.SetPalette(nil) {
		t.Error("Nil palette should be rejected")
	}
}

func TestDroppedOnFullQueue(t *testing.T) {
	_, h := newSim(t, 0)

	p := model.Point{X: 0, Y: 0}
	for i := 0; i < parameter.QueueCapacity; i++ {
		if !h.Write(p, model.Lit(1)) {
			t.Fatalf("write %d failed before capacity", i)
		}
	}
	if h.Write(p, model.Lit(1)) {
		t.Error("Write beyond capacity should fail")
	}
	if h.Stats().Dropped != 1 {
		t.Errorf("Expected 1 dropped, got %d", h.Stats().Dropped)
	}
}

func TestOwnershipViolationPanics(t *testing.T) {
	_, h := newSim(t, 0)

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrOwnership) {
			t.Errorf("Expected ErrOwnership panic, got %v", r)
		}
	}()

	// Slot 1 is freed, not published
	h.Ledger().transfer(1, OwnerPublished, OwnerRender)
}

// TestConcurrentProtocol runs the audio and render sides on separate goroutines
func TestConcurrentProtocol(t *testing.T) {
	s, h := newSim(t, 4)
	const blocks = 3000

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		out := make([]float32, 64*parameter.AudioChannels)
		for i := 0; i < blocks; i++ {
			s.Step(out, 64)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		for {
			select {
			case <-done:
				return
			default:
			}
			h.Write(model.Point{X: i % parameter.GridWidth, Y: 0}, model.Lit(i%parameter.Radix))
			h.Refresh()
			i++
			runtime.Gosched()
		}
	}()

	wg.Wait()

	// Both sides are quiescent now; one more round trip must publish
	h.Refresh()
	step(s, 64)
	h.Refresh()

	if h.Model().Frame != (blocks+1)*64 {
		t.Errorf("Expected final frame %d, got %d", (blocks+1)*64, h.Model().Frame)
	}
	st := s.Stats()
	if st.Blocks != blocks+1 {
		t.Errorf("Expected %d blocks, got %d", blocks+1, st.Blocks)
	}
	if st.Published+st.Starved != blocks+1 {
		t.Errorf("Every block should publish or starve: %+v", st)
	}
}
