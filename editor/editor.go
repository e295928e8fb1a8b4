package editor

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/signal-collider/console"
	"github.com/lixenwraith/signal-collider/model"
	"github.com/lixenwraith/signal-collider/palette"
	"github.com/lixenwraith/signal-collider/parameter"
	"github.com/lixenwraith/signal-collider/sim"
)

// Screen layout
const (
	gridLeft   = 1
	gridTop    = 1
	statusRow  = gridTop + parameter.GridHeight + 1
	consoleRow = statusRow + 1
)

// Mode is the input mode of the editor
type Mode int

const (
	ModeGrid Mode = iota
	ModeConsole
)

func (m Mode) String() string {
	if m == ModeConsole {
		return "CONSOLE"
	}
	return "GRID"
}

// Loader accepts palette list paths for background loading
type Loader interface {
	Request(listPath string) error
	Results() <-chan palette.Result
}

var (
	styleNone     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleLiteral  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleOperator = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleAudio    = tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true)
	styleCursor   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	styleText     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Editor is the terminal front end: it reads keys, writes edits to the host
// and draws the latest published snapshot
// Runs on a single goroutine, the render side of the slot protocol
type Editor struct {
	screen tcell.Screen
	host   *sim.Host
	loader Loader

	cursor model.Point
	mode   Mode
	line   []rune

	status    string
	statusErr bool
	back      int // Snapshots behind live on display, 0 is live
}

// New creates an editor drawing to an initialised screen
func New(screen tcell.Screen, host *sim.Host, loader Loader) *Editor {
	return &Editor{
		screen:  screen,
		host:    host,
		loader:  loader,
		line:    make([]rune, 0, parameter.ConsoleBuffer),
	}
}

func (e *Editor) Cursor() model.Point { return e.cursor }
func (e *Editor) Mode() Mode          { return e.mode }
func (e *Editor) Status() string      { return e.status }
func (e *Editor) Line() string        { return string(e.line) }
func (e *Editor) Back() int           { return e.back }

// HandleEvent processes one terminal event, returns false to quit
func (e *Editor) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return e.HandleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		e.screen.Sync()
	}
	return true
}

// HandleKey processes one key press, returns false to quit
func (e *Editor) HandleKey(key tcell.Key, r rune) bool {
	if key == tcell.KeyCtrlC {
		return false
	}
	if e.mode == ModeConsole {
		return e.consoleKey(key, r)
	}
	e.gridKey(key, r)
	return true
}

func (e *Editor) gridKey(key tcell.Key, r rune) {
	switch key {
	case tcell.KeyUp:
		e.move(model.DirectionNorth)
	case tcell.KeyDown:
		e.move(model.DirectionSouth)
	case tcell.KeyLeft:
		e.move(model.DirectionWest)
	case tcell.KeyRight:
		e.move(model.DirectionEast)
	case tcell.KeyPgUp:
		e.back++
	case tcell.KeyPgDn:
		e.back = max(e.back-1, 0)
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		e.write(model.None)
	case tcell.KeyRune:
		if r == ':' {
			e.mode = ModeConsole
			e.line = e.line[:0]
			return
		}
		if v, ok := model.ParseGlyph(r); ok {
			e.write(v)
		}
	}
}

func (e *Editor) consoleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEnter:
		line := string(e.line)
		e.line = e.line[:0]
		e.mode = ModeGrid
		return e.run(line)
	case tcell.KeyEscape:
		e.line = e.line[:0]
		e.mode = ModeGrid
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(e.line) > 0 {
			e.line = e.line[:len(e.line)-1]
		}
	case tcell.KeyRune:
		if len(e.line) < parameter.ConsoleBuffer {
			e.line = append(e.line, r)
		}
	}
	return true
}

// move steps the cursor, staying inside the grid
func (e *Editor) move(d model.Direction) {
	if next := e.cursor.Step(d); next.Valid() {
		e.cursor = next
	}
}

func (e *Editor) write(v model.Value) {
	e.back = 0
	if !e.host.Write(e.cursor, v) {
		e.setError(errors.New("edit dropped, audio side busy"))
	}
}

// run executes a console line, returns false on quit
func (e *Editor) run(line string) bool {
	cmd, err := console.Parse(line)
	if err != nil {
		if !errors.Is(err, console.ErrEmpty) {
			e.setError(err)
		}
		return true
	}

	switch cmd.Kind {
	case console.KindQuit:
		return false

	case console.KindPalette:
		if e.loader == nil {
			e.setError(errors.New("palette loading unavailable"))
			return true
		}
		if err := e.loader.Request(cmd.Arg); err != nil {
			e.setError(err)
			return true
		}
		e.setStatus("loading palette " + cmd.Arg)

	case console.KindSave:
		m := e.host.Model()
		if m == nil {
			e.setError(errors.New("nothing to save yet"))
			return true
		}
		if err := model.SaveFile(cmd.Arg, model.Capture(m)); err != nil {
			e.setError(err)
			return true
		}
		e.setStatus("saved " + cmd.Arg)

	case console.KindLoad:
		g, err := model.LoadFile(cmd.Arg)
		if err != nil {
			e.setError(err)
			return true
		}
		e.send(e.host.Load(g), "loaded "+cmd.Arg)

	case console.KindReverb:
		e.send(e.host.SetReverb(cmd.Flag), fmt.Sprintf("reverb %v", onOff(cmd.Flag)))

	case console.KindPlay:
		e.send(e.host.SetTransport(true), "playing")

	case console.KindStop:
		e.send(e.host.SetTransport(false), "stopped")

	case console.KindClear:
		e.send(e.host.Load(&model.Grid{}), "cleared")
	}
	return true
}

func (e *Editor) send(ok bool, msg string) bool {
	if !ok {
		e.setError(errors.New("control queue full"))
		return false
	}
	e.setStatus(msg)
	return true
}

func (e *Editor) setStatus(msg string) {
	e.status, e.statusErr = msg, false
	log.Printf("editor: %s", msg)
}

func (e *Editor) setError(err error) {
	e.status, e.statusErr = err.Error(), true
	log.Printf("editor: %v", err)
}

// paletteResult reports a finished background load
func (e *Editor) paletteResult(r palette.Result) {
	if r.Err != nil {
		e.setError(fmt.Errorf("palette %s: %w", r.Path, r.Err))
		return
	}
	e.setStatus(fmt.Sprintf("palette %s: %d sounds", r.Path, r.Populated))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Frame refreshes the host and returns the snapshot to draw
// PgUp/PgDn step through retained history; the offset clamps to what is kept
func (e *Editor) Frame() *model.Model {
	live := e.host.Refresh()
	if e.back == 0 {
		return live
	}
	hist := e.host.History()
	if len(hist) == 0 {
		e.back = 0
		return live
	}
	e.back = min(e.back, len(hist))
	return hist[e.back-1]
}

// Draw renders m, the grid cursor, status and console lines
func (e *Editor) Draw(m *model.Model) {
	e.screen.Clear()

	drawText(e.screen, gridLeft, 0, styleText, "signal collider")

	if m != nil {
		for y := 0; y < parameter.GridHeight; y++ {
			for x := 0; x < parameter.GridWidth; x++ {
				p := model.Point{X: x, Y: y}
				v := m.Get(p)
				style := cellStyle(v)
				if m.Banged(p) {
					style = style.Reverse(true)
				}
				e.screen.SetContent(gridLeft+x, gridTop+y, v.Glyph(), nil, style)
			}
		}
	}

	glyph := model.GlyphNone
	if m != nil {
		glyph = m.Get(e.cursor).Glyph()
	}
	e.screen.SetContent(gridLeft+e.cursor.X, gridTop+e.cursor.Y, glyph, nil, styleCursor)

	drawText(e.screen, gridLeft, statusRow, styleText, e.statusLine(m))

	switch {
	case e.mode == ModeConsole:
		drawText(e.screen, gridLeft, consoleRow, styleText, ":"+string(e.line))
		e.screen.ShowCursor(gridLeft+1+len(e.line), consoleRow)
	case e.status != "":
		style := styleText
		if e.statusErr {
			style = styleError
		}
		drawText(e.screen, gridLeft, consoleRow, style, e.status)
		e.screen.HideCursor()
	default:
		e.screen.HideCursor()
	}

	e.screen.Show()
}

func (e *Editor) statusLine(m *model.Model) string {
	var ticks uint64
	if m != nil {
		ticks = m.Ticks
	}
	st := e.host.Stats()
	transport := "play"
	if !st.Playing {
		transport = "stop"
	}
	view := "live"
	if e.back > 0 {
		view = fmt.Sprintf("-%d", e.back)
	}
	return fmt.Sprintf("%-7s %02d,%02d  %-4s tick %-6d %s  rev %-3s  snd %-2d  pub %d  starve %d  drop %d",
		e.mode, e.cursor.X, e.cursor.Y, view, ticks, transport, onOff(st.Reverb), st.Sounds, st.Published, st.Starved, st.Dropped)
}

func cellStyle(v model.Value) tcell.Style {
	switch {
	case v.IsNone():
		return styleNone
	case v.IsLiteral():
		return styleLiteral
	case v.Tag.Audio():
		return styleAudio
	}
	return styleOperator
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// Run drives the editor until quit or stop is closed
// Events come from a polling goroutine; the grid is redrawn on every frame tick
func (e *Editor) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)

	eventChan := make(chan tcell.Event, parameter.EventChannelSize)
	go func() {
		for {
			ev := e.screen.PollEvent()
			if ev == nil {
				return // Screen finalised
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()

	var results <-chan palette.Result
	if e.loader != nil {
		results = e.loader.Results()
	}

	for {
		select {
		case <-stop:
			return
		case ev := <-eventChan:
			if !e.HandleEvent(ev) {
				return
			}
		case r := <-results:
			e.paletteResult(r)
		case <-ticker.C:
			e.Draw(e.Frame())
		}
	}
}
